// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package annotstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"relaychart/chartval"

	"github.com/rs/zerolog"
	"github.com/tidwall/buntdb"
)

var ErrNotFound = errors.New("annotation not found")

const keyPrefix = "annotation:"

type record struct {
	Dataset    string              `json:"dataset"`
	Annotation chartval.Annotation `json:"annotation"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Store persists annotation sets per dataset. Keys are ordered by creation,
// so a list is returned in the order the annotations were added.
type Store struct {
	db      *buntdb.DB
	seqLock sync.Mutex
	seq     int64
	log     zerolog.Logger
}

// Open opens or creates a database file. Use ":memory:" for a temporary store.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation store %s: %w", path, err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// List returns the annotations of a dataset.
func (s *Store) List(dataset string) ([]chartval.Annotation, error) {
	annotations := make([]chartval.Annotation, 0)
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(datasetPattern(dataset), func(key, value string) bool {
			var r record
			if err := json.Unmarshal([]byte(value), &r); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("skipping invalid annotation")
				return true
			}
			annotations = append(annotations, r.Annotation)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations of %s: %w", dataset, err)
	}
	return annotations, nil
}

// Save adds an annotation or updates it if the id exists.
func (s *Store) Save(dataset string, a chartval.Annotation) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		key, err := findKey(tx, dataset, a.Id)
		if errors.Is(err, ErrNotFound) {
			key = s.newKey(dataset)
		} else if err != nil {
			return err
		}
		return set(tx, key, dataset, a)
	})
}

// Replace stores exactly the given list for a dataset.
func (s *Store) Replace(dataset string, annotations []chartval.Annotation) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		if _, err := deleteAll(tx, dataset); err != nil {
			return err
		}
		for _, a := range annotations {
			if err := set(tx, s.newKey(dataset), dataset, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Delete(dataset, id string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		key, err := findKey(tx, dataset, id)
		if err != nil {
			return err
		}
		_, err = tx.Delete(key)
		return err
	})
}

// Clear removes all annotations of a dataset and returns how many were removed.
func (s *Store) Clear(dataset string) (int, error) {
	var n int
	err := s.db.Update(func(tx *buntdb.Tx) error {
		var err error
		n, err = deleteAll(tx, dataset)
		return err
	})
	return n, err
}

// Datasets returns the names of all datasets with annotations.
func (s *Store) Datasets() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(keyPrefix+"*", func(key, _ string) bool {
			escaped, _, found := strings.Cut(strings.TrimPrefix(key, keyPrefix), ":")
			if !found {
				return true
			}
			name, err := url.QueryUnescape(escaped)
			if err != nil {
				return true
			}
			if len(names) == 0 || names[len(names)-1] != name {
				names = append(names, name)
			}
			return true
		})
	})
	return names, err
}

func (s *Store) newKey(dataset string) string {
	s.seqLock.Lock()
	defer s.seqLock.Unlock()
	s.seq = max(s.seq+1, time.Now().UnixNano())
	return fmt.Sprintf("%s%s:%020d", keyPrefix, url.QueryEscape(dataset), s.seq)
}

func datasetPattern(dataset string) string {
	return keyPrefix + url.QueryEscape(dataset) + ":*"
}

func set(tx *buntdb.Tx, key, dataset string, a chartval.Annotation) error {
	content, err := json.Marshal(record{Dataset: dataset, Annotation: a, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal annotation: %w", err)
	}
	if _, _, err = tx.Set(key, string(content), nil); err != nil {
		return fmt.Errorf("failed to store annotation: %w", err)
	}
	return nil
}

func findKey(tx *buntdb.Tx, dataset, id string) (string, error) {
	var found string
	err := tx.AscendKeys(datasetPattern(dataset), func(key, value string) bool {
		var r record
		if json.Unmarshal([]byte(value), &r) == nil && r.Annotation.Id == id {
			found = key
			return false
		}
		return true
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return found, nil
}

func deleteAll(tx *buntdb.Tx, dataset string) (int, error) {
	var keys []string
	err := tx.AscendKeys(datasetPattern(dataset), func(key, _ string) bool {
		keys = append(keys, key)
		return true
	})
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if _, err := tx.Delete(key); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}
