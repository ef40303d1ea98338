// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"relaychart/backtest"

	"github.com/lotodore/localcache"
	"github.com/rs/zerolog"
)

const (
	CacheKeyLastResult = "lastresult"
	ResultMaxAge       = 24 * time.Hour
)

type localResultCache struct {
	data *localcache.Cache
	lock sync.Mutex
	log  zerolog.Logger
}

// NewLocalResultCache creates a cache in the user cache directory below appName/name.
func NewLocalResultCache(appName, name string, log zerolog.Logger) (ResultCache, error) {
	data, err := localcache.New(filepath.Join(appName, name))
	if err != nil {
		return nil, fmt.Errorf("error initializing result cache: %w", err)
	}
	return &localResultCache{data: data, log: log}, nil
}

func (c *localResultCache) LastResult() (*backtest.Result, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	// Results older than a day are outdated.
	if err := c.data.PurgeKey(CacheKeyLastResult, ResultMaxAge); err != nil {
		c.log.Warn().Err(err).Msg("error purging result cache, result may be outdated")
	}
	raw, err := c.data.ReadFile(CacheKeyLastResult)
	if err != nil {
		return nil, false
	}
	result, err := backtest.Decode(bytes.NewReader(raw))
	if err != nil {
		c.log.Warn().Err(err).Msg("result cache contains invalid data")
		if err = c.data.Remove(CacheKeyLastResult); err != nil {
			c.log.Error().Err(err).Msg("error deleting result cache")
		}
		return nil, false
	}
	return result, true
}

func (c *localResultCache) StoreResult(r *backtest.Result) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.data.WriteFile(CacheKeyLastResult, raw)
}

// Clear removes the cached result.
func (c *localResultCache) Clear() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.data.Remove(CacheKeyLastResult)
}
