// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import "github.com/google/uuid"

type AnnotationKind string

const (
	AnnotationTrend AnnotationKind = "trend"
	AnnotationLevel AnnotationKind = "level"
)

// Annotation is either a trend line between two data points or a horizontal level.
// Coordinates are always in data space, never in pixels, so that annotations survive
// zooming, panning and resizing.
type Annotation struct {
	Kind  AnnotationKind `json:"kind"`
	Id    string         `json:"id"`
	Start DataPoint      `json:"start,omitempty"`
	End   DataPoint      `json:"end,omitempty"`
	Price float64        `json:"price,omitempty"`
}

func NewTrendAnnotation(start, end DataPoint) Annotation {
	return Annotation{
		Kind:  AnnotationTrend,
		Id:    uuid.NewString(),
		Start: start,
		End:   end,
	}
}

func NewLevelAnnotation(price float64) Annotation {
	return Annotation{
		Kind:  AnnotationLevel,
		Id:    uuid.NewString(),
		Price: price,
	}
}

func (a Annotation) IsTrend() bool {
	return a.Kind == AnnotationTrend
}

func (a Annotation) IsLevel() bool {
	return a.Kind == AnnotationLevel
}

// A trend line while it is being placed. Only the start point is fixed,
// the end point follows the pointer.
type DraftAnnotation struct {
	Start DataPoint
	End   DataPoint
}

// Commit turns the draft into a persisted trend annotation.
func (d DraftAnnotation) Commit() Annotation {
	return NewTrendAnnotation(d.Start, d.End)
}

func IndexOfAnnotation(list []Annotation, id string) int {
	for i := range list {
		if list[i].Id == id {
			return i
		}
	}
	return -1
}
