// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package gesture

import (
	"time"

	"relaychart/coords"
	"relaychart/viewport"
)

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
	PointerCancel
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

type PointerEvent struct {
	Kind     PointerKind
	Id       int
	Position coords.Point
	Time     time.Time
}

// WheelEvent is a scroll event. Negative DeltaY scrolls up.
type WheelEvent struct {
	Position coords.Point
	DeltaY   float64
	Time     time.Time
}

// IntentSink receives the output of a controller.
type IntentSink interface {
	ApplyViewport(intent viewport.Intent)
	// A press and release without drag.
	Click(pos coords.Point)
	// Pointer movement while no gesture is active.
	Hover(pos coords.Point)
}

type PointerCapturer interface {
	Capture(id int)
	Release(id int)
}

type MapperSource interface {
	Mapper() coords.Mapper
}

type noCapture struct{}

func (noCapture) Capture(int) {}
func (noCapture) Release(int) {}
