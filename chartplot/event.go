// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"time"

	"relaychart/coords"
	"relaychart/gesture"

	"gioui.org/io/pointer"
)

func toPoint(e pointer.Event) coords.Point {
	return coords.Point{X: float64(e.Position.X), Y: float64(e.Position.Y)}
}

// pointerEvent converts a Gio pointer event. Scroll events are not pointer events.
func pointerEvent(e pointer.Event, now time.Time) (gesture.PointerEvent, bool) {
	ev := gesture.PointerEvent{
		Id:       int(e.PointerID),
		Position: toPoint(e),
		Time:     now,
	}
	switch e.Kind {
	case pointer.Press:
		ev.Kind = gesture.PointerDown
	case pointer.Move, pointer.Drag:
		ev.Kind = gesture.PointerMove
	case pointer.Release:
		ev.Kind = gesture.PointerUp
	case pointer.Leave:
		ev.Kind = gesture.PointerLeave
	case pointer.Cancel:
		ev.Kind = gesture.PointerCancel
	default:
		return ev, false
	}
	return ev, true
}

func wheelEvent(e pointer.Event, now time.Time) gesture.WheelEvent {
	return gesture.WheelEvent{
		Position: toPoint(e),
		DeltaY:   float64(e.Scroll.Y),
		Time:     now,
	}
}
