// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"testing"
	"time"

	"relaychart/coords"
	"relaychart/gesture"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"github.com/stretchr/testify/assert"
)

func TestPointerEventConversion(t *testing.T) {
	now := time.Unix(1000, 0)
	kinds := map[pointer.Kind]gesture.PointerKind{
		pointer.Press:   gesture.PointerDown,
		pointer.Move:    gesture.PointerMove,
		pointer.Drag:    gesture.PointerMove,
		pointer.Release: gesture.PointerUp,
		pointer.Leave:   gesture.PointerLeave,
		pointer.Cancel:  gesture.PointerCancel,
	}
	for gioType, kind := range kinds {
		ev, ok := pointerEvent(pointer.Event{Kind: gioType, PointerID: 3, Position: f32.Pt(10, 20)}, now)
		assert.True(t, ok, gioType.String())
		assert.Equal(t, gesture.PointerEvent{Kind: kind, Id: 3, Position: coords.Point{X: 10, Y: 20}, Time: now}, ev)
	}
	_, ok := pointerEvent(pointer.Event{Kind: pointer.Enter}, now)
	assert.False(t, ok)
}

func TestWheelEventConversion(t *testing.T) {
	now := time.Unix(1000, 0)
	ev := wheelEvent(pointer.Event{Kind: pointer.Scroll, Position: f32.Pt(5, 6), Scroll: f32.Pt(0, -120)}, now)
	assert.Equal(t, gesture.WheelEvent{Position: coords.Point{X: 5, Y: 6}, DeltaY: -120, Time: now}, ev)
}
