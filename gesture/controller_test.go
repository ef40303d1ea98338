// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package gesture

import (
	"math"
	"testing"
	"time"

	"relaychart/coords"
	"relaychart/viewport"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSource struct {
	mapper coords.Mapper
}

func (s *testSource) Mapper() coords.Mapper {
	return s.mapper
}

type testSink struct {
	intents []viewport.Intent
	clicks  []coords.Point
	hovers  []coords.Point
}

func (s *testSink) ApplyViewport(intent viewport.Intent) {
	s.intents = append(s.intents, intent)
}

func (s *testSink) Click(pos coords.Point) {
	s.clicks = append(s.clicks, pos)
}

func (s *testSink) Hover(pos coords.Point) {
	s.hovers = append(s.hovers, pos)
}

type testCapturer struct {
	captured map[int]bool
}

func (c *testCapturer) Capture(id int) {
	c.captured[id] = true
}

func (c *testCapturer) Release(id int) {
	delete(c.captured, id)
}

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Pixel x maps 1:1 to data values in [0, 1000].
func newTestController() (*Controller, *testSink, *testCapturer) {
	source := &testSource{mapper: coords.NewProjection(coords.NewRect(0, 0, 1000, 500), 0, 1000, 0, 100)}
	sink := &testSink{}
	capturer := &testCapturer{captured: make(map[int]bool)}
	return NewController(DefaultConfig(), source, sink, capturer, zerolog.Nop()), sink, capturer
}

func pointer(kind PointerKind, id int, x, y float64) PointerEvent {
	return PointerEvent{Kind: kind, Id: id, Position: coords.Point{X: x, Y: y}, Time: testStart}
}

func TestBrushCommitsSelection(t *testing.T) {
	c, sink, capturer := newTestController()

	c.Pointer(pointer(PointerDown, 1, 100, 200))
	assert.Equal(t, Brushing, c.State())
	assert.True(t, capturer.captured[1])
	c.Pointer(pointer(PointerMove, 1, 250, 220))
	selection, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, coords.NewRect(100, 0, 250, 500), selection)
	assert.Empty(t, sink.intents)
	c.Pointer(pointer(PointerUp, 1, 300, 220))

	assert.Equal(t, Idle, c.State())
	assert.False(t, capturer.captured[1])
	require.Len(t, sink.intents, 1)
	sel, ok := sink.intents[0].(viewport.SelectIntent)
	require.True(t, ok)
	assert.InDelta(t, 100.0, sel.Start, 1e-9)
	assert.InDelta(t, 300.0, sel.End, 1e-9)
	assert.InDelta(t, 200.0, sel.PixelSpan, 1e-9)
}

func TestBrushRightToLeft(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 600, 200))
	c.Pointer(pointer(PointerUp, 1, 400, 200))

	require.Len(t, sink.intents, 1)
	sel := sink.intents[0].(viewport.SelectIntent)
	assert.InDelta(t, 600.0, sel.Start, 1e-9)
	assert.InDelta(t, 400.0, sel.End, 1e-9)
}

func TestShortBrushIsClick(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.Pointer(pointer(PointerUp, 1, 103, 200))

	assert.Empty(t, sink.intents)
	assert.Equal(t, []coords.Point{{X: 100, Y: 200}}, sink.clicks)
}

func TestBrushOutsidePlotIsIgnored(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 100, 600))
	c.Pointer(pointer(PointerUp, 1, 300, 600))

	assert.Equal(t, Idle, c.State())
	assert.Empty(t, sink.intents)
	assert.Empty(t, sink.clicks)
}

func TestBrushClampsToPlot(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 900, 200))
	c.Pointer(pointer(PointerUp, 1, 1300, 200))

	require.Len(t, sink.intents, 1)
	assert.InDelta(t, 1000.0, sink.intents[0].(viewport.SelectIntent).End, 1e-9)
}

func TestBrushSettlesAfterLeave(t *testing.T) {
	c, sink, capturer := newTestController()
	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.Pointer(pointer(PointerMove, 1, 400, 200))

	c.Pointer(pointer(PointerLeave, 1, 400, 200))
	deadline, ok := c.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, testStart.Add(150*time.Millisecond), deadline)

	c.Tick(testStart.Add(100 * time.Millisecond))
	assert.Equal(t, Brushing, c.State())
	assert.Empty(t, sink.intents)

	c.Tick(deadline)
	assert.Equal(t, Idle, c.State())
	assert.False(t, capturer.captured[1])
	require.Len(t, sink.intents, 1)
	assert.InDelta(t, 400.0, sink.intents[0].(viewport.SelectIntent).End, 1e-9)
	_, ok = c.NextDeadline()
	assert.False(t, ok)
}

func TestBrushResumesWhenPointerReturns(t *testing.T) {
	c, sink, _ := newTestController()
	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.Pointer(pointer(PointerLeave, 1, 400, 200))

	c.Pointer(pointer(PointerMove, 1, 500, 200))
	_, ok := c.NextDeadline()
	assert.False(t, ok)
	c.Tick(testStart.Add(time.Second))
	assert.Equal(t, Brushing, c.State())

	c.Pointer(pointer(PointerUp, 1, 700, 200))
	require.Len(t, sink.intents, 1)
	assert.InDelta(t, 700.0, sink.intents[0].(viewport.SelectIntent).End, 1e-9)
}

func TestPinchDoublesMultiplierAroundCenter(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 450, 200))
	c.Pointer(pointer(PointerDown, 2, 550, 200))
	require.Equal(t, Pinching, c.State())
	// The anchor is taken when the pinch starts.
	assert.InDelta(t, 500.0, c.data.pinchCenter, 1e-9)
	assert.InDelta(t, 100.0, c.data.pinchDistance, 1e-9)
	c.Pointer(pointer(PointerMove, 1, 400, 200))
	c.Pointer(pointer(PointerMove, 2, 600, 200))

	require.Len(t, sink.intents, 2)
	product := 1.0
	for _, intent := range sink.intents {
		product *= intent.(viewport.ZoomIntent).Multiplier
	}
	assert.InDelta(t, 2.0, product, 1e-9)
	assert.InDelta(t, 500.0, sink.intents[1].(viewport.ZoomIntent).Center, 1e-9)
}

func TestPinchSingleStep(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 500, 100))
	c.Pointer(pointer(PointerDown, 2, 500, 200))
	c.Pointer(pointer(PointerMove, 2, 500, 300))

	require.Len(t, sink.intents, 1)
	zoom := sink.intents[0].(viewport.ZoomIntent)
	assert.InDelta(t, 2.0, zoom.Multiplier, 1e-9)
	assert.InDelta(t, 500.0, zoom.Center, 1e-9)
}

func TestPinchStartOutsidePlotWaitsForMappableMove(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 1100, 200))
	c.Pointer(pointer(PointerDown, 2, 1300, 200))
	require.Equal(t, Pinching, c.State())
	assert.Zero(t, c.data.pinchDistance)

	// The first mappable sample only sets the baseline.
	c.Pointer(pointer(PointerMove, 1, 400, 200))
	assert.Empty(t, sink.intents)
	c.Pointer(pointer(PointerMove, 2, 600, 200))

	require.Len(t, sink.intents, 1)
	zoom := sink.intents[0].(viewport.ZoomIntent)
	assert.InDelta(t, 200.0/900.0, zoom.Multiplier, 1e-9)
	assert.InDelta(t, 500.0, zoom.Center, 1e-9)
}

func TestPinchIgnoresNoise(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 450, 200))
	c.Pointer(pointer(PointerDown, 2, 550, 200))
	c.Pointer(pointer(PointerMove, 2, 550.5, 200))

	assert.Empty(t, sink.intents)
}

func TestPinchCancelsBrush(t *testing.T) {
	c, sink, capturer := newTestController()

	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.Pointer(pointer(PointerMove, 1, 300, 200))
	c.Pointer(pointer(PointerLeave, 1, 300, 200))
	c.Pointer(pointer(PointerDown, 2, 400, 200))

	assert.Equal(t, Pinching, c.State())
	assert.False(t, capturer.captured[1])
	_, pending := c.NextDeadline()
	assert.False(t, pending)
	c.Tick(testStart.Add(time.Second))
	assert.Empty(t, sink.intents)
}

func TestPinchCancelsPendingSettle(t *testing.T) {
	c, sink, capturer := newTestController()

	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.Pointer(pointer(PointerMove, 1, 300, 200))
	c.Pointer(pointer(PointerLeave, 1, 300, 200))
	deadline, ok := c.NextDeadline()
	require.True(t, ok)
	c.Tick(deadline.Add(-time.Millisecond))
	require.Equal(t, Brushing, c.State())

	c.Pointer(pointer(PointerDown, 2, 400, 200))
	c.Tick(deadline.Add(time.Millisecond))

	assert.Equal(t, Pinching, c.State())
	assert.Empty(t, sink.intents)
	assert.Empty(t, sink.clicks)
	assert.Empty(t, capturer.captured)
	_, ok = c.NextDeadline()
	assert.False(t, ok)
}

func TestPinchEndsWhenPointerLifts(t *testing.T) {
	c, _, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 450, 200))
	c.Pointer(pointer(PointerDown, 2, 550, 200))
	c.Pointer(pointer(PointerUp, 2, 550, 200))

	assert.Equal(t, Idle, c.State())
}

func TestWheelZoom(t *testing.T) {
	c, sink, _ := newTestController()

	c.Wheel(WheelEvent{Position: coords.Point{X: 500, Y: 200}, DeltaY: -100})
	c.Wheel(WheelEvent{Position: coords.Point{X: 500, Y: 200}, DeltaY: 250})
	c.Wheel(WheelEvent{Position: coords.Point{X: 500, Y: 200}, DeltaY: -3})
	c.Wheel(WheelEvent{Position: coords.Point{X: 500, Y: 200}, DeltaY: -5000})

	require.Len(t, sink.intents, 4)
	multipliers := make([]float64, 0, 4)
	for _, intent := range sink.intents {
		zoom := intent.(viewport.ZoomIntent)
		assert.InDelta(t, 500.0, zoom.Center, 1e-9)
		multipliers = append(multipliers, zoom.Multiplier)
	}
	assert.InDelta(t, 0.9, multipliers[0], 1e-9)
	assert.InDelta(t, math.Pow(1/0.9, 2.5), multipliers[1], 1e-9)
	assert.InDelta(t, 0.9, multipliers[2], 1e-9)
	assert.InDelta(t, math.Pow(0.9, 5), multipliers[3], 1e-9)
}

func TestWheelIgnoredWhileBrushing(t *testing.T) {
	c, sink, _ := newTestController()

	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.Wheel(WheelEvent{Position: coords.Point{X: 500, Y: 200}, DeltaY: -100})

	assert.Empty(t, sink.intents)
}

func TestWheelOutsidePlotIsDropped(t *testing.T) {
	c, sink, _ := newTestController()

	c.Wheel(WheelEvent{Position: coords.Point{X: -20, Y: 200}, DeltaY: -100})

	assert.Empty(t, sink.intents)
}

func TestUnmappedPaneDropsInput(t *testing.T) {
	sink := &testSink{}
	c := NewController(DefaultConfig(), &testSource{mapper: coords.Unmapped{}}, sink, nil, zerolog.Nop())

	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.Wheel(WheelEvent{Position: coords.Point{X: 100, Y: 200}, DeltaY: -100})

	assert.Equal(t, Idle, c.State())
	assert.Empty(t, sink.intents)
}

func TestClickModeWithoutBrush(t *testing.T) {
	c, sink, capturer := newTestController()
	c.SetBrushEnabled(false)

	c.Pointer(pointer(PointerMove, 1, 120, 210))
	c.Pointer(pointer(PointerDown, 1, 120, 210))
	c.Pointer(pointer(PointerUp, 1, 121, 211))
	c.Pointer(pointer(PointerDown, 1, 120, 210))
	c.Pointer(pointer(PointerUp, 1, 320, 210))

	assert.Equal(t, Idle, c.State())
	assert.Empty(t, capturer.captured)
	assert.Empty(t, sink.intents)
	assert.Equal(t, []coords.Point{{X: 120, Y: 210}}, sink.clicks)
	assert.Equal(t, []coords.Point{{X: 120, Y: 210}}, sink.hovers)
}

func TestDisablingBrushCancelsIt(t *testing.T) {
	c, sink, capturer := newTestController()

	require.True(t, c.BrushEnabled())
	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.SetBrushEnabled(false)
	assert.False(t, c.BrushEnabled())
	c.Pointer(pointer(PointerUp, 1, 400, 200))

	assert.Equal(t, Idle, c.State())
	assert.Empty(t, capturer.captured)
	assert.Empty(t, sink.intents)
}

func TestCloseReleasesCapture(t *testing.T) {
	c, sink, capturer := newTestController()

	c.Pointer(pointer(PointerDown, 1, 100, 200))
	c.Pointer(pointer(PointerLeave, 1, 400, 200))
	c.Close()
	c.Tick(testStart.Add(time.Second))
	c.Pointer(pointer(PointerDown, 2, 100, 200))
	c.Wheel(WheelEvent{Position: coords.Point{X: 500, Y: 200}, DeltaY: -100})

	assert.Empty(t, capturer.captured)
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, sink.intents)
	_, ok := c.NextDeadline()
	assert.False(t, ok)
}
