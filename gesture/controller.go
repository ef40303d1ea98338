// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package gesture

import (
	"math"
	"sort"
	"time"

	"relaychart/chartval"
	"relaychart/coords"
	"relaychart/viewport"

	"github.com/rs/zerolog"
)

type State int

const (
	Idle State = iota
	Brushing
	Pinching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Brushing:
		return "brushing"
	case Pinching:
		return "pinching"
	}
	return "unknown"
}

type Config struct {
	// Brush selections narrower than this are clicks.
	MinBrushPx float64
	// Relative pinch distance changes below this ratio are ignored.
	PinchNoiseRatio float64
	// Zoom multiplier for one wheel notch scrolling up.
	WheelZoomFactor float64
	// Scroll distance of one wheel notch.
	WheelStepPx     float64
	MaxWheelNotches float64
	// Time to wait for a pointer to return after leaving the pane during a brush.
	SettleDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinBrushPx:      6,
		PinchNoiseRatio: 0.01,
		WheelZoomFactor: 0.9,
		WheelStepPx:     100,
		MaxWheelNotches: 5,
		SettleDelay:     150 * time.Millisecond,
	}
}

type gestureData struct {
	// Positions of all pointers which are down, keyed by pointer id.
	pointers map[int]coords.Point

	brushId       int
	brushStartX   float64
	brushStartY   float64
	brushCurrentX float64
	brushTop      float64
	brushBottom   float64
	// Zero if no settle timer is pending.
	settleDeadline time.Time

	// Zero until the midpoint of the pinch could be mapped.
	pinchDistance float64
	// Data value under the pinch midpoint of the last sample.
	pinchCenter float64

	pressed  bool
	pressId  int
	pressPos coords.Point
}

// Controller translates pointer and wheel input of one pane into viewport intents,
// clicks and hovers. It is driven by the UI goroutine only.
type Controller struct {
	cfg          Config
	source       MapperSource
	sink         IntentSink
	capturer     PointerCapturer
	brushEnabled bool
	closed       bool
	state        State
	data         gestureData
	log          zerolog.Logger
}

func NewController(cfg Config, source MapperSource, sink IntentSink, capturer PointerCapturer, log zerolog.Logger) *Controller {
	if capturer == nil {
		capturer = noCapture{}
	}
	return &Controller{
		cfg:          cfg,
		source:       source,
		sink:         sink,
		capturer:     capturer,
		brushEnabled: true,
		data:         gestureData{pointers: make(map[int]coords.Point)},
		log:          log,
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) BrushEnabled() bool {
	return c.brushEnabled
}

// SetBrushEnabled switches between range selection and click mode.
// An active brush is discarded when brushing is disabled.
func (c *Controller) SetBrushEnabled(enabled bool) {
	if !enabled && c.state == Brushing {
		c.cancelBrush()
		c.state = Idle
	}
	c.brushEnabled = enabled
}

// Selection returns the live brush rectangle while brushing.
func (c *Controller) Selection() (coords.Rect, bool) {
	if c.state != Brushing {
		return coords.Rect{}, false
	}
	return coords.NewRect(
		math.Min(c.data.brushStartX, c.data.brushCurrentX),
		c.data.brushTop,
		math.Max(c.data.brushStartX, c.data.brushCurrentX),
		c.data.brushBottom,
	), true
}

// NextDeadline returns the time at which Tick needs to be called.
func (c *Controller) NextDeadline() (time.Time, bool) {
	if c.data.settleDeadline.IsZero() {
		return time.Time{}, false
	}
	return c.data.settleDeadline, true
}

// Tick commits a brush if the pointer did not return in time.
func (c *Controller) Tick(now time.Time) {
	if c.closed || c.state != Brushing || c.data.settleDeadline.IsZero() {
		return
	}
	if now.Before(c.data.settleDeadline) {
		return
	}
	c.finishBrush()
}

// Close releases all captured pointers and stops pending timers.
// The controller ignores all input afterwards.
func (c *Controller) Close() {
	if c.state == Brushing {
		c.cancelBrush()
	}
	c.data = gestureData{pointers: make(map[int]coords.Point)}
	c.state = Idle
	c.closed = true
}

func (c *Controller) Pointer(ev PointerEvent) {
	if c.closed {
		return
	}
	switch ev.Kind {
	case PointerDown:
		c.pointerDown(ev)
	case PointerMove:
		c.pointerMove(ev)
	case PointerUp:
		c.pointerUp(ev)
	case PointerLeave:
		c.pointerLeave(ev)
	case PointerCancel:
		c.pointerCancel(ev)
	}
}

func (c *Controller) Wheel(ev WheelEvent) {
	if c.closed || c.state == Brushing || ev.DeltaY == 0 || math.IsNaN(ev.DeltaY) {
		return
	}
	center, ok := c.source.Mapper().PixelToData(ev.Position.X)
	if !ok {
		return
	}
	notches := chartval.Clamp(math.Abs(ev.DeltaY)/c.cfg.WheelStepPx, 1, c.cfg.MaxWheelNotches)
	multiplier := math.Pow(c.cfg.WheelZoomFactor, notches)
	if ev.DeltaY > 0 {
		multiplier = 1 / multiplier
	}
	c.sink.ApplyViewport(viewport.ZoomIntent{Center: center, Multiplier: multiplier})
}

func (c *Controller) pointerDown(ev PointerEvent) {
	c.data.pointers[ev.Id] = ev.Position
	if len(c.data.pointers) >= 2 {
		if c.state != Pinching {
			c.startPinch()
		}
		return
	}
	if c.state != Idle {
		return
	}
	rect, ok := c.source.Mapper().PlotRect()
	if !ok || !rect.Contains(ev.Position) {
		return
	}
	if c.brushEnabled {
		c.startBrush(ev, rect)
		return
	}
	c.data.pressed = true
	c.data.pressId = ev.Id
	c.data.pressPos = ev.Position
}

func (c *Controller) pointerMove(ev PointerEvent) {
	if _, tracked := c.data.pointers[ev.Id]; tracked {
		c.data.pointers[ev.Id] = ev.Position
	}
	switch c.state {
	case Pinching:
		c.pinchMove()
	case Brushing:
		if ev.Id != c.data.brushId {
			return
		}
		// The pointer returned before the brush settled.
		c.data.settleDeadline = time.Time{}
		c.data.brushCurrentX = c.clampToPlotX(ev.Position.X)
	case Idle:
		if rect, ok := c.source.Mapper().PlotRect(); ok && rect.Contains(ev.Position) {
			c.sink.Hover(ev.Position)
		}
	}
}

func (c *Controller) pointerUp(ev PointerEvent) {
	_, tracked := c.data.pointers[ev.Id]
	delete(c.data.pointers, ev.Id)
	switch c.state {
	case Brushing:
		if ev.Id != c.data.brushId {
			return
		}
		if c.data.settleDeadline.IsZero() {
			c.data.brushCurrentX = c.clampToPlotX(ev.Position.X)
		}
		c.finishBrush()
	case Pinching:
		c.endPinchIfNeeded()
	case Idle:
		if tracked && c.data.pressed && c.data.pressId == ev.Id {
			c.data.pressed = false
			if distance(c.data.pressPos, ev.Position) < c.cfg.MinBrushPx {
				c.sink.Click(c.data.pressPos)
			}
		}
	}
}

func (c *Controller) pointerLeave(ev PointerEvent) {
	switch c.state {
	case Brushing:
		if ev.Id == c.data.brushId && c.data.settleDeadline.IsZero() {
			c.data.settleDeadline = ev.Time.Add(c.cfg.SettleDelay)
		}
	case Pinching:
		delete(c.data.pointers, ev.Id)
		c.endPinchIfNeeded()
	case Idle:
		delete(c.data.pointers, ev.Id)
		if c.data.pressId == ev.Id {
			c.data.pressed = false
		}
	}
}

func (c *Controller) pointerCancel(ev PointerEvent) {
	delete(c.data.pointers, ev.Id)
	switch c.state {
	case Brushing:
		if ev.Id == c.data.brushId {
			c.cancelBrush()
			c.state = Idle
		}
	case Pinching:
		c.endPinchIfNeeded()
	case Idle:
		if c.data.pressId == ev.Id {
			c.data.pressed = false
		}
	}
}

func (c *Controller) startBrush(ev PointerEvent, rect coords.Rect) {
	c.state = Brushing
	c.data.brushId = ev.Id
	c.data.brushStartX = ev.Position.X
	c.data.brushStartY = ev.Position.Y
	c.data.brushCurrentX = ev.Position.X
	c.data.brushTop = rect.Min.Y
	c.data.brushBottom = rect.Max.Y
	c.data.settleDeadline = time.Time{}
	c.capturer.Capture(ev.Id)
}

func (c *Controller) finishBrush() {
	startX := c.data.brushStartX
	startY := c.data.brushStartY
	endX := c.data.brushCurrentX
	c.cancelBrush()
	c.state = Idle

	span := math.Abs(endX - startX)
	if span < c.cfg.MinBrushPx {
		c.sink.Click(coords.Point{X: startX, Y: startY})
		return
	}
	m := c.source.Mapper()
	start, ok := m.PixelToData(startX)
	if !ok {
		c.log.Debug().Float64("x", startX).Msg("brush start not mappable, discarding")
		return
	}
	end, ok := m.PixelToData(endX)
	if !ok {
		c.log.Debug().Float64("x", endX).Msg("brush end not mappable, discarding")
		return
	}
	c.sink.ApplyViewport(viewport.SelectIntent{
		Start:        start,
		End:          end,
		PixelSpan:    span,
		MinPixelSpan: c.cfg.MinBrushPx,
	})
}

// cancelBrush releases the brush pointer, the state is left to the caller.
func (c *Controller) cancelBrush() {
	c.capturer.Release(c.data.brushId)
	delete(c.data.pointers, c.data.brushId)
	c.data.settleDeadline = time.Time{}
}

func (c *Controller) startPinch() {
	if c.state == Brushing {
		// Keep the brush pointer tracked, it is now part of the pinch.
		pos, tracked := c.data.pointers[c.data.brushId]
		c.cancelBrush()
		if tracked {
			c.data.pointers[c.data.brushId] = pos
		}
	}
	c.data.pressed = false
	c.state = Pinching
	c.data.pinchDistance = 0
	// Without a mappable midpoint the baseline is taken from the first mappable move.
	if center, dist, ok := c.pinchSample(); ok {
		c.data.pinchCenter = center
		c.data.pinchDistance = dist
	}
	c.log.Debug().Float64("center", c.data.pinchCenter).Float64("distance", c.data.pinchDistance).Msg("pinch started")
}

func (c *Controller) pinchMove() {
	center, dist, ok := c.pinchSample()
	if !ok {
		return
	}
	c.data.pinchCenter = center
	if c.data.pinchDistance <= 0 {
		c.data.pinchDistance = dist
		return
	}
	ratio := dist / c.data.pinchDistance
	if math.Abs(ratio-1) <= c.cfg.PinchNoiseRatio {
		return
	}
	c.sink.ApplyViewport(viewport.ZoomIntent{Center: center, Multiplier: ratio})
	c.data.pinchDistance = dist
}

// pinchSample returns the data value under the midpoint of the pinch pointers and
// their distance. Samples with a midpoint outside the plot or without distance are dropped.
func (c *Controller) pinchSample() (float64, float64, bool) {
	a, b, ok := c.pinchPointers()
	if !ok {
		return 0, 0, false
	}
	dist := distance(a, b)
	if dist <= 0 {
		return 0, 0, false
	}
	center, ok := c.source.Mapper().PixelToData((a.X + b.X) / 2)
	if !ok {
		return 0, 0, false
	}
	return center, dist, true
}

func (c *Controller) endPinchIfNeeded() {
	if len(c.data.pointers) < 2 {
		c.state = Idle
		c.data.pinchDistance = 0
		c.data.pinchCenter = 0
	}
}

// pinchPointers returns the two tracked pointers with the lowest ids.
func (c *Controller) pinchPointers() (coords.Point, coords.Point, bool) {
	if len(c.data.pointers) < 2 {
		return coords.Point{}, coords.Point{}, false
	}
	ids := make([]int, 0, len(c.data.pointers))
	for id := range c.data.pointers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return c.data.pointers[ids[0]], c.data.pointers[ids[1]], true
}

func (c *Controller) clampToPlotX(x float64) float64 {
	rect, ok := c.source.Mapper().PlotRect()
	if !ok {
		return x
	}
	return chartval.Clamp(x, rect.Min.X, rect.Max.X)
}

func distance(a, b coords.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
