// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartgroup

import (
	"slices"
	"time"

	"relaychart/chartval"
	"relaychart/gesture"
	"relaychart/overlay"
	"relaychart/viewport"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

type Tool int

const (
	ToolBrush Tool = iota
	ToolTrend
	ToolLevel
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "brush"
	case ToolTrend:
		return "trend"
	case ToolLevel:
		return "level"
	}
	return "unknown"
}

// Callbacks are invoked on the UI goroutine. Nil callbacks are skipped.
type Callbacks struct {
	// Visible sample range [start, end) on the shared time axis.
	OnViewportChange    func(start, end int)
	OnAnnotationsChange func(annotations []chartval.Annotation)
	OnMarkerActivated   func(trade chartval.TradePayload)
}

type Config struct {
	Gesture gesture.Config
	// In pixels.
	MarkerHitRadius float64
}

func DefaultConfig() Config {
	return Config{
		Gesture:         gesture.DefaultConfig(),
		MarkerHitRadius: 6,
	}
}

// Group is a set of panes which share one viewport, one set of annotations and one
// list of trades.
type Group struct {
	cfg         Config
	callbacks   Callbacks
	viewport    *viewport.Group
	axis        chartval.TimeAxis
	trades      []chartval.Marker
	dataVersion int
	panes       []*Pane
	annotations []chartval.Annotation
	draft       *chartval.DraftAnnotation
	draftPane   *Pane
	tool        Tool
	log         zerolog.Logger
}

func NewGroup(cfg Config, callbacks Callbacks, log zerolog.Logger) *Group {
	g := &Group{
		cfg:       cfg,
		callbacks: callbacks,
		viewport:  viewport.NewGroup(nil, 0, log),
		log:       log,
	}
	g.viewport.Subscribe(g.viewportChanged)
	return g
}

func (g *Group) Viewport() viewport.State {
	return g.viewport.State()
}

// Window returns the visible range on the shared axis.
func (g *Group) Window() viewport.Window {
	return g.viewport.Window(g.viewport.Model().Len())
}

func (g *Group) Axis() chartval.TimeAxis {
	return g.axis
}

func (g *Group) Trades() []chartval.Marker {
	return g.trades
}

func (g *Group) DataVersion() int {
	return g.dataVersion
}

func (g *Group) Panes() []*Pane {
	return g.panes
}

func (g *Group) Tool() Tool {
	return g.tool
}

// Annotations returns a copy of the current annotations.
func (g *Group) Annotations() []chartval.Annotation {
	return slices.Clone(g.annotations)
}

func (g *Group) Draft() (chartval.DraftAnnotation, bool) {
	if g.draft == nil {
		return chartval.DraftAnnotation{}, false
	}
	return *g.draft, true
}

// SetData replaces the shared time axis and the trades. The viewport fractions are kept.
// Panes update their own series with Pane.SetSeries.
func (g *Group) SetData(axis chartval.TimeAxis, trades []chartval.Marker) {
	g.axis = axis
	g.trades = trades
	g.dataVersion++
	g.clearDraft()
	for _, p := range g.panes {
		p.dataChanged()
	}
	g.updateLength()
}

// ApplyViewport commits a viewport intent for all panes.
func (g *Group) ApplyViewport(intent viewport.Intent) bool {
	return g.viewport.Apply(intent)
}

func (g *Group) ResetViewport() bool {
	return g.viewport.Reset()
}

// SetTool switches the pointer tool of all panes. A pending draft is discarded.
func (g *Group) SetTool(t Tool) {
	if t == g.tool {
		return
	}
	g.tool = t
	g.clearDraft()
	for _, p := range g.panes {
		p.controller.SetBrushEnabled(t == ToolBrush)
	}
	g.log.Debug().Stringer("tool", t).Msg("tool selected")
}

// SetAnnotations replaces the annotations with a list owned by the caller.
// Callbacks are not invoked.
func (g *Group) SetAnnotations(annotations []chartval.Annotation) {
	if cmp.Equal(g.annotations, annotations, cmpopts.EquateEmpty()) {
		return
	}
	g.annotations = slices.Clone(annotations)
	g.invalidate(overlay.TriggerAnnotations)
}

func (g *Group) AddAnnotation(a chartval.Annotation) {
	g.annotations = append(g.annotations, a)
	g.annotationsChanged()
}

// DeleteAnnotation removes the annotation with the given id.
func (g *Group) DeleteAnnotation(id string) bool {
	i := chartval.IndexOfAnnotation(g.annotations, id)
	if i < 0 {
		return false
	}
	g.annotations = slices.Delete(g.annotations, i, i+1)
	g.annotationsChanged()
	return true
}

// CancelDraft discards a trend line which is being placed.
func (g *Group) CancelDraft() bool {
	if g.draft == nil {
		return false
	}
	g.clearDraft()
	return true
}

// Frame runs the per frame work of all panes and returns the next deadline, if any.
func (g *Group) Frame(now time.Time) (time.Time, bool) {
	for _, p := range g.panes {
		p.Tick(now)
	}
	for _, p := range g.panes {
		p.Frame()
	}
	return g.NextDeadline()
}

func (g *Group) NextDeadline() (time.Time, bool) {
	var (
		next  time.Time
		found bool
	)
	for _, p := range g.panes {
		if d, ok := p.controller.NextDeadline(); ok && (!found || d.Before(next)) {
			next, found = d, true
		}
	}
	return next, found
}

// Close releases all pointers and timers of the panes.
func (g *Group) Close() {
	for _, p := range g.panes {
		p.controller.Close()
	}
	g.clearDraft()
}

// The viewport model works on the shared axis. Without one, the longest
// primary series is addressed by sample index.
func (g *Group) updateLength() {
	if len(g.axis) > 0 {
		g.viewport.SetAxis(g.axis, len(g.axis))
		return
	}
	var n int
	for _, p := range g.panes {
		n = max(n, p.Len())
	}
	g.viewport.SetAxis(nil, n)
}

func (g *Group) viewportChanged(s viewport.State) {
	for _, p := range g.panes {
		p.viewportChanged()
	}
	if g.callbacks.OnViewportChange != nil {
		w := s.Window(g.viewport.Model().Len())
		g.callbacks.OnViewportChange(w.Start, w.End)
	}
}

func (g *Group) annotationsChanged() {
	g.invalidate(overlay.TriggerAnnotations)
	if g.callbacks.OnAnnotationsChange != nil {
		g.callbacks.OnAnnotationsChange(g.Annotations())
	}
}

func (g *Group) activateMarker(trade chartval.TradePayload) {
	g.log.Debug().Int64("order", trade.OrderId).Stringer("side", trade.Side).Msg("marker activated")
	if g.callbacks.OnMarkerActivated != nil {
		g.callbacks.OnMarkerActivated(trade)
	}
}

func (g *Group) setDraft(p *Pane, d chartval.DraftAnnotation) {
	g.draft = &d
	g.draftPane = p
	p.renderer.Invalidate(overlay.TriggerDraft)
}

func (g *Group) clearDraft() {
	if g.draft == nil {
		return
	}
	g.draftPane.renderer.Invalidate(overlay.TriggerDraft)
	g.draft = nil
	g.draftPane = nil
}

func (g *Group) invalidate(t overlay.Trigger) {
	for _, p := range g.panes {
		p.renderer.Invalidate(t)
	}
}
