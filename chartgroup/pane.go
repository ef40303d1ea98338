// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartgroup

import (
	"time"

	"relaychart/chartval"
	"relaychart/coords"
	"relaychart/gesture"
	"relaychart/markers"
	"relaychart/overlay"
	"relaychart/viewport"
)

// Host is the chart which displays a pane. The mapper reflects the most recent layout.
type Host interface {
	Mapper() coords.Mapper
	// Container returns the plot container size and the device pixel ratio.
	Container() (overlay.Size, float64)
}

type PaneOptions struct {
	Name string
	// Draw annotations and accept the annotation tools.
	Annotations bool
	// Project trades onto the primary series.
	Markers bool
	Theme   overlay.Theme
}

// Pane is one chart of a group. The first series is the primary series,
// it defines the visible window and carries the markers.
type Pane struct {
	group        *Group
	opts         PaneOptions
	host         Host
	series       []chartval.Series
	controller   *gesture.Controller
	renderer     *overlay.Renderer
	markers      []markers.ProjectedMarker
	markersDirty bool
}

// AddPane attaches a new pane to the group. The canvas receives the annotation overlay.
func (g *Group) AddPane(host Host, canvas overlay.Canvas, capturer gesture.PointerCapturer, opts PaneOptions) *Pane {
	p := &Pane{
		group:        g,
		opts:         opts,
		host:         host,
		markersDirty: true,
	}
	log := g.log.With().Str("pane", opts.Name).Logger()
	p.controller = gesture.NewController(g.cfg.Gesture, p, p, capturer, log)
	p.controller.SetBrushEnabled(g.tool == ToolBrush)
	p.renderer = overlay.NewRenderer(canvas, opts.Theme, log)
	g.panes = append(g.panes, p)
	return p
}

func (p *Pane) Name() string {
	return p.opts.Name
}

func (p *Pane) Group() *Group {
	return p.group
}

// SetSeries replaces the series of the pane, the first one is the primary series.
func (p *Pane) SetSeries(series ...chartval.Series) {
	p.series = series
	p.markersDirty = true
	p.renderer.Invalidate(overlay.TriggerData)
	if len(p.group.axis) == 0 {
		p.group.updateLength()
	}
}

func (p *Pane) Series() []chartval.Series {
	return p.series
}

func (p *Pane) Len() int {
	if len(p.series) == 0 {
		return 0
	}
	return p.series[0].Len()
}

// Window returns the visible range of the primary series.
func (p *Pane) Window() viewport.Window {
	return p.group.viewport.Window(p.Len())
}

// SeriesWindow returns the visible range of any series, based on its own length.
func (p *Pane) SeriesWindow(s chartval.Series) viewport.Window {
	return p.group.viewport.Window(s.Len())
}

// Axis returns the axis the primary series is aligned to, nil for index addressing.
func (p *Pane) Axis() chartval.TimeAxis {
	if len(p.series) == 0 {
		return nil
	}
	return p.series[0].Axis(p.group.axis)
}

// VisibleRange returns the data values of the first and last visible sample.
func (p *Pane) VisibleRange() (float64, float64, bool) {
	n := p.Len()
	if n == 0 {
		return 0, 0, false
	}
	w := p.Window()
	axis := p.Axis()
	return chartval.TimeAt(axis, n, w.Start), chartval.TimeAt(axis, n, w.Last()), true
}

// Markers returns the trades which are visible on the primary series.
func (p *Pane) Markers() []markers.ProjectedMarker {
	if !p.opts.Markers || len(p.series) == 0 {
		return nil
	}
	if p.markersDirty {
		p.markers = markers.Project(p.group.viewport.State(), p.group.axis, p.series[0], p.group.trades)
		p.markersDirty = false
	}
	return p.markers
}

// Selection returns the live brush rectangle in pixels.
func (p *Pane) Selection() (coords.Rect, bool) {
	return p.controller.Selection()
}

func (p *Pane) GestureState() gesture.State {
	return p.controller.State()
}

func (p *Pane) Pointer(ev gesture.PointerEvent) {
	p.controller.Pointer(ev)
}

func (p *Pane) Wheel(ev gesture.WheelEvent) {
	p.controller.Wheel(ev)
}

// Tick processes the gesture timers. A settled brush moves the viewport, so Tick
// has to be called before the host computes the projection of the frame.
func (p *Pane) Tick(now time.Time) {
	p.controller.Tick(now)
}

// Frame repaints the overlay if needed. It has to be called after Tick and after
// the host has updated its layout. Returns true if the overlay was repainted.
func (p *Pane) Frame() bool {
	size, dpr := p.host.Container()
	p.renderer.RequestResize(size, dpr)
	f := overlay.Frame{Mapper: p.host.Mapper()}
	if p.opts.Annotations {
		f.Annotations = p.group.annotations
		if p.group.draftPane == p {
			f.Draft = p.group.draft
		}
	}
	f.VisibleStart, f.VisibleEnd, _ = p.VisibleRange()
	return p.renderer.Frame(f)
}

// InvalidateOverlay requests an overlay repaint after the host moved its plot area.
func (p *Pane) InvalidateOverlay() {
	p.renderer.Invalidate(overlay.TriggerResize)
}

func (p *Pane) OverlayRedraws() int {
	return p.renderer.Redraws()
}

// Mapper implements gesture.MapperSource.
func (p *Pane) Mapper() coords.Mapper {
	return p.host.Mapper()
}

// ApplyViewport implements gesture.IntentSink. Data values are converted from the
// pane axis to the shared axis.
func (p *Pane) ApplyViewport(intent viewport.Intent) {
	switch i := intent.(type) {
	case viewport.ZoomIntent:
		i.Center = p.toShared(i.Center)
		intent = i
	case viewport.SelectIntent:
		i.Start = p.toShared(i.Start)
		i.End = p.toShared(i.End)
		intent = i
	}
	p.group.ApplyViewport(intent)
}

// Click implements gesture.IntentSink.
func (p *Pane) Click(pos coords.Point) {
	g := p.group
	switch g.tool {
	case ToolBrush:
		if hit, ok := markers.HitTest(p.Markers(), p.host.Mapper(), pos, g.cfg.MarkerHitRadius); ok {
			g.activateMarker(hit.Marker.Payload)
		}
	case ToolLevel:
		if !p.opts.Annotations {
			return
		}
		if price, ok := p.host.Mapper().PixelToPrice(pos.Y); ok {
			g.AddAnnotation(chartval.NewLevelAnnotation(price))
		}
	case ToolTrend:
		if !p.opts.Annotations {
			return
		}
		t, price, ok := coords.PixelToDataPoint(p.host.Mapper(), pos)
		if !ok {
			return
		}
		point := chartval.DataPoint{Time: t, Price: price}
		if g.draft == nil || g.draftPane != p {
			g.clearDraft()
			g.setDraft(p, chartval.DraftAnnotation{Start: point, End: point})
			return
		}
		d := *g.draft
		d.End = point
		g.clearDraft()
		g.AddAnnotation(d.Commit())
	}
}

// Hover implements gesture.IntentSink. The end of a draft follows the pointer.
func (p *Pane) Hover(pos coords.Point) {
	g := p.group
	if g.draft == nil || g.draftPane != p {
		return
	}
	t, price, ok := coords.PixelToDataPoint(p.host.Mapper(), pos)
	if !ok {
		return
	}
	d := *g.draft
	d.End = chartval.DataPoint{Time: t, Price: price}
	g.setDraft(p, d)
}

func (p *Pane) viewportChanged() {
	p.markersDirty = true
	p.renderer.Invalidate(overlay.TriggerViewport)
}

func (p *Pane) dataChanged() {
	p.markersDirty = true
	p.renderer.Invalidate(overlay.TriggerData)
}

// toShared converts a data value of the pane axis to the shared axis. Series which are
// addressed by index are mapped by their relative position.
func (p *Pane) toShared(v float64) float64 {
	shared := p.group.axis
	n := p.Len()
	if n == 0 || len(shared) == 0 || p.Axis() != nil {
		return v
	}
	index, err := chartval.ResolveIndex(nil, n, v)
	if err != nil {
		return shared[0]
	}
	return shared[chartval.RescaleIndex(index, n, len(shared))]
}
