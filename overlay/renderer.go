// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package overlay

import (
	"image/color"

	"relaychart/chartval"
	"relaychart/coords"

	"github.com/rs/zerolog"
)

type Style struct {
	Color  color.NRGBA
	Width  float32
	Dashes []float32
}

type Theme struct {
	Trend Style
	Level Style
	Draft Style
}

// Canvas is a transparent drawing layer on top of a pane. Coordinates are in
// device pixels, the same space the pane mapper uses.
type Canvas interface {
	Resize(d CanvasDimensions)
	Clear()
	Line(from, to coords.Point, style Style)
}

// Trigger is a set of reasons for a redraw.
type Trigger uint8

const (
	TriggerAnnotations Trigger = 1 << iota
	TriggerViewport
	TriggerResize
	TriggerData
	TriggerDraft
)

// Frame is everything a redraw depends on.
type Frame struct {
	Annotations []chartval.Annotation
	Draft       *chartval.DraftAnnotation
	Mapper      coords.Mapper
	// Visible time range, levels are drawn across it.
	VisibleStart float64
	VisibleEnd   float64
}

type resizeRequest struct {
	container Size
	dpr       float64
}

// Renderer paints annotations onto a Canvas. Redraws are requested with Invalidate
// and performed at the next call to Frame.
type Renderer struct {
	canvas        Canvas
	theme         Theme
	dims          CanvasDimensions
	pendingResize *resizeRequest
	pending       Trigger
	redraws       int
	log           zerolog.Logger
}

func NewRenderer(canvas Canvas, theme Theme, log zerolog.Logger) *Renderer {
	return &Renderer{
		canvas: canvas,
		theme:  theme,
		// The first frame always paints.
		pending: TriggerResize,
		log:     log,
	}
}

func (r *Renderer) Dimensions() CanvasDimensions {
	return r.dims
}

func (r *Renderer) Redraws() int {
	return r.redraws
}

func (r *Renderer) Invalidate(t Trigger) {
	r.pending |= t
}

func (r *Renderer) Dirty() bool {
	return r.pending != 0 || r.pendingResize != nil
}

// RequestResize records a new container size. Only the most recent request
// is applied at the next Frame.
func (r *Renderer) RequestResize(container Size, dpr float64) {
	r.pendingResize = &resizeRequest{container: container, dpr: dpr}
}

// Frame applies a pending resize and redraws if anything was invalidated.
// Returns true if the canvas was repainted.
func (r *Renderer) Frame(f Frame) bool {
	if r.pendingResize != nil {
		dims := Layout(r.pendingResize.container, r.pendingResize.dpr)
		r.pendingResize = nil
		if dims != r.dims {
			r.dims = dims
			r.canvas.Resize(dims)
			r.pending |= TriggerResize
		}
	}
	if r.pending == 0 {
		return false
	}
	r.Redraw(f)
	return true
}

// Redraw clears the canvas and paints all annotations and the draft.
func (r *Renderer) Redraw(f Frame) {
	r.pending = 0
	r.redraws++
	r.canvas.Clear()
	if r.dims.Empty() || f.Mapper == nil {
		return
	}
	if _, ok := f.Mapper.PlotRect(); !ok {
		return
	}
	var skipped int
	for _, a := range f.Annotations {
		var drawn bool
		switch a.Kind {
		case chartval.AnnotationTrend:
			drawn = r.segment(f.Mapper, a.Start, a.End, r.theme.Trend)
		case chartval.AnnotationLevel:
			drawn = r.segment(f.Mapper,
				chartval.DataPoint{Time: f.VisibleStart, Price: a.Price},
				chartval.DataPoint{Time: f.VisibleEnd, Price: a.Price},
				r.theme.Level)
		}
		if !drawn {
			skipped++
		}
	}
	if f.Draft != nil {
		r.segment(f.Mapper, f.Draft.Start, f.Draft.End, r.theme.Draft)
	}
	if skipped > 0 {
		r.log.Debug().Int("skipped", skipped).Int("total", len(f.Annotations)).Msg("annotations outside visible range")
	}
}

// segment draws a line between two data points, unless one of them is not mappable.
func (r *Renderer) segment(m coords.Mapper, from, to chartval.DataPoint, style Style) bool {
	p0, ok := coords.DataToPixelPoint(m, from.Time, from.Price)
	if !ok {
		return false
	}
	p1, ok := coords.DataToPixelPoint(m, to.Time, to.Price)
	if !ok {
		return false
	}
	r.canvas.Line(p0, p1, style)
	return true
}
