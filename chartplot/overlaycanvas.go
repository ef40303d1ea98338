// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"image"

	"relaychart/coords"
	"relaychart/overlay"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/x/stroke"
)

type overlayLine struct {
	from, to coords.Point
	style    overlay.Style
}

// OverlayCanvas keeps the annotation drawing of a pane in its own operation list.
// The list is rebuilt only after the renderer repainted the canvas.
type OverlayCanvas struct {
	dims  overlay.CanvasDimensions
	lines []overlayLine
	ops   op.Ops
	call  op.CallOp
	dirty bool
}

func NewOverlayCanvas() *OverlayCanvas {
	return &OverlayCanvas{}
}

func (c *OverlayCanvas) Resize(d overlay.CanvasDimensions) {
	c.dims = d
	c.dirty = true
}

func (c *OverlayCanvas) Clear() {
	c.lines = c.lines[:0]
	c.dirty = true
}

func (c *OverlayCanvas) Line(from, to coords.Point, style overlay.Style) {
	c.lines = append(c.lines, overlayLine{from: from, to: to, style: style})
	c.dirty = true
}

func (c *OverlayCanvas) Dimensions() overlay.CanvasDimensions {
	return c.dims
}

func (c *OverlayCanvas) NumLines() int {
	return len(c.lines)
}

// Layout replays the canvas on top of the pane.
func (c *OverlayCanvas) Layout(gtx layout.Context) layout.Dimensions {
	size := image.Point{X: c.dims.Width, Y: c.dims.Height}
	if c.dirty {
		c.record()
	}
	if !c.dims.Empty() {
		c.call.Add(gtx.Ops)
	}
	return layout.Dimensions{Size: size}
}

func (c *OverlayCanvas) record() {
	c.dirty = false
	c.ops.Reset()
	macro := op.Record(&c.ops)
	area := clip.Rect{Max: image.Point{X: c.dims.Width, Y: c.dims.Height}}.Push(&c.ops)
	for _, l := range c.lines {
		var path stroke.Path
		path.Segments = []stroke.Segment{
			stroke.MoveTo(f32.Pt(float32(l.from.X), float32(l.from.Y))),
			stroke.LineTo(f32.Pt(float32(l.to.X), float32(l.to.Y))),
		}
		s := stroke.Stroke{Path: path, Width: l.style.Width}
		if len(l.style.Dashes) > 0 {
			s.Dashes = stroke.Dashes{Dashes: l.style.Dashes}
		}
		paint.FillShape(&c.ops, l.style.Color, s.Op(&c.ops))
	}
	area.Pop()
	c.call = macro.Stop()
}
