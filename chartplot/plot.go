// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"time"

	"relaychart/chartgroup"
	"relaychart/chartval"
	"relaychart/coords"
	"relaychart/overlay"
	"relaychart/widgets"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"gioui.org/x/stroke"
)

// Plot displays one pane of a chart group: grid, axes, series lines, trade markers,
// the live brush selection and the annotation overlay.
// X values are the values of the pane axis, either timestamps or sample indices.
type Plot struct {
	Theme *widgets.PlotTheme
	// Line colors by series index, the last color is reused for further series.
	Colors []color.NRGBA
	// Formats the label of an x grid line.
	FormatX func(v float64) string
	// Size changes of the plot are passed on to the overlay after this delay.
	ResizeCoalesce time.Duration
	pane           *chartgroup.Pane
	canvas         *OverlayCanvas
	projection     *coords.Projection
	container      overlay.Size
	dpr            float64
	captured       map[int]bool
	frame          struct {
		totalPxSize     image.Point
		axesMarginPxMin image.Point
		axesMarginPxMax image.Point
		textMarginPx    image.Point
		textSizePx      image.Point
		nextTextSizePx  image.Point
		minPos          image.Point
		maxPos          image.Point
		pendingSize     image.Point
		sizeChangedAt   time.Time
		gridSegments    []stroke.Segment
		lineSegments    []stroke.Segment
	}
}

// New creates the plot and attaches its pane to the group.
func New(g *chartgroup.Group, t *widgets.PlotTheme, opts chartgroup.PaneOptions, colors ...color.NRGBA) *Plot {
	plot := &Plot{
		Theme:    t,
		Colors:   colors,
		FormatX:  func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		canvas:   NewOverlayCanvas(),
		dpr:      1,
		captured: make(map[int]bool),
	}
	plot.pane = g.AddPane(plot, plot.canvas, plot, opts)
	return plot
}

func (plot *Plot) Pane() *chartgroup.Pane {
	return plot.pane
}

func (plot *Plot) Overlay() *OverlayCanvas {
	return plot.canvas
}

// Mapper implements chartgroup.Host.
func (plot *Plot) Mapper() coords.Mapper {
	if plot.projection == nil {
		return coords.Unmapped{}
	}
	return plot.projection
}

// Container implements chartgroup.Host.
func (plot *Plot) Container() (overlay.Size, float64) {
	return plot.container, plot.dpr
}

// Capture implements gesture.PointerCapturer. Captured pointers are grabbed
// from other handlers starting with the next frame.
func (plot *Plot) Capture(id int) {
	plot.captured[id] = true
}

func (plot *Plot) Release(id int) {
	delete(plot.captured, id)
}

func (plot *Plot) color(i int) color.NRGBA {
	if len(plot.Colors) == 0 {
		return plot.Theme.AxesColor
	}
	return plot.Colors[min(i, len(plot.Colors)-1)]
}

// InitializeFrame processes input and timers and updates the projection. Call before Layout
// of the same frame.
func (plot *Plot) InitializeFrame(gtx layout.Context) {
	plot.frame.totalPxSize = gtx.Constraints.Max
	plot.frame.axesMarginPxMin = plot.Theme.AxesMarginMin.Dp(gtx)
	plot.frame.axesMarginPxMax = plot.Theme.AxesMarginMax.Dp(gtx)
	plot.frame.textMarginPx = plot.Theme.TextMargin.Dp(gtx)
	// Do not auto-scale down text size to avoid loops.
	if plot.frame.nextTextSizePx.X > plot.frame.textSizePx.X {
		plot.frame.textSizePx.X = plot.frame.nextTextSizePx.X
	}
	if plot.frame.nextTextSizePx.Y > plot.frame.textSizePx.Y {
		plot.frame.textSizePx.Y = plot.frame.nextTextSizePx.Y
	}
	plot.frame.minPos = plot.frame.axesMarginPxMin
	plot.frame.maxPos = image.Point{
		X: plot.frame.totalPxSize.X - plot.frame.axesMarginPxMax.X - plot.frame.textSizePx.X,
		Y: plot.frame.totalPxSize.Y - plot.frame.axesMarginPxMax.Y - plot.frame.textSizePx.Y,
	}
	plot.updateContainer(gtx)
	// Events refer to the projection of the previous frame.
	plot.handleInput(gtx)
	plot.pane.Tick(gtx.Now)
	plot.updateProjection()
	plot.registerInputOps(gtx.Ops)
}

func (plot *Plot) updateContainer(gtx layout.Context) {
	plot.dpr = float64(gtx.Metric.PxPerDp)
	if plot.dpr <= 0 {
		plot.dpr = 1
	}
	size := plot.frame.totalPxSize
	if size != plot.frame.pendingSize {
		plot.frame.pendingSize = size
		plot.frame.sizeChangedAt = gtx.Now
	}
	settleAt := plot.frame.sizeChangedAt.Add(plot.ResizeCoalesce)
	if plot.container.Width <= 0 || !gtx.Now.Before(settleAt) {
		plot.container = overlay.Size{
			Width:  float64(size.X) / plot.dpr,
			Height: float64(size.Y) / plot.dpr,
		}
	} else {
		op.InvalidateOp{At: settleAt}.Add(gtx.Ops)
	}
}

func (plot *Plot) plotRect() coords.Rect {
	return coords.NewRect(
		float64(plot.frame.minPos.X), float64(plot.frame.minPos.Y),
		float64(plot.frame.maxPos.X), float64(plot.frame.maxPos.Y))
}

func (plot *Plot) updateProjection() {
	minT, maxT, ok := plot.pane.VisibleRange()
	if !ok {
		plot.projection = nil
		return
	}
	minP, maxP, ok := visiblePriceRange(plot.pane.Series(), plot.pane.SeriesWindow)
	if !ok {
		plot.projection = nil
		return
	}
	rect := plot.plotRect()
	if plot.projection != nil {
		if previous, _ := plot.projection.PlotRect(); previous != rect {
			plot.pane.InvalidateOverlay()
		}
	}
	plot.projection = coords.NewProjection(rect, minT, maxT, minP, maxP)
}

func (plot *Plot) registerInputOps(ops *op.Ops) {
	area := clip.Rect(image.Rectangle{Min: plot.frame.minPos, Max: plot.frame.maxPos}).Push(ops)
	pointer.InputOp{
		Tag:   plot,
		Grab:  len(plot.captured) > 0,
		Kinds: pointer.Press | pointer.Release | pointer.Drag | pointer.Move | pointer.Leave | pointer.Cancel | pointer.Scroll,
		ScrollBounds: image.Rectangle{
			Min: image.Point{
				X: 0,
				Y: math.MinInt,
			},
			Max: image.Point{
				X: 0,
				Y: math.MaxInt,
			},
		},
	}.Add(ops)
	pointer.CursorCrosshair.Add(ops)
	area.Pop()
}

func (plot *Plot) handleInput(gtx layout.Context) {
	for _, gtxEvent := range gtx.Events(plot) {
		e, ok := gtxEvent.(pointer.Event)
		if !ok {
			continue
		}
		if e.Kind == pointer.Scroll {
			plot.pane.Wheel(wheelEvent(e, gtx.Now))
		} else if ev, ok := pointerEvent(e, gtx.Now); ok {
			plot.pane.Pointer(ev)
		}
	}
}

// Layout paints the pane. The annotation overlay is repainted if anything changed.
func (plot *Plot) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	plot.pane.Frame()
	if plot.projection == nil {
		plot.paintAxes(gtx)
		return layout.Dimensions{Size: plot.frame.totalPxSize}
	}
	plot.paintGrid(gtx, th)
	plot.paintAxes(gtx)
	plot.paintSeries(gtx)
	plot.paintMarkers(gtx)
	plot.paintSelection(gtx)
	plot.canvas.Layout(gtx)
	return layout.Dimensions{Size: plot.frame.totalPxSize}
}

func (plot *Plot) paintAxes(gtx layout.Context) {
	minPos := plot.frame.minPos
	maxPos := plot.frame.maxPos
	var path stroke.Path
	path.Segments = []stroke.Segment{
		stroke.MoveTo(f32.Pt(float32(maxPos.X), float32(minPos.Y))),
		stroke.LineTo(f32.Pt(float32(maxPos.X), float32(maxPos.Y))),
		stroke.MoveTo(f32.Pt(float32(minPos.X), float32(maxPos.Y))),
		stroke.LineTo(f32.Pt(float32(maxPos.X), float32(maxPos.Y))),
	}
	area := stroke.Stroke{Path: path, Width: 1}.Op(gtx.Ops)
	paint.FillShape(gtx.Ops, plot.Theme.AxesColor, area)
}

func (plot *Plot) paintGrid(gtx layout.Context, th *material.Theme) {
	minPos := plot.frame.minPos
	maxPos := plot.frame.maxPos
	var path stroke.Path
	path.Segments = plot.frame.gridSegments[:0]

	var maxTextSizeX, maxTextSizeY int
	minP, maxP := plot.projection.PriceRange()
	pxGrid := plot.Theme.DefaultPlotGrid.Dp(gtx)
	step := niceStep(maxP-minP, float64(maxPos.Y-minPos.Y), float64(pxGrid.Y))
	for _, v := range gridValues(minP, maxP, step) {
		posY, ok := plot.projection.PriceToPixel(v)
		if !ok {
			continue
		}
		path.Segments = append(path.Segments, stroke.MoveTo(f32.Pt(float32(minPos.X), float32(posY))))
		path.Segments = append(path.Segments, stroke.LineTo(f32.Pt(float32(maxPos.X), float32(posY))))
		call, textSize := recordAxesLabelText(formatGridValue(v, step), plot.Theme.AxesYtextColor, plot.Theme.AxesYfontSize, gtx, th)
		maxTextSizeX = max(maxTextSizeX, textSize.X)
		stack := op.Offset(image.Point{X: maxPos.X + plot.frame.textMarginPx.X, Y: int(posY) - textSize.Y/2}).Push(gtx.Ops)
		// Run recorded drawing.
		call.Add(gtx.Ops)
		stack.Pop()
	}

	n := plot.pane.Len()
	axis := plot.pane.Axis()
	for _, i := range gridIndices(plot.pane.Window(), float64(maxPos.X-minPos.X), float64(pxGrid.X)) {
		v := chartval.TimeAt(axis, n, i)
		posX, ok := plot.projection.DataToPixel(v)
		if !ok {
			continue
		}
		path.Segments = append(path.Segments, stroke.MoveTo(f32.Pt(float32(posX), float32(minPos.Y))))
		path.Segments = append(path.Segments, stroke.LineTo(f32.Pt(float32(posX), float32(maxPos.Y))))
		call, textSize := recordAxesLabelText(plot.FormatX(v), plot.Theme.AxesXtextColor, plot.Theme.AxesXfontSize, gtx, th)
		maxTextSizeY = max(maxTextSizeY, textSize.Y)
		stack := op.Offset(image.Point{X: int(posX) - textSize.X/2, Y: maxPos.Y + plot.frame.textMarginPx.Y}).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
	plot.frame.gridSegments = path.Segments
	plot.frame.nextTextSizePx = image.Point{X: maxTextSizeX, Y: maxTextSizeY}

	area := stroke.Stroke{Path: path, Width: float32(gtx.Dp(1))}.Op(gtx.Ops)
	paint.FillShape(gtx.Ops, plot.Theme.GridColor, area)
}

func (plot *Plot) paintSeries(gtx layout.Context) {
	// Only draw within the plot area.
	defer clip.Rect(image.Rectangle{Min: plot.frame.minPos, Max: plot.frame.maxPos}).Push(gtx.Ops).Pop()
	width := float32(gtx.Dp(plot.Theme.SeriesWidth))
	for si, s := range plot.pane.Series() {
		w := plot.pane.SeriesWindow(s)
		axis := s.Axis(plot.pane.Group().Axis())
		n := s.Len()
		var path stroke.Path
		// Reuse line segment buffer from previous series.
		path.Segments = plot.frame.lineSegments[:0]
		var pxPosI, pyPosI = -1, -1
		first := true
		for i := w.Start; i < w.End && i < len(s.Values); i++ {
			xPos, okX := plot.projection.DataToPixel(chartval.TimeAt(axis, n, i))
			yPos, okY := plot.projection.PriceToPixel(s.Values[i])
			if !okX || !okY {
				first = true
				continue
			}
			pt := f32.Pt(float32(xPos), float32(yPos))
			if first {
				path.Segments = append(path.Segments, stroke.MoveTo(pt))
				first = false
			} else if int(xPos) != pxPosI || int(yPos) != pyPosI {
				// Performance: We only draw a line if we hit a different pixel.
				path.Segments = append(path.Segments, stroke.LineTo(pt))
			}
			pxPosI, pyPosI = int(xPos), int(yPos)
		}
		plot.frame.lineSegments = path.Segments
		if len(path.Segments) < 2 {
			continue
		}
		area := stroke.Stroke{Path: path, Width: width, Join: stroke.RoundJoin}.Op(gtx.Ops)
		paint.FillShape(gtx.Ops, plot.color(si), area)
	}
}

func (plot *Plot) paintMarkers(gtx layout.Context) {
	size := float32(gtx.Dp(plot.Theme.MarkerSize))
	for _, m := range plot.pane.Markers() {
		pos, ok := coords.DataToPixelPoint(plot.projection, m.Time, m.Value)
		if !ok {
			continue
		}
		buy := m.Marker.Payload.Side == chartval.SideBuy
		x, y := float32(pos.X), float32(pos.Y)
		// Buy markers point up from below the price, sell markers point down from above.
		dir := float32(1)
		if !buy {
			dir = -1
		}
		var p clip.Path
		p.Begin(gtx.Ops)
		p.MoveTo(f32.Pt(x, y))
		p.LineTo(f32.Pt(x-size, y+dir*size*1.5))
		p.LineTo(f32.Pt(x+size, y+dir*size*1.5))
		p.Close()
		paint.FillShape(gtx.Ops, plot.Theme.MarkerColor(buy), clip.Outline{Path: p.End()}.Op())
	}
}

func (plot *Plot) paintSelection(gtx layout.Context) {
	r, ok := plot.pane.Selection()
	if !ok {
		return
	}
	rect := image.Rect(int(r.Min.X), int(r.Min.Y), int(r.Max.X), int(r.Max.Y))
	paint.FillShape(gtx.Ops, plot.Theme.BrushColor, clip.Rect(rect).Op())
}

func recordAxesLabelText(labelText string, c color.NRGBA, fontSize int, gtx layout.Context, th *material.Theme) (op.CallOp, image.Point) {
	// Labels take their natural size.
	gtx.Constraints.Min = image.Point{}
	macro := op.Record(gtx.Ops)
	lbl := material.Label(
		th,
		unit.Sp(fontSize),
		labelText,
	)
	lbl.Color = c
	lbl.Alignment = text.Start
	dims := lbl.Layout(gtx)
	return macro.Stop(), dims.Size
}
