// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"image"
	"image/color"

	"relaychart/overlay"

	"gioui.org/layout"
	"gioui.org/unit"
)

type DpPoint struct {
	X unit.Dp
	Y unit.Dp
}

func (p *DpPoint) Dp(gtx layout.Context) image.Point {
	return image.Point{
		X: gtx.Dp(p.X),
		Y: gtx.Dp(p.Y),
	}
}

type PlotTheme struct {
	AxesMarginMin    DpPoint
	AxesMarginMax    DpPoint
	PaneMarginY      unit.Dp
	TextMargin       DpPoint
	AxesXfontSize    int
	AxesYfontSize    int
	DefaultPlotGrid  DpPoint
	AxesColor        color.NRGBA
	GridColor        color.NRGBA
	AxesXtextColor   color.NRGBA
	AxesYtextColor   color.NRGBA
	PriceColor       color.NRGBA
	EquityColor      color.NRGBA
	DrawdownColor    color.NRGBA
	SmaColor         color.NRGBA
	SeriesWidth      unit.Dp
	BuyMarkerColor   color.NRGBA
	SellMarkerColor  color.NRGBA
	MarkerSize       unit.Dp
	BrushColor       color.NRGBA
	TrendColor       color.NRGBA
	LevelColor       color.NRGBA
	DraftColor       color.NRGBA
	DraftDashPattern []float32
	AnnotationWidth  unit.Dp
	HoverTextColor   color.NRGBA
	HoverBgColor     color.NRGBA
	FrameTextColor   color.NRGBA
	FrameBgColor     color.NRGBA
	ErrorBgColor     color.NRGBA
}

func NewDarkPlotTheme() *PlotTheme {
	return &PlotTheme{
		AxesMarginMin:    DpPoint{X: 10, Y: 1},
		AxesMarginMax:    DpPoint{X: 70, Y: 24},
		PaneMarginY:      4,
		TextMargin:       DpPoint{X: 7, Y: 7},
		AxesXfontSize:    14,
		AxesYfontSize:    14,
		DefaultPlotGrid:  DpPoint{X: 150, Y: 60},
		AxesColor:        color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		GridColor:        color.NRGBA{R: 60, G: 60, B: 60, A: 255},
		AxesXtextColor:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		AxesYtextColor:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		PriceColor:       color.NRGBA{R: 100, G: 180, B: 255, A: 255},
		EquityColor:      color.NRGBA{R: 120, G: 220, B: 120, A: 255},
		DrawdownColor:    color.NRGBA{R: 255, G: 110, B: 110, A: 255},
		SmaColor:         color.NRGBA{R: 255, G: 200, B: 0, A: 200},
		SeriesWidth:      1.5,
		BuyMarkerColor:   color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		SellMarkerColor:  color.NRGBA{R: 255, G: 0, B: 0, A: 255},
		MarkerSize:       6,
		BrushColor:       color.NRGBA{R: 100, G: 180, B: 255, A: 60},
		TrendColor:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		LevelColor:       color.NRGBA{R: 255, G: 170, B: 0, A: 255},
		DraftColor:       color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		DraftDashPattern: []float32{6, 4},
		AnnotationWidth:  1.5,
		HoverTextColor:   color.NRGBA{R: 100, G: 255, B: 100, A: 255},
		HoverBgColor:     color.NRGBA{R: 74, G: 74, B: 107, A: 255},
		FrameTextColor:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		FrameBgColor:     color.NRGBA{R: 40, G: 40, B: 52, A: 255},
		ErrorBgColor:     color.NRGBA{R: 150, G: 0, B: 0, A: 250},
	}
}

func NewLightPlotTheme() *PlotTheme {
	return &PlotTheme{
		AxesMarginMin:    DpPoint{X: 10, Y: 1},
		AxesMarginMax:    DpPoint{X: 70, Y: 24},
		PaneMarginY:      4,
		TextMargin:       DpPoint{X: 7, Y: 7},
		AxesXfontSize:    14,
		AxesYfontSize:    14,
		DefaultPlotGrid:  DpPoint{X: 150, Y: 60},
		AxesColor:        color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		GridColor:        color.NRGBA{R: 230, G: 230, B: 230, A: 255},
		AxesXtextColor:   color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		AxesYtextColor:   color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		PriceColor:       color.NRGBA{R: 20, G: 90, B: 200, A: 255},
		EquityColor:      color.NRGBA{R: 0, G: 140, B: 0, A: 255},
		DrawdownColor:    color.NRGBA{R: 200, G: 0, B: 0, A: 255},
		SmaColor:         color.NRGBA{R: 220, G: 140, B: 0, A: 220},
		SeriesWidth:      1.5,
		BuyMarkerColor:   color.NRGBA{R: 0, G: 170, B: 0, A: 255},
		SellMarkerColor:  color.NRGBA{R: 220, G: 0, B: 0, A: 255},
		MarkerSize:       6,
		BrushColor:       color.NRGBA{R: 20, G: 90, B: 200, A: 50},
		TrendColor:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		LevelColor:       color.NRGBA{R: 200, G: 100, B: 0, A: 255},
		DraftColor:       color.NRGBA{R: 90, G: 90, B: 90, A: 255},
		DraftDashPattern: []float32{6, 4},
		AnnotationWidth:  1.5,
		HoverTextColor:   color.NRGBA{R: 0, G: 100, B: 0, A: 255},
		HoverBgColor:     color.NRGBA{R: 174, G: 174, B: 207, A: 255},
		FrameTextColor:   color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		FrameBgColor:     color.NRGBA{R: 225, G: 225, B: 235, A: 255},
		ErrorBgColor:     color.NRGBA{R: 220, G: 80, B: 80, A: 250},
	}
}

// OverlayTheme returns the annotation styles in device pixels.
func (th *PlotTheme) OverlayTheme(pxPerDp float32) overlay.Theme {
	if pxPerDp <= 0 {
		pxPerDp = 1
	}
	width := float32(th.AnnotationWidth) * pxPerDp
	dashes := make([]float32, len(th.DraftDashPattern))
	for i, d := range th.DraftDashPattern {
		dashes[i] = d * pxPerDp
	}
	return overlay.Theme{
		Trend: overlay.Style{Color: th.TrendColor, Width: width},
		Level: overlay.Style{Color: th.LevelColor, Width: width},
		Draft: overlay.Style{Color: th.DraftColor, Width: width, Dashes: dashes},
	}
}

// MarkerColor returns the marker color of a trade side.
func (th *PlotTheme) MarkerColor(buy bool) color.NRGBA {
	if buy {
		return th.BuyMarkerColor
	}
	return th.SellMarkerColor
}
