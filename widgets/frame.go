// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

// Frame is a titled box drawn above the plots.
type Frame struct {
	Title           string
	InnerMargin     unit.Dp
	BorderWidth     unit.Dp
	CornerRadius    unit.Dp
	BorderColor     color.NRGBA
	TextColor       color.NRGBA
	BackgroundColor color.NRGBA
}

func (f Frame) Layout(gtx layout.Context, th *material.Theme, w layout.Widget) layout.Dimensions {
	border := widget.Border{Color: f.BorderColor, Width: f.BorderWidth, CornerRadius: f.CornerRadius}
	return border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		macro := op.Record(gtx.Ops)
		dims := layout.UniformInset(f.InnerMargin).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			if len(f.Title) == 0 {
				return w(gtx)
			}
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					l := heading(th, f.Title)
					l.Color = f.TextColor
					return l.Layout(gtx)
				}),
				layout.Rigid(w),
			)
		})
		call := macro.Stop()
		// The background must not cover the rounded corners of the border.
		rr := gtx.Dp(f.CornerRadius)
		paint.FillShape(gtx.Ops, f.BackgroundColor, clip.UniformRRect(image.Rectangle{Max: dims.Size}, rr).Op(gtx.Ops))
		call.Add(gtx.Ops)
		return dims
	})
}
