// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

// MessageField shows an error message until it is dismissed.
type MessageField struct {
	message string
	dismiss widget.Clickable
}

func NewMessageField() *MessageField {
	return &MessageField{}
}

func (f *MessageField) Show(txt string) {
	f.message = txt
}

func (f *MessageField) Visible() bool {
	return len(f.message) > 0
}

func (f *MessageField) Layout(gtx layout.Context, th *material.Theme, pth *PlotTheme) layout.Dimensions {
	if f.dismiss.Clicked(gtx) {
		f.message = ""
	}
	if !f.Visible() {
		return layout.Dimensions{}
	}
	macro := op.Record(gtx.Ops)
	dims := material.Clickable(gtx, &f.dismiss, func(gtx layout.Context) layout.Dimensions {
		lbl := material.Body1(th, f.message)
		lbl.Color = pth.FrameTextColor
		return lbl.Layout(gtx)
	})
	call := macro.Stop()

	clipRect := image.Rectangle{Max: image.Point{X: gtx.Dp(50) + dims.Size.X, Y: gtx.Dp(40) + dims.Size.Y}}
	defer clip.Rect(clipRect).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, pth.ErrorBgColor)

	textArea := op.Offset(image.Point{X: gtx.Dp(25), Y: gtx.Dp(20)}).Push(gtx.Ops)
	// Run recorded drawing.
	call.Add(gtx.Ops)
	textArea.Pop()
	return layout.Dimensions{Size: clipRect.Size()}
}
