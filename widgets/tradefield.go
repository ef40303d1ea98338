// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"fmt"
	"strings"

	"relaychart/chartval"

	"gioui.org/layout"
	"gioui.org/widget/material"
)

// TradeField shows the details of the most recently activated trade marker.
type TradeField struct {
	trade *chartval.TradePayload
	frame Frame
}

func NewTradeField() *TradeField {
	return &TradeField{
		frame: Frame{Title: "Trade", InnerMargin: 5, BorderWidth: 1, CornerRadius: 4},
	}
}

func (f *TradeField) SetTrade(t chartval.TradePayload) {
	f.trade = &t
}

func (f *TradeField) Clear() {
	f.trade = nil
}

// Text returns the trade details, one property per line.
func (f *TradeField) Text() string {
	if f.trade == nil {
		return ""
	}
	t := f.trade
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s %s\n", t.OrderId, t.Side, t.Symbol)
	fmt.Fprintf(&b, "Qty %s @ %f\n", t.Quantity.String(), chartval.PrepareFormattedPrice(t.Price))
	fmt.Fprintf(&b, "Commission %f, slippage %f\n", chartval.PrepareFormattedPrice(t.Commission), chartval.PrepareFormattedPrice(t.Slippage))
	fmt.Fprintf(&b, "Realized PnL %f", chartval.PrepareFormattedPrice(t.RealizedPnl))
	return b.String()
}

func (f *TradeField) Layout(gtx layout.Context, th *material.Theme, pth *PlotTheme) layout.Dimensions {
	if f.trade == nil {
		return layout.Dimensions{}
	}
	f.frame.BorderColor = pth.MarkerColor(f.trade.Side == chartval.SideBuy)
	f.frame.TextColor = pth.FrameTextColor
	f.frame.BackgroundColor = pth.FrameBgColor
	return f.frame.Layout(gtx, th, func(gtx layout.Context) layout.Dimensions {
		l := material.Body2(th, f.Text())
		l.Color = pth.FrameTextColor
		return l.Layout(gtx)
	})
}
