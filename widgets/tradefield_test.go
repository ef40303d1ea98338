// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"testing"

	"relaychart/chartval"

	"github.com/ericlagergren/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTradeFieldText(t *testing.T) {
	f := NewTradeField()
	assert.Empty(t, f.Text())

	f.SetTrade(chartval.TradePayload{
		OrderId:     7,
		Symbol:      "SPY",
		Side:        chartval.SideSell,
		Quantity:    decimal.New(10, 0),
		Price:       decimal.New(47610, 2),
		Commission:  decimal.New(1, 0),
		Slippage:    decimal.New(5, 2),
		RealizedPnl: decimal.New(325, 1),
	})
	assert.Equal(t, "#7 SELL SPY\nQty 10 @ 476.10\nCommission 1.00, slippage 0.05\nRealized PnL 32.50", f.Text())

	f.Clear()
	assert.Empty(t, f.Text())
}
