// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package mock

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"relaychart/backtest"
	"relaychart/calendar"
	"relaychart/chartval"

	"github.com/ericlagergren/decimal"
)

type RandomWalkConfig struct {
	Symbol string
	Seed   int64
	Bars   int
	// First session, the walk only uses US trading days.
	Start      time.Time
	StartPrice float64
	// A position is opened or closed every TradeEvery bars.
	TradeEvery  int
	Quantity    int64
	InitialCash float64
}

func NewRandomWalkConfig() RandomWalkConfig {
	return RandomWalkConfig{
		Symbol:      "AAPL",
		Seed:        42,
		Bars:        3000,
		Start:       time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		StartPrice:  100,
		TradeEvery:  40,
		Quantity:    10,
		InitialCash: 10000,
	}
}

// NewRandomWalkResult generates a backtest result of a random walk close series.
// The same configuration always yields the same result.
func NewRandomWalkResult(c RandomWalkConfig) *backtest.Result {
	rnd := rand.New(rand.NewSource(c.Seed))
	closes := calendar.NewUSBankCalendar().SessionCloses(c.Start, c.Bars)

	result := &backtest.Result{
		RunId: fmt.Sprintf("randomwalk-%d", c.Seed),
		Mode:  "mechanical",
		Config: backtest.RunConfig{
			Symbol:      c.Symbol,
			InitialCash: chartval.ConvertFloatToDecimal(c.InitialCash, 64),
			Dataset:     fmt.Sprintf("%s_%dbars", c.Symbol, c.Bars),
		},
		PriceSeries: make([]float64, c.Bars),
		Timestamps:  make([]int64, c.Bars),
	}
	equity := make([]float64, c.Bars)
	drawdown := make([]float64, c.Bars)

	walk := c.StartPrice
	cash := c.InitialCash
	var position int64
	var entryPrice, peak float64
	var orderId int64
	for i := 0; i < c.Bars; i++ {
		walk += rnd.NormFloat64()
		// Keep prices positive, the chart shows prices and not returns.
		price := math.Round(math.Max(walk+rnd.NormFloat64()*0.5, 1)*100) / 100
		result.PriceSeries[i] = price
		result.Timestamps[i] = closes[i].UnixMilli()

		if c.TradeEvery > 0 && i > 0 && i%c.TradeEvery == 0 {
			orderId++
			trade := backtest.Trade{
				OrderId:    orderId,
				Timestamp:  result.Timestamps[i],
				Symbol:     c.Symbol,
				Qty:        decimal.New(c.Quantity, 0),
				Price:      chartval.ConvertFloatToDecimal(price, 64),
				Commission: decimal.New(1, 0),
				Slippage:   decimal.New(1, 2),
			}
			if position == 0 {
				trade.Side = chartval.SideBuy.String()
				trade.RealizedPnl = new(decimal.Big)
				position = c.Quantity
				entryPrice = price
				cash -= price*float64(c.Quantity) + 1
			} else {
				trade.Side = chartval.SideSell.String()
				pnl := (price - entryPrice) * float64(position)
				trade.RealizedPnl = chartval.RoundPrice(chartval.ConvertFloatToDecimal(pnl, 64))
				cash += price*float64(position) - 1
				position = 0
			}
			result.Trades = append(result.Trades, trade)
		}

		equity[i] = cash + price*float64(position)
		peak = math.Max(peak, equity[i])
		drawdown[i] = equity[i]/peak - 1
	}
	result.Stats = backtest.Stats{
		EquityCurve:   equity,
		DrawdownCurve: drawdown,
	}
	if c.Bars > 0 {
		result.Stats.TotalReturn = equity[c.Bars-1]/c.InitialCash - 1
		for _, d := range drawdown {
			result.Stats.MaxDrawdown = math.Min(result.Stats.MaxDrawdown, d)
		}
	}
	return result
}
