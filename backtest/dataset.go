// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package backtest

import (
	"fmt"
	"math"

	"relaychart/chartval"

	"github.com/cinar/indicator"
	"github.com/ericlagergren/decimal"
)

// Dataset is a result converted for display.
type Dataset struct {
	Name     string
	Symbol   string
	Axis     chartval.TimeAxis
	Price    chartval.Series
	Equity   chartval.Series
	Drawdown chartval.Series
	Trades   []chartval.Marker
}

// Dataset converts the result. If the timestamps do not match the price series,
// the axis is empty and all series are addressed by sample index.
// Equity and drawdown curves may be shorter than the price series.
func (r *Result) Dataset() Dataset {
	d := Dataset{
		Name:     r.Name(),
		Symbol:   r.Config.Symbol,
		Price:    chartval.Series{Name: "price", Values: r.PriceSeries},
		Equity:   chartval.Series{Name: "equity", Values: r.Stats.EquityCurve},
		Drawdown: chartval.Series{Name: "drawdown", Values: r.Stats.DrawdownCurve},
	}
	if len(r.Timestamps) == len(r.PriceSeries) {
		d.Axis = make(chartval.TimeAxis, len(r.Timestamps))
		for i, ts := range r.Timestamps {
			d.Axis[i] = float64(ts)
		}
	}
	d.Trades = make([]chartval.Marker, 0, len(r.Trades))
	for _, t := range r.Trades {
		d.Trades = append(d.Trades, t.marker())
	}
	return d
}

func (t Trade) marker() chartval.Marker {
	price, _ := orZero(t.Price).Float64()
	return chartval.Marker{
		Timestamp: float64(t.Timestamp),
		Value:     price,
		Payload: chartval.TradePayload{
			OrderId:     t.OrderId,
			Symbol:      t.Symbol,
			Side:        chartval.ParseSide(t.Side),
			Quantity:    orZero(t.Qty),
			Price:       orZero(t.Price),
			Commission:  orZero(t.Commission),
			Slippage:    orZero(t.Slippage),
			RealizedPnl: orZero(t.RealizedPnl),
		},
	}
}

func orZero(v *decimal.Big) *decimal.Big {
	if v == nil {
		return new(decimal.Big)
	}
	return v
}

// MovingAverage returns the simple moving average of a series. Values before
// the first full period are NaN.
func MovingAverage(s chartval.Series, periods int) chartval.Series {
	avg := chartval.Series{Name: fmt.Sprintf("SMA %d", periods), Times: s.Times}
	if periods <= 0 || len(s.Values) == 0 {
		return avg
	}
	avg.Values = indicator.Sma(periods, s.Values)
	for i := 0; i < periods-1 && i < len(avg.Values); i++ {
		avg.Values[i] = math.NaN()
	}
	return avg
}
