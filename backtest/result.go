// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package backtest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ericlagergren/decimal"
)

var ErrNoSeries = errors.New("backtest result contains no price series")

type RunConfig struct {
	Symbol      string       `json:"symbol"`
	InitialCash *decimal.Big `json:"initial_cash,omitempty"`
	Dataset     string       `json:"dataset,omitempty"`
}

// Stats are computed by the backtest engine, only the curves are displayed.
type Stats struct {
	TotalReturn      float64   `json:"total_return"`
	AnnualizedReturn float64   `json:"annualized_return"`
	Volatility       float64   `json:"volatility"`
	Sharpe           float64   `json:"sharpe"`
	Sortino          float64   `json:"sortino"`
	Calmar           float64   `json:"calmar"`
	MaxDrawdown      float64   `json:"max_drawdown"`
	EquityCurve      []float64 `json:"equity_curve"`
	DrawdownCurve    []float64 `json:"drawdown_curve"`
}

type Trade struct {
	OrderId     int64        `json:"order_id"`
	Timestamp   int64        `json:"timestamp"`
	Symbol      string       `json:"symbol"`
	Side        string       `json:"side"`
	Qty         *decimal.Big `json:"qty"`
	Price       *decimal.Big `json:"price"`
	Commission  *decimal.Big `json:"commission"`
	Slippage    *decimal.Big `json:"slippage"`
	RealizedPnl *decimal.Big `json:"realized_pnl"`
}

type Result struct {
	RunId       string    `json:"run_id"`
	Mode        string    `json:"mode"`
	Config      RunConfig `json:"config"`
	Stats       Stats     `json:"stats"`
	Trades      []Trade   `json:"trades"`
	PriceSeries []float64 `json:"price_series"`
	Timestamps  []int64   `json:"timestamps"`
}

// Decode reads a backtest result and checks that it can be displayed.
func Decode(r io.Reader) (*Result, error) {
	var result Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding backtest result: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Result) Validate() error {
	if len(r.PriceSeries) == 0 {
		return ErrNoSeries
	}
	return nil
}

// Name identifies the dataset of the result, it is used as key for annotations.
func (r *Result) Name() string {
	if r.Config.Dataset != "" {
		return r.Config.Dataset
	}
	if r.Config.Symbol != "" {
		return r.Config.Symbol
	}
	return r.RunId
}
