// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"github.com/ericlagergren/decimal"
)

const NearZero = 0.000001

// TimeAxis is an ordered list of sample timestamps (unix milliseconds or bar index).
// It is shared by all series of one chart group and never modified by the engine.
type TimeAxis []float64

// Series values are aligned to Times if both have the same length.
// Otherwise they are aligned to the shared axis of the group, or addressed by index.
type Series struct {
	Name   string
	Values []float64
	Times  TimeAxis
}

// Axis returns the time axis this series is aligned to, or nil if the series
// can only be addressed by sample index.
func (s Series) Axis(shared TimeAxis) TimeAxis {
	if len(s.Times) > 0 && len(s.Times) == len(s.Values) {
		return s.Times
	}
	if len(shared) > 0 && len(shared) == len(s.Values) {
		return shared
	}
	return nil
}

func (s Series) Len() int {
	return len(s.Values)
}

// A point in data space. Time is on the same scale as the time axis.
type DataPoint struct {
	Time  float64 `json:"time"`
	Price float64 `json:"price"`
}

type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideSell {
		return "SELL"
	}
	return "BUY"
}

func ParseSide(s string) Side {
	if s == "SELL" || s == "sell" {
		return SideSell
	}
	return SideBuy
}

// Trade details attached to a marker. Prices are decimals to avoid float rounding
// when they are displayed.
type TradePayload struct {
	OrderId     int64
	Symbol      string
	Side        Side
	Quantity    *decimal.Big
	Price       *decimal.Big
	Commission  *decimal.Big
	Slippage    *decimal.Big
	RealizedPnl *decimal.Big
}

// Markers are not aligned to the time axis, they are projected to the nearest sample.
type Marker struct {
	Timestamp float64
	Value     float64
	Payload   TradePayload
}
