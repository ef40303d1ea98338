// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package mock

import (
	"testing"
	"time"

	"relaychart/chartval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallWalk() RandomWalkConfig {
	c := NewRandomWalkConfig()
	c.Bars = 200
	c.TradeEvery = 20
	return c
}

func TestRandomWalkIsReproducible(t *testing.T) {
	a := NewRandomWalkResult(smallWalk())
	b := NewRandomWalkResult(smallWalk())
	assert.Equal(t, a.PriceSeries, b.PriceSeries)
	assert.Equal(t, a.Timestamps, b.Timestamps)

	other := smallWalk()
	other.Seed = 7
	assert.NotEqual(t, a.PriceSeries, NewRandomWalkResult(other).PriceSeries)
}

func TestRandomWalkIsDisplayable(t *testing.T) {
	r := NewRandomWalkResult(smallWalk())
	require.NoError(t, r.Validate())
	assert.Equal(t, "AAPL_200bars", r.Name())

	d := r.Dataset()
	assert.Len(t, d.Axis, 200)
	assert.Len(t, d.Equity.Values, 200)
	for i := 1; i < len(d.Axis); i++ {
		assert.Greater(t, d.Axis[i], d.Axis[i-1])
	}
	for _, p := range r.PriceSeries {
		assert.GreaterOrEqual(t, p, 1.0)
	}
	for _, dd := range r.Stats.DrawdownCurve {
		assert.LessOrEqual(t, dd, 0.0)
	}
}

func TestRandomWalkTradesOnTradingDays(t *testing.T) {
	r := NewRandomWalkResult(smallWalk())
	// Trades at bars 20, 40, ... 180
	require.Len(t, r.Trades, 9)
	for i, trade := range r.Trades {
		bar := (i + 1) * 20
		assert.Equal(t, r.Timestamps[bar], trade.Timestamp)
		if i%2 == 0 {
			assert.Equal(t, chartval.SideBuy.String(), trade.Side)
		} else {
			assert.Equal(t, chartval.SideSell.String(), trade.Side)
		}
		day := time.UnixMilli(trade.Timestamp).UTC().Weekday()
		assert.NotEqual(t, time.Saturday, day)
		assert.NotEqual(t, time.Sunday, day)
	}
}
