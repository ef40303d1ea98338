// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package markers

import (
	"testing"

	"relaychart/chartval"
	"relaychart/coords"
	"relaychart/viewport"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAxis = chartval.TimeAxis{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}

func newTrade(ts float64, id int64) chartval.Marker {
	return chartval.Marker{Timestamp: ts, Payload: chartval.TradePayload{OrderId: id}}
}

func TestProjectToNearestSample(t *testing.T) {
	series := chartval.Series{Name: "price", Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}

	projected := Project(viewport.FullRange(), testAxis, series, []chartval.Marker{newTrade(240, 1), newTrade(260, 2)})

	require.Len(t, projected, 2)
	assert.Equal(t, 1, projected[0].Index)
	assert.Equal(t, 200.0, projected[0].Time)
	assert.Equal(t, 2.0, projected[0].Value)
	assert.Equal(t, 2, projected[1].Index)
}

func TestProjectTieResolvesToEarlier(t *testing.T) {
	series := chartval.Series{Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}

	projected := Project(viewport.FullRange(), testAxis, series, []chartval.Marker{newTrade(350, 7)})

	require.Len(t, projected, 1)
	assert.Equal(t, 2, projected[0].Index)
}

func TestProjectFiltersToWindow(t *testing.T) {
	series := chartval.Series{Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	trades := []chartval.Marker{newTrade(100, 1), newTrade(500, 2), newTrade(600, 3), newTrade(1000, 4), newTrade(5000, 5)}
	// window [4, 6) covers times 500 and 600
	state := viewport.State{ZoomFraction: 0.2, OffsetFraction: 0.5}

	projected := Project(state, testAxis, series, trades)

	ids := lo.Map(projected, func(m ProjectedMarker, _ int) int64 { return m.Marker.Payload.OrderId })
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestProjectShorterSeriesIndependently(t *testing.T) {
	// equity curve with fewer samples than the shared axis
	equity := chartval.Series{Name: "equity", Values: []float64{10, 11, 12, 13, 14}}
	trades := []chartval.Marker{
		newTrade(200, 1), newTrade(600, 2), newTrade(700, 3), newTrade(800, 4), newTrade(900, 5), newTrade(1000, 6),
	}

	projected := Project(viewport.FullRange(), testAxis, equity, trades)

	// Trades keep their relative position instead of piling up on the last sample.
	indices := lo.Map(projected, func(m ProjectedMarker, _ int) int { return m.Index })
	assert.Equal(t, []int{0, 2, 3, 3, 4, 4}, indices)
	require.Len(t, projected, 6)
	assert.Equal(t, 10.0, projected[0].Value)
	assert.Equal(t, 2.0, projected[1].Time)
	assert.Equal(t, 12.0, projected[1].Value)
}

func TestProjectSeriesWithOwnAxis(t *testing.T) {
	series := chartval.Series{Values: []float64{5, 6, 7}, Times: chartval.TimeAxis{100, 550, 1000}}

	projected := Project(viewport.FullRange(), testAxis, series, []chartval.Marker{newTrade(600, 1)})

	require.Len(t, projected, 1)
	assert.Equal(t, 550.0, projected[0].Time)
	assert.Equal(t, 6.0, projected[0].Value)
}

func TestProjectEmptySeries(t *testing.T) {
	assert.Empty(t, Project(viewport.FullRange(), testAxis, chartval.Series{}, []chartval.Marker{newTrade(1, 1)}))
}

func TestHitTest(t *testing.T) {
	series := chartval.Series{Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	projected := Project(viewport.FullRange(), testAxis, series, []chartval.Marker{newTrade(300, 1), newTrade(400, 2)})
	// 100 time units per 100 px, 1 price unit per 50 px
	mapper := coords.NewProjection(coords.NewRect(0, 0, 900, 450), 100, 1000, 1, 10)
	p, ok := coords.DataToPixelPoint(mapper, 400, 4)
	require.True(t, ok)

	hit, ok := HitTest(projected, mapper, coords.Point{X: p.X + 3, Y: p.Y - 2}, 6)
	require.True(t, ok)
	assert.Equal(t, int64(2), hit.Marker.Payload.OrderId)

	_, ok = HitTest(projected, mapper, coords.Point{X: p.X + 30, Y: p.Y}, 6)
	assert.False(t, ok)
}
