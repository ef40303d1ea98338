// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package markers

import (
	"math"

	"relaychart/chartval"
	"relaychart/coords"
	"relaychart/viewport"

	"github.com/samber/lo"
)

// ProjectedMarker is a trade placed on a sample of a series.
type ProjectedMarker struct {
	Marker chartval.Marker
	Index  int
	// Time of the sample in the space of the series axis.
	Time  float64
	Value float64
}

// Project places trades on the nearest sample of a series and drops all markers outside
// the visible window. The window is computed for the series length, so series of
// different length are resolved independently.
func Project(state viewport.State, shared chartval.TimeAxis, series chartval.Series, trades []chartval.Marker) []ProjectedMarker {
	n := series.Len()
	if n == 0 || len(trades) == 0 {
		return nil
	}
	window := state.Window(n)
	axis := series.Axis(shared)
	first := chartval.TimeAt(axis, n, window.Start)
	last := chartval.TimeAt(axis, n, window.Last())

	return lo.FilterMap(trades, func(trade chartval.Marker, _ int) (ProjectedMarker, bool) {
		index, ok := resolveTrade(axis, shared, n, trade.Timestamp)
		if !ok {
			return ProjectedMarker{}, false
		}
		value := series.Values[index]
		if math.IsNaN(value) {
			return ProjectedMarker{}, false
		}
		t := chartval.TimeAt(axis, n, index)
		if t < first || t > last {
			return ProjectedMarker{}, false
		}
		return ProjectedMarker{Marker: trade, Index: index, Time: t, Value: value}, true
	})
}

// resolveTrade finds the sample index of a trade timestamp. Series without an axis of their
// own are addressed through the shared axis, at the same relative position.
func resolveTrade(axis, shared chartval.TimeAxis, n int, timestamp float64) (int, bool) {
	if axis != nil {
		index, err := chartval.NearestIndex(axis, timestamp)
		return index, err == nil
	}
	if len(shared) == 0 {
		return 0, false
	}
	index, err := chartval.NearestIndex(shared, timestamp)
	if err != nil {
		return 0, false
	}
	return chartval.RescaleIndex(index, len(shared), n), true
}

// HitTest returns the marker closest to pos within radius pixels.
func HitTest(markers []ProjectedMarker, m coords.Mapper, pos coords.Point, radius float64) (ProjectedMarker, bool) {
	var (
		best     ProjectedMarker
		bestDist = math.Inf(1)
	)
	for _, marker := range markers {
		p, ok := coords.DataToPixelPoint(m, marker.Time, marker.Value)
		if !ok {
			continue
		}
		if d := math.Hypot(p.X-pos.X, p.Y-pos.Y); d <= radius && d < bestDist {
			best, bestDist = marker, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
