// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"math"
	"strconv"

	"relaychart/chartval"
	"relaychart/viewport"

	"gonum.org/v1/gonum/floats"
)

const priceRangePadding = 0.05

// visiblePriceRange returns the value range of the visible part of all series,
// padded so that lines do not touch the plot border. NaN values are skipped.
func visiblePriceRange(series []chartval.Series, window func(chartval.Series) viewport.Window) (float64, float64, bool) {
	var values []float64
	for _, s := range series {
		w := window(s)
		if w.Size() <= 0 || w.End > len(s.Values) {
			continue
		}
		for _, v := range s.Values[w.Start:w.End] {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				values = append(values, v)
			}
		}
	}
	if len(values) == 0 {
		return 0, 0, false
	}
	minP, maxP := floats.Min(values), floats.Max(values)
	diff := maxP - minP
	if diff < chartval.NearZero {
		diff = math.Max(math.Abs(maxP)*0.01, 1)
		return minP - diff, maxP + diff, true
	}
	return minP - diff*priceRangePadding, maxP + diff*priceRangePadding, true
}

// niceStep returns a grid step of 1, 2 or 5 times a power of ten which
// results in grid lines approximately pxGrid pixels apart.
func niceStep(valueRange, pxRange, pxGrid float64) float64 {
	if valueRange <= 0 || pxRange <= 0 || pxGrid <= 0 {
		return 0
	}
	raw := valueRange * pxGrid / pxRange
	mag := math.Pow10(int(math.Floor(math.Log10(raw))))
	switch n := raw / mag; {
	case n < 1.5:
		return mag
	case n < 3.5:
		return 2 * mag
	case n < 7.5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// gridValues returns all multiples of step within [minV, maxV].
func gridValues(minV, maxV, step float64) []float64 {
	if step <= 0 || maxV < minV {
		return nil
	}
	var values []float64
	for v := math.Ceil(minV/step) * step; v <= maxV+step*chartval.NearZero; v += step {
		// we do not want negative zero on our label
		if math.Abs(v) < step*chartval.NearZero {
			v = 0
		}
		values = append(values, v)
	}
	return values
}

func formatGridValue(v, step float64) string {
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - chartval.NearZero))
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// gridIndices returns sample indices of the window which are labelled on the
// time axis, every step samples so that labels are about pxGrid apart.
func gridIndices(w viewport.Window, pxWidth, pxGrid float64) []int {
	if w.Size() <= 0 || pxWidth <= 0 || pxGrid <= 0 {
		return nil
	}
	step := int(math.Ceil(float64(w.Size()) * pxGrid / pxWidth))
	step = max(step, 1)
	var indices []int
	for i := (w.Start + step - 1) / step * step; i < w.End; i += step {
		indices = append(indices, i)
	}
	return indices
}
