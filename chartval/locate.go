// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"errors"
	"math"
	"sort"
)

var ErrEmptyAxis = errors.New("empty time axis")

// NearestIndex returns the index of the axis sample closest to t using binary search.
// Values before the first sample map to 0, values after the last sample map to len-1.
// If t is exactly between two samples, the earlier index is returned.
func NearestIndex(axis TimeAxis, t float64) (int, error) {
	n := len(axis)
	if n == 0 {
		return 0, ErrEmptyAxis
	}
	// upper is the first index with axis[upper] >= t
	upper := sort.Search(n, func(i int) bool { return axis[i] >= t })
	if upper == 0 {
		return 0, nil
	}
	if upper == n {
		return n - 1, nil
	}
	lower := upper - 1
	if t-axis[lower] <= axis[upper]-t {
		return lower, nil
	}
	return upper, nil
}

// ResolveIndex maps a data value to a sample index for a series with n samples.
// If the axis matches the sample count, the nearest axis sample is used.
// Otherwise the value is interpreted as a (fractional) sample index.
func ResolveIndex(axis TimeAxis, n int, value float64) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyAxis
	}
	if len(axis) == n {
		return NearestIndex(axis, value)
	}
	if math.IsNaN(value) {
		return 0, ErrEmptyAxis
	}
	return Clamp(int(math.Round(value)), 0, n-1), nil
}

// TimeAt is the inverse of ResolveIndex.
func TimeAt(axis TimeAxis, n int, index int) float64 {
	if len(axis) == n && index >= 0 && index < n {
		return axis[index]
	}
	return float64(index)
}

// RescaleIndex maps a sample index of a series with from samples to the sample at
// the same relative position of a series with to samples.
func RescaleIndex(index, from, to int) int {
	if from <= 1 || to <= 1 {
		return 0
	}
	pos := float64(index) / float64(from-1) * float64(to-1)
	return Clamp(int(math.Round(pos)), 0, to-1)
}
