// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package viewport

import (
	"math"

	"relaychart/chartval"
)

const (
	// Zoom fractions above this value are treated as the full range.
	FullRangeFraction = 0.999
	// Minimum number of visible samples.
	MinWindowSize = 2
	floorEpsilon  = 1e-9
)

// State is the data independent part of the viewport. It is always replaced as a whole.
type State struct {
	ZoomFraction   float64 `json:"zoom" yaml:"zoom"`
	OffsetFraction float64 `json:"offset" yaml:"offset"`
}

func FullRange() State {
	return State{ZoomFraction: 1, OffsetFraction: 0}
}

func (s State) IsFullRange() bool {
	return s.ZoomFraction >= FullRangeFraction
}

// Window is the half open range [Start, End) of visible sample indices.
type Window struct {
	Start int
	End   int
}

func (w Window) Size() int {
	return w.End - w.Start
}

func (w Window) Contains(index int) bool {
	return index >= w.Start && index < w.End
}

// Last returns the index of the last visible sample.
func (w Window) Last() int {
	return w.End - 1
}

// ComputeWindow returns the visible sample range for a series with n samples.
func ComputeWindow(n int, zoom, offset float64) Window {
	if n <= 0 {
		return Window{}
	}
	size := WindowSize(n, zoom)
	if n <= size {
		return Window{Start: 0, End: n}
	}
	if math.IsNaN(offset) {
		offset = 0
	}
	start := int(math.Floor(offset*float64(n-size) + floorEpsilon))
	start = chartval.Clamp(start, 0, n-size)
	return Window{Start: start, End: start + size}
}

// WindowSize returns the number of visible samples for a zoom fraction.
func WindowSize(n int, zoom float64) int {
	if n <= MinWindowSize || zoom >= FullRangeFraction || math.IsNaN(zoom) {
		return n
	}
	size := int(math.Floor(float64(n)*zoom + floorEpsilon))
	return chartval.Clamp(size, MinWindowSize, n)
}

// Window computes the visible range of s for a series with n samples.
func (s State) Window(n int) Window {
	return ComputeWindow(n, s.ZoomFraction, s.OffsetFraction)
}

// MinFraction returns the smallest zoom fraction allowed for n samples.
func MinFraction(n int) float64 {
	if n <= 0 {
		return 1
	}
	return chartval.Clamp(float64(MinWindowSize)/float64(n), 0.02, 1)
}
