// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package viewport

import (
	"math"

	"relaychart/chartval"
)

const fractionEpsilon = 1e-12

// Model owns the viewport state for a time axis.
// Every operation computes the complete next state and commits it at once.
type Model struct {
	axis  chartval.TimeAxis
	n     int
	state State
}

// NewModel creates a model for a time axis with n samples. If the axis length
// differs from n, data values are interpreted as sample indices.
func NewModel(axis chartval.TimeAxis, n int) *Model {
	return &Model{axis: axis, n: n, state: FullRange()}
}

func (m *Model) State() State {
	return m.state
}

func (m *Model) Len() int {
	return m.n
}

func (m *Model) Axis() chartval.TimeAxis {
	return m.axis
}

func (m *Model) Window() Window {
	return m.state.Window(m.n)
}

// SetAxis replaces the data the model operates on. The fractions are kept,
// so the visible portion stays the same relative to the data.
func (m *Model) SetAxis(axis chartval.TimeAxis, n int) {
	m.axis = axis
	m.n = n
	if n <= MinWindowSize {
		m.state = FullRange()
	}
}

// SetState replaces the state after sanitizing it. Returns true if the state changed.
func (m *Model) SetState(s State) bool {
	return m.commit(sanitize(s))
}

func (m *Model) Reset() bool {
	return m.commit(FullRange())
}

// ZoomAround scales the zoom fraction by multiplier and keeps the sample nearest to center
// at the same relative position within the window. A multiplier below 1 zooms in.
func (m *Model) ZoomAround(center, multiplier float64) bool {
	if m.n <= MinWindowSize || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 0 {
		return false
	}
	minFraction := MinFraction(m.n)
	current := max(m.state.ZoomFraction, minFraction)
	next := chartval.Clamp(current*multiplier, minFraction, 1)
	if next >= FullRangeFraction {
		return m.commit(FullRange())
	}
	if math.Abs(next-m.state.ZoomFraction) < fractionEpsilon {
		return false
	}
	centerIndex, err := chartval.ResolveIndex(m.axis, m.n, center)
	if err != nil {
		return false
	}

	n := float64(m.n)
	size := n * current
	start := 0.0
	if n > size {
		start = m.state.OffsetFraction * (n - size)
	}
	ratio := (float64(centerIndex) - start) / size
	nextSize := n * next
	nextStart := chartval.Clamp(float64(centerIndex)-ratio*nextSize, 0, n-nextSize)

	nextState := State{ZoomFraction: next}
	if denom := n - nextSize; denom > fractionEpsilon {
		nextState.OffsetFraction = chartval.Clamp(nextStart/denom, 0, 1)
	}
	return m.commit(nextState)
}

// SelectRange zooms to the samples between start and end. A range which resolves
// to a single sample is ignored.
func (m *Model) SelectRange(start, end float64) bool {
	startIndex, err := chartval.ResolveIndex(m.axis, m.n, start)
	if err != nil {
		return false
	}
	endIndex, err := chartval.ResolveIndex(m.axis, m.n, end)
	if err != nil {
		return false
	}
	if startIndex > endIndex {
		startIndex, endIndex = endIndex, startIndex
	}
	if startIndex == endIndex {
		return false
	}
	size := max(MinWindowSize, endIndex-startIndex)
	if size >= m.n {
		return m.commit(FullRange())
	}
	nextState := State{ZoomFraction: float64(size) / float64(m.n)}
	if nextState.IsFullRange() {
		return m.commit(FullRange())
	}
	startIndex = min(startIndex, m.n-size)
	nextState.OffsetFraction = float64(startIndex) / float64(m.n-size)
	return m.commit(nextState)
}

func (m *Model) commit(s State) bool {
	if s == m.state {
		return false
	}
	m.state = s
	return true
}

func sanitize(s State) State {
	if math.IsNaN(s.ZoomFraction) || s.ZoomFraction >= FullRangeFraction || s.ZoomFraction <= 0 {
		return FullRange()
	}
	if math.IsNaN(s.OffsetFraction) {
		s.OffsetFraction = 0
	}
	s.OffsetFraction = chartval.Clamp(s.OffsetFraction, 0, 1)
	return s
}
