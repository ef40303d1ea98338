// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package viewport

import "fmt"

// Intent is a requested viewport change, produced by input handling.
// Apply returns true if the model state changed.
type Intent interface {
	Apply(m *Model) bool
	fmt.Stringer
}

type ZoomIntent struct {
	Center     float64
	Multiplier float64
}

func (z ZoomIntent) Apply(m *Model) bool {
	return m.ZoomAround(z.Center, z.Multiplier)
}

func (z ZoomIntent) String() string {
	return fmt.Sprintf("zoom(center=%g, multiplier=%g)", z.Center, z.Multiplier)
}

// SelectIntent selects the range between two data values. PixelSpan is the on-screen
// width of the selection, selections narrower than MinPixelSpan are discarded.
type SelectIntent struct {
	Start        float64
	End          float64
	PixelSpan    float64
	MinPixelSpan float64
}

func (s SelectIntent) Apply(m *Model) bool {
	if s.PixelSpan < s.MinPixelSpan {
		return false
	}
	return m.SelectRange(s.Start, s.End)
}

func (s SelectIntent) String() string {
	return fmt.Sprintf("select(%g, %g, %gpx)", s.Start, s.End, s.PixelSpan)
}

type ResetIntent struct{}

func (ResetIntent) Apply(m *Model) bool {
	return m.Reset()
}

func (ResetIntent) String() string {
	return "reset"
}

// StateIntent restores a previously saved state.
type StateIntent struct {
	State State
}

func (s StateIntent) Apply(m *Model) bool {
	return m.SetState(s.State)
}

func (s StateIntent) String() string {
	return fmt.Sprintf("restore(zoom=%g, offset=%g)", s.State.ZoomFraction, s.State.OffsetFraction)
}
