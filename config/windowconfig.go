// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"image"
)

const NumPanes = 3

type WindowConfig struct {
	Size image.Point `yaml:",omitempty"`
	// Relative heights of the price, equity and drawdown panes.
	PaneRatios []float32 `yaml:",omitempty"`
}

func NewWindowConfig() WindowConfig {
	return WindowConfig{
		PaneRatios: []float32{3, 1, 1},
	}
}

func (w *WindowConfig) sanitize() {
	if w.Size.X < 0 || w.Size.Y < 0 {
		w.Size = image.Point{}
	}
	valid := len(w.PaneRatios) == NumPanes
	for _, r := range w.PaneRatios {
		if r <= 0 {
			valid = false
		}
	}
	if !valid {
		w.PaneRatios = NewWindowConfig().PaneRatios
	}
}

// PaneWeights returns the pane ratios normalized to a sum of 1.
func (w WindowConfig) PaneWeights() []float32 {
	var sum float32
	for _, r := range w.PaneRatios {
		sum += r
	}
	weights := make([]float32, len(w.PaneRatios))
	for i, r := range w.PaneRatios {
		weights[i] = r / sum
	}
	return weights
}
