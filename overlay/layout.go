// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package overlay

import "math"

// Size of the plot container in device independent units.
type Size struct {
	Width, Height float64
}

// CanvasDimensions describes the backing store of the overlay.
// Width and Height are in device pixels, Scale converts from container units.
type CanvasDimensions struct {
	Width  int
	Height int
	Scale  float64
}

func (d CanvasDimensions) Empty() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Layout computes the canvas dimensions for a container and device pixel ratio.
func Layout(container Size, dpr float64) CanvasDimensions {
	if math.IsNaN(dpr) || math.IsInf(dpr, 0) || dpr <= 0 {
		dpr = 1
	}
	return CanvasDimensions{
		Width:  devicePixels(container.Width, dpr),
		Height: devicePixels(container.Height, dpr),
		Scale:  dpr,
	}
}

func devicePixels(v, dpr float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int(math.Round(v * dpr))
}
