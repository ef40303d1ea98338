// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package coords

import "math"

const edgeTolerance = 0.000001

// Linear projection between data values and pixels of a plot rectangle.
// x = mX*t + bX, y = mY*p + bY
type Projection struct {
	rect       Rect
	minT, maxT float64
	minP, maxP float64
	mX, bX     float64
	mY, bY     float64
	valid      bool
}

// NewProjection maps the visible time range [minT, maxT] to the horizontal extent of rect
// and the price range [minP, maxP] to its vertical extent, with higher prices at the top.
// A degenerate rectangle or range yields a projection which maps nothing.
func NewProjection(rect Rect, minT, maxT, minP, maxP float64) *Projection {
	p := &Projection{rect: rect, minT: minT, maxT: maxT, minP: minP, maxP: maxP}
	if rect.Empty() || !isFinite(minT, maxT, minP, maxP) {
		return p
	}
	if maxT <= minT {
		// A single visible sample is centered.
		p.mX = 0
		p.bX = rect.Min.X + rect.Dx()/2
	} else {
		p.mX = rect.Dx() / (maxT - minT)
		p.bX = rect.Min.X - p.mX*minT
	}
	if maxP <= minP {
		p.mY = 0
		p.bY = rect.Min.Y + rect.Dy()/2
	} else {
		p.mY = -rect.Dy() / (maxP - minP)
		p.bY = rect.Max.Y - p.mY*minP
	}
	p.valid = true
	return p
}

func (p *Projection) PlotRect() (Rect, bool) {
	return p.rect, p.valid
}

func (p *Projection) TimeRange() (float64, float64) {
	return p.minT, p.maxT
}

func (p *Projection) PriceRange() (float64, float64) {
	return p.minP, p.maxP
}

func (p *Projection) PixelToData(x float64) (float64, bool) {
	if !p.valid || !p.rect.ContainsX(x) {
		return 0, false
	}
	if p.mX == 0 {
		return p.minT, true
	}
	return (x - p.bX) / p.mX, true
}

func (p *Projection) DataToPixel(v float64) (float64, bool) {
	if !p.valid || math.IsNaN(v) || v < p.minT-edgeTolerance || v > p.maxT+edgeTolerance {
		return 0, false
	}
	return p.mX*v + p.bX, true
}

func (p *Projection) PixelToPrice(y float64) (float64, bool) {
	if !p.valid || !p.rect.ContainsY(y) {
		return 0, false
	}
	if p.mY == 0 {
		return p.minP, true
	}
	return (y - p.bY) / p.mY, true
}

func (p *Projection) PriceToPixel(v float64) (float64, bool) {
	if !p.valid || math.IsNaN(v) || v < p.minP-edgeTolerance || v > p.maxP+edgeTolerance {
		return 0, false
	}
	return p.mY*v + p.bY, true
}

func isFinite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
