// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package coords

// Point is a position in pixels, relative to the top left corner of the pane.
type Point struct {
	X, Y float64
}

type Rect struct {
	Min, Max Point
}

func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}

func (r Rect) Dx() float64 {
	return r.Max.X - r.Min.X
}

func (r Rect) Dy() float64 {
	return r.Max.Y - r.Min.Y
}

func (r Rect) Empty() bool {
	return r.Dx() <= 0 || r.Dy() <= 0
}

func (r Rect) ContainsX(x float64) bool {
	return x >= r.Min.X && x <= r.Max.X
}

func (r Rect) ContainsY(y float64) bool {
	return y >= r.Min.Y && y <= r.Max.Y
}

func (r Rect) Contains(p Point) bool {
	return r.ContainsX(p.X) && r.ContainsY(p.Y)
}

// Mapper converts between pixels and data values of one pane.
// All conversions return false if the coordinate is outside the current plot rectangle
// or if the pane has not been laid out yet. Callers must skip the draw or update in
// that case and never fall back to zero.
type Mapper interface {
	PlotRect() (Rect, bool)
	PixelToData(x float64) (float64, bool)
	DataToPixel(v float64) (float64, bool)
	PixelToPrice(y float64) (float64, bool)
	PriceToPixel(p float64) (float64, bool)
}

// PixelToDataPoint maps a pixel position to time and price, both must be mappable.
func PixelToDataPoint(m Mapper, p Point) (time float64, price float64, ok bool) {
	if time, ok = m.PixelToData(p.X); !ok {
		return
	}
	price, ok = m.PixelToPrice(p.Y)
	return
}

// DataToPixelPoint maps time and price to a pixel position, both must be mappable.
func DataToPixelPoint(m Mapper, time, price float64) (Point, bool) {
	x, ok := m.DataToPixel(time)
	if !ok {
		return Point{}, false
	}
	y, ok := m.PriceToPixel(price)
	if !ok {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

// Unmapped is a Mapper for panes which have not been laid out yet.
type Unmapped struct{}

func (Unmapped) PlotRect() (Rect, bool) {
	return Rect{}, false
}

func (Unmapped) PixelToData(float64) (float64, bool) {
	return 0, false
}

func (Unmapped) DataToPixel(float64) (float64, bool) {
	return 0, false
}

func (Unmapped) PixelToPrice(float64) (float64, bool) {
	return 0, false
}

func (Unmapped) PriceToPixel(float64) (float64, bool) {
	return 0, false
}
