// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlayThemeScalesToPixels(t *testing.T) {
	th := NewDarkPlotTheme()
	o := th.OverlayTheme(2)
	assert.Equal(t, float32(3), o.Trend.Width)
	assert.Equal(t, th.LevelColor, o.Level.Color)
	assert.Empty(t, o.Trend.Dashes)
	assert.Equal(t, []float32{12, 8}, o.Draft.Dashes)
	// The theme itself is unchanged.
	assert.Equal(t, []float32{6, 4}, th.DraftDashPattern)
}

func TestMarkerColor(t *testing.T) {
	th := NewLightPlotTheme()
	assert.Equal(t, th.BuyMarkerColor, th.MarkerColor(true))
	assert.Equal(t, th.SellMarkerColor, th.MarkerColor(false))
}
