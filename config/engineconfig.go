// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"time"

	"relaychart/chartgroup"
	"relaychart/gesture"
)

// EngineConfig holds the interaction tunables of the chart panes.
type EngineConfig struct {
	MinBrushPx        float64 `yaml:",omitempty"`
	PinchNoiseRatio   float64 `yaml:",omitempty"`
	WheelZoomFactor   float64 `yaml:",omitempty"`
	WheelStepPx       float64 `yaml:",omitempty"`
	MaxWheelNotches   int     `yaml:",omitempty"`
	SettleDelayMs     int     `yaml:",omitempty"`
	MarkerHitRadiusDp float64 `yaml:",omitempty"`
	// Resize requests within this interval are merged into one overlay resize.
	ResizeCoalesceMs int `yaml:",omitempty"`
}

var defaultEngineConfig = NewEngineConfig()

func NewEngineConfig() EngineConfig {
	g := gesture.DefaultConfig()
	c := chartgroup.DefaultConfig()
	return EngineConfig{
		MinBrushPx:        g.MinBrushPx,
		PinchNoiseRatio:   g.PinchNoiseRatio,
		WheelZoomFactor:   g.WheelZoomFactor,
		WheelStepPx:       g.WheelStepPx,
		MaxWheelNotches:   int(g.MaxWheelNotches),
		SettleDelayMs:     int(g.SettleDelay / time.Millisecond),
		MarkerHitRadiusDp: c.MarkerHitRadius,
		ResizeCoalesceMs:  16,
	}
}

// ChartGroupConfig converts the tunables, pxPerDp scales device independent sizes.
func (e EngineConfig) ChartGroupConfig(pxPerDp float64) chartgroup.Config {
	if pxPerDp <= 0 {
		pxPerDp = 1
	}
	return chartgroup.Config{
		Gesture: gesture.Config{
			MinBrushPx:      e.MinBrushPx,
			PinchNoiseRatio: e.PinchNoiseRatio,
			WheelZoomFactor: e.WheelZoomFactor,
			WheelStepPx:     e.WheelStepPx,
			MaxWheelNotches: float64(e.MaxWheelNotches),
			SettleDelay:     time.Duration(e.SettleDelayMs) * time.Millisecond,
		},
		MarkerHitRadius: e.MarkerHitRadiusDp * pxPerDp,
	}
}

func (e EngineConfig) ResizeCoalesce() time.Duration {
	return time.Duration(e.ResizeCoalesceMs) * time.Millisecond
}

func (e *EngineConfig) sanitize() {
	// A zoom factor outside (0, 1) would invert or disable wheel zoom.
	if e.WheelZoomFactor >= 1 || e.WheelZoomFactor < 0 {
		e.WheelZoomFactor = 0
	}
	if e.PinchNoiseRatio < 0 || e.PinchNoiseRatio >= 1 {
		e.PinchNoiseRatio = 0
	}
	if e.MinBrushPx < 0 {
		e.MinBrushPx = 0
	}
	if e.SettleDelayMs < 0 {
		e.SettleDelayMs = 0
	}
}

func (e *EngineConfig) removeDefaults() {
	def := defaultEngineConfig
	if e.MinBrushPx == def.MinBrushPx {
		e.MinBrushPx = 0
	}
	if e.PinchNoiseRatio == def.PinchNoiseRatio {
		e.PinchNoiseRatio = 0
	}
	if e.WheelZoomFactor == def.WheelZoomFactor {
		e.WheelZoomFactor = 0
	}
	if e.WheelStepPx == def.WheelStepPx {
		e.WheelStepPx = 0
	}
	if e.MaxWheelNotches == def.MaxWheelNotches {
		e.MaxWheelNotches = 0
	}
	if e.SettleDelayMs == def.SettleDelayMs {
		e.SettleDelayMs = 0
	}
	if e.MarkerHitRadiusDp == def.MarkerHitRadiusDp {
		e.MarkerHitRadiusDp = 0
	}
	if e.ResizeCoalesceMs == def.ResizeCoalesceMs {
		e.ResizeCoalesceMs = 0
	}
}

func (e *EngineConfig) restoreDefaults() {
	def := defaultEngineConfig
	if e.MinBrushPx <= 0 {
		e.MinBrushPx = def.MinBrushPx
	}
	if e.PinchNoiseRatio <= 0 {
		e.PinchNoiseRatio = def.PinchNoiseRatio
	}
	if e.WheelZoomFactor <= 0 {
		e.WheelZoomFactor = def.WheelZoomFactor
	}
	if e.WheelStepPx <= 0 {
		e.WheelStepPx = def.WheelStepPx
	}
	if e.MaxWheelNotches <= 0 {
		e.MaxWheelNotches = def.MaxWheelNotches
	}
	if e.SettleDelayMs <= 0 {
		e.SettleDelayMs = def.SettleDelayMs
	}
	if e.MarkerHitRadiusDp <= 0 {
		e.MarkerHitRadiusDp = def.MarkerHitRadiusDp
	}
	if e.ResizeCoalesceMs <= 0 {
		e.ResizeCoalesceMs = def.ResizeCoalesceMs
	}
}
