// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"github.com/barkimedes/go-deepcopy"
)

const DefaultLogLevel = "info"

type AppConfig struct {
	LightTheme   bool   `yaml:",omitempty"`
	LogLevel     string `yaml:",omitempty"`
	SmaPeriods   []int  `yaml:",omitempty"`
	EngineConfig EngineConfig
	WindowConfig WindowConfig
	FeedConfig   FeedConfig
	StoreConfig  StoreConfig
}

type FeedConfig struct {
	// Websocket url of the backtest backend, the feed is disabled if empty.
	Url                     string `yaml:",omitempty"`
	RunId                   string `yaml:",omitempty"`
	MinReconnectMs          int    `yaml:",omitempty"`
	MaxReconnectMs          int    `yaml:",omitempty"`
	HandshakeTimeoutSeconds int    `yaml:",omitempty"`
}

type StoreConfig struct {
	// Annotation database file name, relative to the configuration directory.
	FileName string `yaml:",omitempty"`
}

var defaultFeedConfig = FeedConfig{
	MinReconnectMs:          500,
	MaxReconnectMs:          30000,
	HandshakeTimeoutSeconds: 10,
}

var defaultStoreConfig = StoreConfig{
	FileName: "annotations.db",
}

var defaultSmaPeriods = []int{20}

func NewAppConfig() AppConfig {
	return AppConfig{
		LogLevel:     DefaultLogLevel,
		SmaPeriods:   append([]int(nil), defaultSmaPeriods...),
		EngineConfig: NewEngineConfig(),
		WindowConfig: NewWindowConfig(),
		FeedConfig:   defaultFeedConfig,
		StoreConfig:  defaultStoreConfig,
	}
}

func (a *AppConfig) deepCopy() AppConfig {
	c, err := deepcopy.Anything(a)
	if err != nil {
		panic(err)
	}
	return *c.(*AppConfig)
}

func (a *AppConfig) Sanitize() {
	a.EngineConfig.sanitize()
	a.WindowConfig.sanitize()
	periods := a.SmaPeriods[:0]
	for _, p := range a.SmaPeriods {
		if p > 1 {
			periods = append(periods, p)
		}
	}
	a.SmaPeriods = periods
	a.RestoreDefaults()
}

// We do not want to store certain default values in the configuration file,
// so that changed defaults of a new release are picked up.
func (a *AppConfig) RemoveDefaults() {
	if a.LogLevel == DefaultLogLevel {
		a.LogLevel = ""
	}
	a.EngineConfig.removeDefaults()
	if a.FeedConfig.MinReconnectMs == defaultFeedConfig.MinReconnectMs {
		a.FeedConfig.MinReconnectMs = 0
	}
	if a.FeedConfig.MaxReconnectMs == defaultFeedConfig.MaxReconnectMs {
		a.FeedConfig.MaxReconnectMs = 0
	}
	if a.FeedConfig.HandshakeTimeoutSeconds == defaultFeedConfig.HandshakeTimeoutSeconds {
		a.FeedConfig.HandshakeTimeoutSeconds = 0
	}
	if a.StoreConfig.FileName == defaultStoreConfig.FileName {
		a.StoreConfig.FileName = ""
	}
}

// Restore certain default values which are not stored in the configuration file.
func (a *AppConfig) RestoreDefaults() {
	if len(a.LogLevel) == 0 {
		a.LogLevel = DefaultLogLevel
	}
	a.EngineConfig.restoreDefaults()
	if a.FeedConfig.MinReconnectMs <= 0 {
		a.FeedConfig.MinReconnectMs = defaultFeedConfig.MinReconnectMs
	}
	if a.FeedConfig.MaxReconnectMs <= 0 {
		a.FeedConfig.MaxReconnectMs = defaultFeedConfig.MaxReconnectMs
	}
	if a.FeedConfig.HandshakeTimeoutSeconds <= 0 {
		a.FeedConfig.HandshakeTimeoutSeconds = defaultFeedConfig.HandshakeTimeoutSeconds
	}
	if len(a.StoreConfig.FileName) == 0 {
		a.StoreConfig.FileName = defaultStoreConfig.FileName
	}
}
