// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", &buf, false)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Msg("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud", nil, false)

	assert.Error(t, err)
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", &buf, false)
	require.NoError(t, err)

	feedLog := Component(log, "feed")
	feedLog.Debug().Msg("connected")

	assert.Contains(t, buf.String(), "component=feed")
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "[controller.go     :  12]", formatCaller("/src/gesture/controller.go:12"))
	assert.Equal(t, "", formatCaller(nil))
}
