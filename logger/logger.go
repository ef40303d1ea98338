// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const DefaultTimeFormat = "2006-01-02 15:04:05"

// New creates a console logger writing to w, or to stderr if w is nil.
func New(level string, w io.Writer, colored bool) (zerolog.Logger, error) {
	if level == "" {
		level = zerolog.LevelInfoValue
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !colored,
		TimeFormat:   DefaultTimeFormat,
		FormatCaller: formatCaller,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Caller().Logger(), nil
}

// Component returns a child logger tagged with a component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func formatCaller(i interface{}) string {
	const maxFileSize = 18

	fname, ok := i.(string)
	if !ok || len(fname) == 0 {
		return ""
	}
	caller := filepath.Base(fname)
	file, line, found := strings.Cut(caller, ":")
	if !found {
		return caller
	}
	if len(file) > maxFileSize {
		file = file[:maxFileSize]
	}
	return fmt.Sprintf("[%-*s:%4s]", maxFileSize, file, line)
}
