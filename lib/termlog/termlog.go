// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

// Package termlog constructs the structured loggers fusekit binaries
// use for diagnostics. When stderr is a terminal, output is the
// human-readable text format; when it is piped or redirected (scripts,
// service managers, CI) it switches to JSON for machine ingestion.
package termlog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// New returns a logger writing to stderr at the given level, choosing
// the handler format from whether stderr is a terminal.
func New(level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to
// its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
