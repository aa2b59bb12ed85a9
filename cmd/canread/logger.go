// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Indexed by the -logger option.
var levels = []slog.Level{slog.LevelDebug - 4, slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

var logLevel = new(slog.LevelVar)

// PlainLogHandler writes "LEVEL: message" lines, attributes are dropped.
type PlainLogHandler struct {
	mu    sync.Mutex
	out   io.Writer
	level slog.Leveler
}

func NewPlainLogHandler(out io.Writer, level slog.Leveler) *PlainLogHandler {
	return &PlainLogHandler{out: out, level: level}
}

func (h *PlainLogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *PlainLogHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s: %s\n", r.Level, r.Message)
	return err
}

func (h *PlainLogHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *PlainLogHandler) WithGroup(string) slog.Handler      { return h }

// NewLogger returns a logger writing to stderr, stdout carries the frame
// lines.
func NewLogger(level int) *slog.Logger {
	if level < 0 || level >= len(levels) {
		level = 3
	}
	logLevel.Set(levels[level])
	return slog.New(NewPlainLogHandler(os.Stderr, logLevel))
}
