// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package ingest polls a CAN controller and writes one text line per
// received frame.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/format"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/trace"
)

const (
	InitOkLine   = "CAN Init ok\n"
	InitFailLine = "Can't init CAN\n"
	BannerLine   = "CAN Read - Test receiving of CAN Bus message\n"
)

type State uint8

const (
	Uninitialized State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Running:
		return "Running"
	default:
		return "unknown"
	}
}

// Recorder receives each emitted frame together with its formatted line.
// The line buffer is reused after Record returns.
type Recorder interface {
	Record(frame can.Frame, line []byte) error
}

type Stats struct {
	Iterations     uint64
	Frames         uint64
	Races          uint64
	RecorderErrors uint64
	OutputErrors   uint64
	InitAttempts   uint
}

type Loop struct {
	controller adapter.Controller
	out        io.Writer

	bitrate         can.Bitrate
	policy          InitPolicy
	retryCount      uint
	retryBackoff    time.Duration
	retryBackoffMax time.Duration
	iterations      uint64
	idle            time.Duration
	yield           func()
	sleep           func(context.Context, time.Duration) error
	recorders       []Recorder
	trace           trace.Filter

	state     State
	setupDone bool
	stats     Stats
	line      []byte
}

func New(controller adapter.Controller, out io.Writer, opts ...Option) *Loop {
	l := &Loop{
		controller:      controller,
		out:             out,
		bitrate:         can.DefaultBitrate,
		policy:          PolicyInert,
		retryCount:      DefaultRetryCount,
		retryBackoff:    DefaultRetryBackoff,
		retryBackoffMax: DefaultRetryBackoffMax,
		yield:           runtime.Gosched,
		sleep:           sleep,
		line:            make([]byte, 0, 64),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (l *Loop) State() State {
	return l.state
}

func (l *Loop) Stats() Stats {
	return l.stats
}

// Setup initializes the controller according to the init policy. On
// success the loop is Running and the startup lines are written. A failed
// initialization is only returned as an error under PolicyExit. The
// controller is initialized at most once: after a failed Setup the loop
// stays inert and further calls return ErrNotRunning.
func (l *Loop) Setup(ctx context.Context) error {
	if l.controller == nil {
		return errors.ErrNoController
	}
	if l.setupDone {
		if l.state == Running {
			return nil
		}
		return errors.ErrNotRunning
	}
	if !l.bitrate.Valid() {
		return errors.ErrInvalidBitrate(l.bitrate.String())
	}
	l.setupDone = true

	attempts := uint(1)
	if l.policy == PolicyRetry {
		attempts += l.retryCount
	}
	backoff := l.retryBackoff
	var err error
	for attempt := uint(1); attempt <= attempts; attempt++ {
		l.stats.InitAttempts++
		slog.Debug(fmt.Sprintf("Initialize: bitrate=%s attempt=%d/%d", l.bitrate, attempt, attempts))
		err = l.controller.Initialize(l.bitrate)
		if err == nil {
			l.write([]byte(InitOkLine))
			l.state = Running
			l.write([]byte(BannerLine))
			slog.Info(fmt.Sprintf("Loop: Running (bitrate=%s)", l.bitrate))
			return nil
		}
		l.write([]byte(InitFailLine))
		slog.Warn(fmt.Sprintf("Initialize failed: %v", err))
		if attempt == attempts {
			break
		}
		slog.Debug(fmt.Sprintf("Initialize: retry in %v", backoff))
		if e := l.sleep(ctx, backoff); e != nil {
			return e
		}
		backoff *= 2
		if l.retryBackoffMax > 0 && backoff > l.retryBackoffMax {
			backoff = l.retryBackoffMax
		}
	}

	if l.policy == PolicyRetry && attempts > 1 {
		err = errors.ErrInitRetryLimit(attempts, err)
	} else {
		err = errors.ErrInitFailed(l.bitrate.String(), err)
	}
	if l.policy == PolicyExit {
		return err
	}
	slog.Error(fmt.Sprintf("Loop: inert: %v", err))
	return nil
}

// Step runs one iteration and reports whether a line was emitted. The
// controller is only polled while Running, and ReceiveFrame is only
// called after HasPendingFrame reported true. A frame which fails
// validation is a broken controller and panics.
func (l *Loop) Step() bool {
	l.stats.Iterations++
	if l.state != Running {
		return false
	}
	if !l.controller.HasPendingFrame() {
		return false
	}
	f, ok := l.controller.ReceiveFrame()
	if !ok {
		l.stats.Races++
		return false
	}
	if err := f.Validate(); err != nil {
		panic(errors.NewFrameError(err, fmt.Sprintf("controller delivered invalid frame (id=%X len=%d)", f.ID, f.Len())))
	}

	l.line = format.AppendFormat(l.line[:0], f)
	l.write(l.line)
	l.stats.Frames++
	l.trace.TraceRX(f)
	for _, r := range l.recorders {
		if err := r.Record(f, l.line); err != nil {
			l.stats.RecorderErrors++
			slog.Error(fmt.Sprintf("Recorder failed: %v", err))
		}
	}
	return true
}

// Run calls Step until ctx is done or the iteration bound is reached.
// Cancellation is checked once at the top of each iteration.
func (l *Loop) Run(ctx context.Context) error {
	if l.controller == nil {
		return errors.ErrNoController
	}
	if l.state != Running {
		slog.Debug("Loop: not running, iterations are no-ops")
	}
	for n := uint64(0); l.iterations == 0 || n < l.iterations; n++ {
		if ctx.Err() != nil {
			break
		}
		if !l.Step() && l.idle > 0 {
			if l.sleep(ctx, l.idle) != nil {
				break
			}
		}
		l.yield()
	}
	slog.Debug(fmt.Sprintf("Loop: stop: iterations=%d frames=%d races=%d", l.stats.Iterations, l.stats.Frames, l.stats.Races))
	adapter.LogDropped(l.controller)
	return nil
}

func (l *Loop) write(b []byte) {
	if l.out == nil {
		return
	}
	if _, err := l.out.Write(b); err != nil {
		l.stats.OutputErrors++
		slog.Error(fmt.Sprintf("Output write failed: %v", err))
	}
}
