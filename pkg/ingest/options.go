// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"time"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/trace"
)

const (
	DefaultRetryCount      uint = 5
	DefaultRetryBackoff         = 100 * time.Millisecond
	DefaultRetryBackoffMax      = 5 * time.Second
)

type Option func(*Loop)

func WithBitrate(b can.Bitrate) Option {
	return func(l *Loop) { l.bitrate = b }
}

// WithIterations bounds Run to n iterations, 0 runs until cancelled.
func WithIterations(n uint64) Option {
	return func(l *Loop) { l.iterations = n }
}

// WithYield sets the function called between iterations to hand control
// back to the host scheduler.
func WithYield(fn func()) Option {
	return func(l *Loop) {
		if fn != nil {
			l.yield = fn
		}
	}
}

// WithIdle pauses Run for d after an iteration which emitted nothing.
func WithIdle(d time.Duration) Option {
	return func(l *Loop) { l.idle = d }
}

func WithInitPolicy(p InitPolicy) Option {
	return func(l *Loop) { l.policy = p }
}

// WithRetry configures PolicyRetry: count retries after the first
// attempt, the backoff doubling from backoff up to max.
func WithRetry(count uint, backoff time.Duration, max time.Duration) Option {
	return func(l *Loop) {
		l.retryCount = count
		l.retryBackoff = backoff
		l.retryBackoffMax = max
	}
}

func WithRecorder(r ...Recorder) Option {
	return func(l *Loop) { l.recorders = append(l.recorders, r...) }
}

func WithTrace(f trace.Filter) Option {
	return func(l *Loop) { l.trace = f }
}

// WithSleep replaces the context aware sleep used for backoff and idle
// pauses.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Loop) {
		if fn != nil {
			l.sleep = fn
		}
	}
}
