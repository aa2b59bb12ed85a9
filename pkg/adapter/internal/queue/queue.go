// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package queue

import (
	"sync/atomic"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
)

// Queue is a bounded frame buffer with one producer goroutine and one
// consumer. When full, the newest frame is dropped and counted.
type Queue struct {
	ch      chan can.Frame
	dropped atomic.Uint64
}

func New(depth int) *Queue {
	if depth < 1 {
		depth = 1
	}
	return &Queue{ch: make(chan can.Frame, depth)}
}

// Offer adds a frame without blocking. It reports false when the frame
// was dropped.
func (q *Queue) Offer(f can.Frame) bool {
	select {
	case q.ch <- f:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Pending is only reliable for the single consumer: a true result
// guarantees the next Take succeeds.
func (q *Queue) Pending() bool {
	return len(q.ch) > 0
}

func (q *Queue) Take() (can.Frame, bool) {
	select {
	case f := <-q.ch:
		return f, true
	default:
		return can.Frame{}, false
	}
}

func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

func (q *Queue) Len() int {
	return len(q.ch)
}
