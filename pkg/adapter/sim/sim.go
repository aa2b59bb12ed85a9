// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package sim provides an in-memory controller for tests and scripted runs.
package sim

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/format"
)

const (
	CallInitialize = "initialize"
	CallPending    = "pending"
	CallReceive    = "receive"
)

// Controller queues frames pushed by the test and hands them out in
// order. Every call is appended to Calls.
type Controller struct {
	Stack []can.Frame
	Trace []can.Frame
	Calls []string

	// FailInit is the number of Initialize calls which fail, negative
	// values fail every call.
	FailInit int
	// Race makes the next ReceiveFrame following a positive
	// HasPendingFrame report no frame. It clears after firing.
	Race bool

	Bitrate     can.Bitrate
	initialized bool
	armed       bool
}

func (s *Controller) Initialize(bitrate can.Bitrate) error {
	s.Calls = append(s.Calls, CallInitialize)
	if !bitrate.Valid() {
		return errors.ErrInvalidBitrate(bitrate.String())
	}
	if s.FailInit < 0 || s.InitializeCalls() <= s.FailInit {
		return errors.NewInitError(nil, "controller did not acknowledge configuration")
	}
	s.Bitrate = bitrate
	s.initialized = true
	return nil
}

func (s *Controller) HasPendingFrame() bool {
	s.Calls = append(s.Calls, CallPending)
	pending := s.initialized && len(s.Stack) > 0
	if pending && s.Race {
		s.armed = true
	}
	return pending
}

func (s *Controller) ReceiveFrame() (can.Frame, bool) {
	s.Calls = append(s.Calls, CallReceive)
	if s.armed {
		s.armed = false
		s.Race = false
		return can.Frame{}, false
	}
	if !s.initialized || len(s.Stack) == 0 {
		return can.Frame{}, false
	}
	f := s.Stack[0]
	s.Stack = s.Stack[1:]
	s.Trace = append(s.Trace, f)
	return f, true
}

// Push queues frames, each holding its own copy of the payload.
func (s *Controller) Push(frames ...can.Frame) error {
	for _, f := range frames {
		c, err := can.NewFrame(f.ID, f.Extended, f.Data)
		if err != nil {
			return err
		}
		s.Stack = append(s.Stack, c)
	}
	return nil
}

// Load queues the frames of a formatted text stream. Other lines are
// skipped.
func (s *Controller) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !format.IsFrameLine(line) {
			slog.Debug(fmt.Sprintf("Sim: skip line: %q", line))
			continue
		}
		f, err := format.Parse(line)
		if err != nil {
			return err
		}
		s.Stack = append(s.Stack, f)
		n++
	}
	slog.Debug(fmt.Sprintf("Sim: loaded %d frames", n))
	return scanner.Err()
}

func (s *Controller) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.ErrAdapterOpen(err, path)
	}
	defer f.Close()
	return s.Load(f)
}

func (s *Controller) count(call string) int {
	n := 0
	for _, c := range s.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (s *Controller) InitializeCalls() int { return s.count(CallInitialize) }
func (s *Controller) PendingCalls() int    { return s.count(CallPending) }
func (s *Controller) ReceiveCalls() int    { return s.count(CallReceive) }

func (s *Controller) Reset() {
	s.Stack = []can.Frame{}
	s.Trace = []can.Frame{}
	s.Calls = []string{}
}
