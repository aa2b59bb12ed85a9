// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package replay plays back a capture file as a controller.
package replay

import (
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/capture"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

// Controller yields the frames of a capture stream in file order, one
// per ReceiveFrame, without reproducing their original timing.
type Controller struct {
	Stream capture.Stream

	next    func() (capture.Record, bool)
	stop    func()
	pending *can.Frame
	count   int
	closed  bool
}

func New(file string) *Controller {
	return &Controller{Stream: capture.Stream{File: file}}
}

// Initialize checks that the capture file can be read and starts the
// playback.
func (c *Controller) Initialize(bitrate can.Bitrate) error {
	if c.closed {
		return errors.ErrAdapterClosed
	}
	if c.next != nil {
		return nil
	}
	if c.Stream.File == "" {
		return errors.ErrAdapterConfig("replay file not specified")
	}
	f, err := os.Open(c.Stream.File)
	if err != nil {
		return errors.ErrAdapterOpen(err, c.Stream.File)
	}
	fi, err := f.Stat()
	f.Close()
	if err != nil {
		return errors.ErrAdapterOpen(err, c.Stream.File)
	}
	if fi.IsDir() {
		return errors.ErrAdapterConfig(fmt.Sprintf("replay file %s is a directory", c.Stream.File))
	}
	slog.Info(fmt.Sprintf("Replay: Open: %s (recorded bitrate assumed %s)", c.Stream.File, bitrate))
	c.next, c.stop = iter.Pull(c.Stream.Frames())
	return nil
}

func (c *Controller) HasPendingFrame() bool {
	if c.pending != nil {
		return true
	}
	if c.next == nil {
		return false
	}
	r, ok := c.next()
	if !ok {
		return false
	}
	c.pending = &r.Frame
	return true
}

func (c *Controller) ReceiveFrame() (can.Frame, bool) {
	if c.pending == nil && !c.HasPendingFrame() {
		return can.Frame{}, false
	}
	f := *c.pending
	c.pending = nil
	c.count++
	return f, true
}

// Replayed is the number of frames handed out so far.
func (c *Controller) Replayed() int {
	return c.count
}

func (c *Controller) Close() error {
	c.closed = true
	c.next = nil
	c.pending = nil
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	return nil
}
