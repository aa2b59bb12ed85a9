// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package socketcan receives frames from a Linux SocketCAN interface.
package socketcan

import (
	"fmt"
	"log/slog"

	brutella "github.com/brutella/can"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/internal/queue"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

const (
	flagEFF uint32 = 0x80000000
	flagRTR uint32 = 0x40000000
	flagERR uint32 = 0x20000000
)

type Controller struct {
	Interface string
	Buffer    int

	bus   *brutella.Bus
	queue *queue.Queue
	done  chan error
}

func New(iface string, buffer int) *Controller {
	return &Controller{Interface: iface, Buffer: buffer}
}

// Initialize opens the interface and starts receiving. The bitrate is a
// property of the link configuration and is only logged.
func (c *Controller) Initialize(bitrate can.Bitrate) error {
	if c.bus != nil {
		return nil
	}
	slog.Info(fmt.Sprintf("SocketCAN: Open: %s (bitrate %s configured by link)", c.Interface, bitrate))
	bus, err := brutella.NewBusForInterfaceWithName(c.Interface)
	if err != nil {
		return errors.ErrAdapterOpen(err, c.Interface)
	}
	c.bus = bus
	c.queue = queue.New(c.Buffer)
	c.done = make(chan error, 1)
	c.bus.Subscribe(c)
	go func() {
		c.done <- c.bus.ConnectAndPublish()
	}()
	return nil
}

// Handle is called by the bus goroutine for each received frame.
func (c *Controller) Handle(bf brutella.Frame) {
	f, ok := convert(bf)
	if !ok {
		return
	}
	if !c.queue.Offer(f) {
		slog.Debug(fmt.Sprintf("SocketCAN: drop frame %X", f.ID))
	}
}

func convert(bf brutella.Frame) (can.Frame, bool) {
	if bf.ID&(flagRTR|flagERR) != 0 {
		return can.Frame{}, false
	}
	extended := bf.ID&flagEFF != 0
	id := bf.ID &^ flagEFF
	n := int(bf.Length)
	if n > can.MaxDataLength {
		n = can.MaxDataLength
	}
	f, err := can.NewFrame(id, extended, bf.Data[:n])
	if err != nil {
		slog.Debug(fmt.Sprintf("SocketCAN: discard frame: %v", err))
		return can.Frame{}, false
	}
	return f, true
}

func (c *Controller) HasPendingFrame() bool {
	if c.queue == nil {
		return false
	}
	return c.queue.Pending()
}

func (c *Controller) ReceiveFrame() (can.Frame, bool) {
	if c.queue == nil {
		return can.Frame{}, false
	}
	return c.queue.Take()
}

func (c *Controller) Dropped() uint64 {
	if c.queue == nil {
		return 0
	}
	return c.queue.Dropped()
}

func (c *Controller) Close() error {
	if c.bus == nil {
		return nil
	}
	slog.Info(fmt.Sprintf("SocketCAN: Close: %s", c.Interface))
	err := c.bus.Disconnect()
	select {
	case e := <-c.done:
		slog.Debug(fmt.Sprintf("SocketCAN: receiver stopped: %v", e))
	default:
	}
	c.bus = nil
	return err
}
