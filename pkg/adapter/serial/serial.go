// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package serial receives frames from the text stream written by a CAN
// reader board over a serial link.
package serial

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	goserial "go.bug.st/serial"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/internal/queue"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/format"
)

const DefaultBaud = 115200

type Controller struct {
	Port   string
	Baud   int
	Buffer int

	port  goserial.Port
	queue *queue.Queue
	done  chan struct{}
}

func New(port string, baud int, buffer int) *Controller {
	return &Controller{Port: port, Baud: baud, Buffer: buffer}
}

// Ports lists the serial ports present on this host.
func Ports() ([]string, error) {
	return goserial.GetPortsList()
}

// Initialize opens the port and starts the line reader. The CAN bitrate
// is configured on the board.
func (c *Controller) Initialize(bitrate can.Bitrate) error {
	if c.port != nil {
		return nil
	}
	if c.Port == "" {
		return errors.ErrAdapterConfig("serial port not specified")
	}
	if c.Baud == 0 {
		c.Baud = DefaultBaud
	}
	slog.Info(fmt.Sprintf("Serial: Open: %s (baud %d, bitrate %s configured by board)", c.Port, c.Baud, bitrate))
	port, err := goserial.Open(c.Port, &goserial.Mode{BaudRate: c.Baud})
	if err != nil {
		return errors.ErrAdapterOpen(err, c.Port)
	}
	c.port = port
	c.start(port)
	return nil
}

func (c *Controller) start(r io.Reader) {
	c.queue = queue.New(c.Buffer)
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		if err := ReadLines(r, c.queue.Offer); err != nil {
			slog.Warn(fmt.Sprintf("Serial: read stopped: %v", err))
		}
	}()
}

// ReadLines parses frame lines from r until EOF and passes each frame to
// emit. Status lines are logged and skipped, malformed frame lines are
// logged and dropped.
func ReadLines(r io.Reader, emit func(can.Frame) bool) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			handleLine(line, emit)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func handleLine(line string, emit func(can.Frame) bool) {
	line = strings.TrimRight(line, "\r\n")
	if !format.IsFrameLine(line) {
		if strings.HasPrefix(line, "Can't init") {
			slog.Warn(fmt.Sprintf("Serial: board reported: %s", line))
		} else {
			slog.Debug(fmt.Sprintf("Serial: status: %s", line))
		}
		return
	}
	f, err := format.Parse(line)
	if err != nil {
		slog.Debug(fmt.Sprintf("Serial: discard line: %v", err))
		return
	}
	if !emit(f) {
		slog.Debug(fmt.Sprintf("Serial: drop frame %X", f.ID))
	}
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
	if c.port == nil {
		return nil
	}
	slog.Info(fmt.Sprintf("Serial: Close: %s", c.Port))
	err := c.port.Close()
	<-c.done
	c.port = nil
	return err
}
