// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package analyze

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/pkg/command"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/serial"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/format"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/history"
)

type AnalyzeCommand struct {
	command.Command

	Stdin  io.Reader
	Stdout io.Writer
	Now    func() time.Time

	inputFile string
	port      string
	baud      int
	duration  time.Duration
	maxValues int
	jsonFile  string
	cborFile  string
	pin       string
	ignore    string
}

func NewAnalyzeCommand(name string) *AnalyzeCommand {
	c := &AnalyzeCommand{
		Command: command.NewCommand(name),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Now:     time.Now,
	}
	c.FlagSet().StringVar(&c.inputFile, "input", "-", "formatted frame lines, - for stdin")
	c.FlagSet().StringVar(&c.port, "port", "", "read from this serial port instead of -input")
	c.FlagSet().IntVar(&c.baud, "baud", serial.DefaultBaud, "serial baud rate")
	c.FlagSet().DurationVar(&c.duration, "duration", 0, "stop reading the serial port after this time (0 = until interrupted)")
	c.FlagSet().IntVar(&c.maxValues, "max", 0, "values kept per identifier (0 = all)")
	c.FlagSet().StringVar(&c.pin, "pin", "", "comma separated identifiers listed first")
	c.FlagSet().StringVar(&c.ignore, "ignore", "", "comma separated identifiers listed last")
	c.FlagSet().StringVar(&c.jsonFile, "json", "", "write the history as JSON")
	c.FlagSet().StringVar(&c.cborFile, "cbor", "", "write the history as CBOR")
	return c
}

func (c AnalyzeCommand) Name() string {
	return c.Command.Name
}

func (c AnalyzeCommand) FlagSet() *flag.FlagSet {
	return c.Command.FlagSet
}

func (c *AnalyzeCommand) Parse(args []string) error {
	return c.FlagSet().Parse(args)
}

func (c *AnalyzeCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if c.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.duration)
		defer cancel()
	}

	h := history.New()
	h.MaxValues = c.maxValues
	var err error
	if c.port != "" {
		err = c.readSerial(ctx, h)
	} else {
		err = c.readInput(h)
	}
	if err != nil {
		return err
	}
	for _, id := range splitIDs(c.pin) {
		h.Pin(id)
	}
	for _, id := range splitIDs(c.ignore) {
		h.Ignore(id)
	}

	if err := c.summary(h); err != nil {
		return err
	}
	if c.jsonFile != "" {
		if err := writeFile(c.jsonFile, h.WriteJSON); err != nil {
			return err
		}
	}
	if c.cborFile != "" {
		if err := writeFile(c.cborFile, h.WriteCBOR); err != nil {
			return err
		}
	}
	return nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *AnalyzeCommand) readInput(h *history.History) error {
	r := c.Stdin
	if c.inputFile != "-" && c.inputFile != "" {
		f, err := os.Open(c.inputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	scanner := bufio.NewScanner(r)
	lines, skipped := 0, 0
	for scanner.Scan() {
		lines++
		line := scanner.Text()
		if !format.IsFrameLine(line) {
			skipped++
			continue
		}
		if err := h.MergeLine(line, c.Now()); err != nil {
			slog.Debug(fmt.Sprintf("Analyze: %v", err))
			skipped++
		}
	}
	slog.Info(fmt.Sprintf("Analyze: %d lines, %d skipped, %d identifiers", lines, skipped, h.Len()))
	return scanner.Err()
}

func (c *AnalyzeCommand) readSerial(ctx context.Context, h *history.History) error {
	ctrl := serial.New(c.port, c.baud, 256)
	if err := ctrl.Initialize(can.DefaultBitrate); err != nil {
		return err
	}
	defer ctrl.Close()
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for {
		for ctrl.HasPendingFrame() {
			if f, ok := ctrl.ReceiveFrame(); ok {
				h.MergeFrame(f, c.Now())
			}
		}
		select {
		case <-ctx.Done():
			slog.Info(fmt.Sprintf("Analyze: %d identifiers, %d frames dropped", h.Len(), ctrl.Dropped()))
			return nil
		case <-t.C:
		}
	}
}

func (c *AnalyzeCommand) summary(h *history.History) error {
	w := tabwriter.NewWriter(c.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOUNT\tDATA\tFLAGS")
	for _, m := range h.Sorted() {
		flags := ""
		if m.Pinned {
			flags += "pinned "
		}
		if m.Ignored {
			flags += "ignored"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", m.ID, len(m.Values), m.Last().Data, strings.TrimSpace(flags))
	}
	return w.Flush()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	slog.Info(fmt.Sprintf("Analyze: wrote %s", path))
	return f.Close()
}
