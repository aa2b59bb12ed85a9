// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package read

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/pkg/command"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/pkg/command/util"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/capture"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/ingest"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/publish"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/trace"
)

type ReadCommand struct {
	command.Command

	Stdout io.Writer
	Config Config

	configFile string
	saveConfig string
	flags      Config
}

func NewReadCommand(name string) *ReadCommand {
	c := &ReadCommand{
		Command: command.NewCommand(name),
		Stdout:  os.Stdout,
		flags:   DefaultConfig(),
	}
	fs := c.FlagSet()
	fs.StringVar(&c.configFile, "config", "", "config file (yaml), default from $"+ConfigEnv)
	fs.StringVar(&c.saveConfig, "save", "", "write the effective config to this file and exit")
	fs.StringVar(&c.flags.Adapter, "adapter", c.flags.Adapter, "adapter spec (type=sim|socketcan|serial|replay;...)")
	fs.Var(&c.flags.Bitrate, "bitrate", "CAN bitrate")
	fs.Var(&c.flags.Init.Policy, "policy", "init failure policy (inert|exit|retry)")
	fs.UintVar(&c.flags.Init.Retry, "retry", c.flags.Init.Retry, "init retries (policy retry)")
	fs.DurationVar(&c.flags.Init.Backoff, "backoff", c.flags.Init.Backoff, "initial retry backoff (policy retry)")
	fs.Uint64Var(&c.flags.Loop.Iterations, "iterations", 0, "stop after this many iterations (0 = until interrupted)")
	fs.DurationVar(&c.flags.Loop.Idle, "idle", c.flags.Loop.Idle, "pause after an iteration without frames")
	fs.StringVar(&c.flags.Output.File, "output", "", "also write lines to this (rotated) file")
	fs.StringVar(&c.flags.Capture, "capture", "", "append received frames to this capture file")
	fs.StringVar(&c.flags.Redis.Url, "redis", "", "publish received frames to this Redis URL")
	return c
}

func (c ReadCommand) Name() string {
	return c.Command.Name
}

func (c ReadCommand) FlagSet() *flag.FlagSet {
	return c.Command.FlagSet
}

func (c *ReadCommand) flagSpecified(name string) (found bool) {
	c.FlagSet().Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return
}

func (c *ReadCommand) Parse(args []string) error {
	return c.FlagSet().Parse(args)
}

// Configure loads the config file and applies the command line flags
// over it.
func (c *ReadCommand) Configure() error {
	cfg, err := LoadConfig(c.configFile)
	if err != nil {
		return err
	}
	c.Config = c.merge(cfg)
	return nil
}

// merge applies the flags given on the command line over cfg.
func (c *ReadCommand) merge(cfg Config) Config {
	set := func(name string, apply func()) {
		if c.flagSpecified(name) {
			apply()
		}
	}
	set("adapter", func() { cfg.Adapter = c.flags.Adapter })
	set("bitrate", func() { cfg.Bitrate = c.flags.Bitrate })
	set("policy", func() { cfg.Init.Policy = c.flags.Init.Policy })
	set("retry", func() { cfg.Init.Retry = c.flags.Init.Retry })
	set("backoff", func() { cfg.Init.Backoff = c.flags.Init.Backoff })
	set("iterations", func() { cfg.Loop.Iterations = c.flags.Loop.Iterations })
	set("idle", func() { cfg.Loop.Idle = c.flags.Loop.Idle })
	set("output", func() { cfg.Output.File = c.flags.Output.File })
	set("capture", func() { cfg.Capture = c.flags.Capture })
	set("redis", func() { cfg.Redis.Url = c.flags.Redis.Url })
	return cfg
}

func (c *ReadCommand) Run() error {
	if c.saveConfig != "" {
		slog.Info(fmt.Sprintf("Config: write %s", c.saveConfig))
		return util.WriteYaml(c.Config, c.saveConfig)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx)
}

func (c *ReadCommand) run(ctx context.Context) error {
	cfg := c.Config
	ctrl, closer, err := adapter.New(cfg.Adapter)
	if err != nil {
		return err
	}
	defer closer.Close()

	out := c.Stdout
	if cfg.Output.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Output.File,
			MaxSize:    cfg.Output.MaxSizeMb,
			MaxBackups: cfg.Output.MaxBackups,
			MaxAge:     cfg.Output.MaxAgeDays,
			Compress:   cfg.Output.Compress,
		}
		defer lj.Close()
		out = io.MultiWriter(out, lj)
	}

	opts := cfg.Options()
	if f := trace.GetTraceEnv(trace.DefaultEnv); f.Enabled() {
		opts = append(opts, ingest.WithTrace(f))
	}
	if cfg.Capture != "" {
		w, err := capture.Create(cfg.Capture)
		if err != nil {
			return err
		}
		defer w.Close()
		opts = append(opts, ingest.WithRecorder(w))
	}
	if cfg.Redis.Url != "" {
		p := &publish.RedisPublisher{Url: cfg.Redis.Url, Key: cfg.Redis.Key}
		if err := p.Connect(); err != nil {
			return err
		}
		defer p.Disconnect()
		opts = append(opts, ingest.WithRecorder(publish.Recorder{Publisher: p}))
	}

	loop := ingest.New(ctrl, out, opts...)
	start := time.Now()
	if err := loop.Setup(ctx); err != nil {
		return err
	}
	if err := loop.Run(ctx); err != nil {
		return err
	}
	logStats(loop.Stats(), time.Since(start))
	return nil
}

func logStats(s ingest.Stats, d time.Duration) {
	slog.Info(fmt.Sprintf("Read: %d frames in %d iterations (%v)", s.Frames, s.Iterations, d.Round(time.Millisecond)))
	if s.Races > 0 {
		slog.Info(fmt.Sprintf("Read: %d pending frames not delivered", s.Races))
	}
	if s.RecorderErrors > 0 {
		slog.Warn(fmt.Sprintf("Read: %d recorder errors", s.RecorderErrors))
	}
	if s.OutputErrors > 0 {
		slog.Warn(fmt.Sprintf("Read: %d output errors", s.OutputErrors))
	}
}

// Bitrates lists the supported bitrate names for usage text.
func Bitrates() []string {
	var names []string
	for _, b := range can.Bitrates() {
		names = append(names, b.String())
	}
	return names
}
