// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/app/analyze"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/app/chart"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/app/read"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/pkg/command"
)

var cmds = []command.CommandRunner{
	command.NewHelpCommand("help"),
	read.NewReadCommand("read"),
	analyze.NewAnalyzeCommand("analyze"),
	chart.NewChartCommand("chart"),
}

var usage = `
CAN frame reader.

  Polls a CAN controller and writes one line per received frame:
    ID: <hex identifier> Data: <hex payload>

Usage:

	canread <command> [option]

	canread read -adapter "type=socketcan;interface=can0" -bitrate 500k
	canread read -adapter "type=serial;port=/dev/ttyACM0" -capture frames.cap
	canread analyze -input can.log -json history.json
	canread chart -input frames.cap

Adapters: sim, socketcan, serial, replay
Bitrates: %s

`

func printUsage() {
	command.PrintUsage(fmt.Sprintf(usage[1:], strings.Join(read.Bitrates(), " ")), cmds)
}

func main() {
	os.Exit(main_())
}

func main_() int {
	flag.Usage = printUsage
	if len(os.Args) == 1 {
		printUsage()
		return 1
	}
	setup := func(cmd command.CommandRunner) {
		slog.SetDefault(NewLogger(cmd.LogLevel()))
	}
	if err := command.DispatchCommand(os.Args[1], os.Args[2:], cmds, setup); err != nil {
		slog.Error(err.Error())
		return 2
	}

	return 0
}
