// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/pkg/command"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/capture"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/format"
)

type ChartCommand struct {
	command.Command

	title      string
	inputFile  string
	outputFile string
	text       bool
}

func NewChartCommand(name string) *ChartCommand {
	c := &ChartCommand{
		Command: command.NewCommand(name),
	}
	c.FlagSet().StringVar(&c.title, "title", "CAN frames", "chart title")
	c.FlagSet().StringVar(&c.inputFile, "input", "", "capture file (or formatted lines with -text)")
	c.FlagSet().StringVar(&c.outputFile, "output", "", "path to write generated chart (html)")
	c.FlagSet().BoolVar(&c.text, "text", false, "input holds formatted frame lines")
	return c
}

func (c ChartCommand) Name() string {
	return c.Command.Name
}

func (c ChartCommand) FlagSet() *flag.FlagSet {
	return c.Command.FlagSet
}

func (c *ChartCommand) Parse(args []string) error {
	err := c.FlagSet().Parse(args)
	if err != nil {
		return err
	}
	if len(c.inputFile) == 0 {
		return fmt.Errorf("no input file (use -input)")
	}
	if len(c.outputFile) == 0 {
		c.outputFile = strings.TrimSuffix(c.inputFile, path.Ext(c.inputFile)) + ".html"
	}
	return nil
}

func (c *ChartCommand) Run() error {
	var counts *orderedmap.OrderedMap[string, int]
	var err error
	if c.text {
		counts, err = countLines(c.inputFile)
	} else {
		counts, err = countCapture(c.inputFile)
	}
	if err != nil {
		return err
	}
	return c.generateChart(counts)
}

func add(counts *orderedmap.OrderedMap[string, int], id string) {
	n, _ := counts.Get(id)
	counts.Set(id, n+1)
}

// countCapture counts frames per identifier in order of first appearance.
func countCapture(file string) (*orderedmap.OrderedMap[string, int], error) {
	counts := orderedmap.NewOrderedMap[string, int]()
	records, err := capture.Stream{File: file}.ReadAll()
	if err != nil && len(records) == 0 {
		return nil, err
	}
	if err != nil {
		slog.Warn(fmt.Sprintf("Chart: %v", err))
	}
	for _, r := range records {
		id, _, _ := format.Fields(format.Format(r.Frame))
		add(counts, id)
	}
	return counts, nil
}

func countLines(file string) (*orderedmap.OrderedMap[string, int], error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	counts := orderedmap.NewOrderedMap[string, int]()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id, _, ok := format.Fields(scanner.Text()); ok {
			add(counts, strings.ToUpper(id))
		}
	}
	return counts, scanner.Err()
}

func (c *ChartCommand) generateChart(counts *orderedmap.OrderedMap[string, int]) error {
	data := make([]opts.BarData, 0, counts.Len())
	total := 0
	for _, n := range counts.AllFromFront() {
		data = append(data, opts.BarData{Value: n})
		total += n
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithAnimation(false),
		charts.WithTitleOpts(opts.Title{
			Title:    c.title,
			Left:     "center",
			Subtitle: fmt.Sprintf("%d frames, %d identifiers", total, counts.Len()),
		}),
		charts.WithLegendOpts(opts.Legend{Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frames"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "Identifier",
			NameLocation: "center",
			NameGap:      30,
		}),
	)
	bar.SetXAxis(slices.Collect(counts.Keys())).AddSeries("frames", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(true),
		}),
	)

	slog.Info(fmt.Sprintf("writing chart: %s", c.outputFile))
	f, err := os.Create(c.outputFile)
	if err != nil {
		return err
	}
	if err := bar.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
