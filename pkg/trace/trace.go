// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package trace selects received frames for debug logging.
package trace

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
)

const DefaultEnv = "CANREAD_TRACE"

type Filter struct {
	Wildcard bool
	IDs      map[uint32]bool
}

// GetTraceEnv builds a filter from an environment variable holding "*"
// or a comma separated identifier list ("0x7DF,0x100").
func GetTraceEnv(envName string) Filter {
	envName = strings.ToUpper(envName)
	return ParseFilter(os.Getenv(envName))
}

func ParseFilter(filter string) Filter {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return Filter{}
	}
	if filter == "*" {
		slog.Debug(fmt.Sprintf("    <wildcard> (all frames)"))
		return Filter{Wildcard: true}
	}

	f := Filter{IDs: make(map[uint32]bool)}
	for _, idStr := range strings.Split(filter, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(idStr), 0, 32)
		if err != nil || uint32(id) > can.MaxExtID {
			slog.Debug(fmt.Sprintf("    ignored: %q", idStr))
			continue
		}
		f.IDs[uint32(id)] = true
		slog.Debug(fmt.Sprintf("    %02x", id))
	}
	return f
}

func (f Filter) Enabled() bool {
	return f.Wildcard || len(f.IDs) > 0
}

func (f Filter) Match(id uint32) bool {
	if f.Wildcard {
		return true
	}
	return f.IDs[id]
}

// TraceRX logs a received frame when it matches the filter.
func (f Filter) TraceRX(frame can.Frame) {
	if !f.Match(frame.ID) {
		return
	}
	slog.Debug(fmt.Sprintf("RX %02x %d :%s", frame.ID, frame.Len(), payload(frame.Data)))
}

func payload(data []byte) string {
	var b strings.Builder
	for _, v := range data {
		fmt.Fprintf(&b, " %02x", v)
	}
	return b.String()
}
