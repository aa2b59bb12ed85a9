// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package adapter defines the controller contract used by the ingestion
// loop and selects an implementation from an adapter spec string.
package adapter

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

// Controller is the CAN controller driver as seen by the ingestion loop.
// HasPendingFrame and ReceiveFrame never block.
type Controller interface {
	Initialize(bitrate can.Bitrate) error
	HasPendingFrame() bool
	ReceiveFrame() (can.Frame, bool)
}

const DefaultBuffer = 64

var specKeys = []string{"type", "interface", "port", "baud", "file", "buffer"}

// Spec is a decoded adapter spec string.
type Spec map[string]string

// DecodeSpec decodes a "type=socketcan;interface=can0" style string.
// Separators are ';' or ' ', the type key is required and unknown keys
// are rejected.
func DecodeSpec(s string) (Spec, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.ErrAdapterSpec("spec is empty")
	}
	spec := Spec{}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ' '
	})
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, errors.ErrAdapterSpec(fmt.Sprintf("malformed parameter: %q", part))
		}
		k := strings.TrimSpace(kv[0])
		if !slices.Contains(specKeys, k) {
			return nil, errors.ErrAdapterSpec(fmt.Sprintf("unexpected parameter: %q", k))
		}
		spec[k] = strings.TrimSpace(kv[1])
	}
	if spec.Type() == "" {
		return nil, errors.ErrAdapterSpec("missing required parameter: type")
	}
	return spec, nil
}

func (s Spec) Type() string {
	return s["type"]
}

func (s Spec) Get(key string, def string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return def
}

func (s Spec) Int(key string, def int) (int, error) {
	v, ok := s[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errors.ErrAdapterSpec(fmt.Sprintf("bad %s value: %q", key, v))
	}
	return n, nil
}

// Buffer is the receive buffer depth of adapters fed by a goroutine.
func (s Spec) Buffer() (int, error) {
	return s.Int("buffer", DefaultBuffer)
}

func (s Spec) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Index(specKeys, a) - slices.Index(specKeys, b)
	})
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%s=%s", k, s[k])
	}
	return sb.String()
}

// DropCounter is implemented by adapters that discard frames when their
// receive buffer is full.
type DropCounter interface {
	Dropped() uint64
}

// LogDropped reports frames an adapter discarded, if it counts them.
func LogDropped(c Controller) {
	if dc, ok := c.(DropCounter); ok {
		if n := dc.Dropped(); n > 0 {
			slog.Warn(fmt.Sprintf("Adapter: dropped %d frames (receive buffer full)", n))
		}
	}
}
