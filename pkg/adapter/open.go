// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/replay"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/serial"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/sim"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/socketcan"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the controller selected by an adapter spec string. The
// returned closer releases the adapter and is never nil.
func New(s string) (Controller, io.Closer, error) {
	spec, err := DecodeSpec(s)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug(fmt.Sprintf("Adapter: %s", spec))
	buffer, err := spec.Buffer()
	if err != nil {
		return nil, nil, err
	}

	switch spec.Type() {
	case "sim":
		c := &sim.Controller{}
		if file := spec.Get("file", ""); file != "" {
			if err := c.LoadFile(file); err != nil {
				return nil, nil, err
			}
		}
		return c, nopCloser{}, nil
	case "socketcan":
		c := socketcan.New(spec.Get("interface", "can0"), buffer)
		return c, c, nil
	case "serial":
		port := spec.Get("port", "")
		if port == "" {
			return nil, nil, errors.ErrAdapterConfig("serial adapter requires port")
		}
		baud, err := spec.Int("baud", serial.DefaultBaud)
		if err != nil {
			return nil, nil, err
		}
		c := serial.New(port, baud, buffer)
		return c, c, nil
	case "replay":
		file := spec.Get("file", "")
		if file == "" {
			return nil, nil, errors.ErrAdapterConfig("replay adapter requires file")
		}
		c := replay.New(file)
		return c, c, nil
	default:
		return nil, nil, errors.ErrAdapterUnsupported(spec.Type())
	}
}
