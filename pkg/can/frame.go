// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package can holds the received frame model and the supported bitrates.
package can

import (
	"slices"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

const (
	MaxStdID      uint32 = 0x7FF
	MaxExtID      uint32 = 0x1FFFFFFF
	MaxDataLength int    = 8
)

// Frame is one received classical CAN message. Values are built by
// NewFrame and not modified afterwards.
type Frame struct {
	ID       uint32
	Extended bool
	Data     []byte
}

// NewFrame validates and returns a frame holding a copy of data.
func NewFrame(id uint32, extended bool, data []byte) (Frame, error) {
	f := Frame{
		ID:       id,
		Extended: extended,
		Data:     slices.Clone(data),
	}
	if f.Data == nil {
		f.Data = []byte{}
	}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// MustFrame builds a frame and panics if it is invalid. Identifiers above
// the standard range are marked extended.
func MustFrame(id uint32, data []byte) Frame {
	f, err := NewFrame(id, id > MaxStdID, data)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Frame) Len() int {
	return len(f.Data)
}

func (f Frame) Validate() error {
	if len(f.Data) > MaxDataLength {
		return errors.ErrInvalidLength
	}
	if f.Extended {
		if f.ID > MaxExtID {
			return errors.ErrInvalidID
		}
	} else if f.ID > MaxStdID {
		return errors.ErrInvalidID
	}
	return nil
}

func (f Frame) Equal(o Frame) bool {
	return f.ID == o.ID && f.Extended == o.Extended && slices.Equal(f.Data, o.Data)
}
