// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package errors

import "fmt"

var (
	ErrInvalidID      = fmt.Errorf("invalid identifier")
	ErrInvalidLength  = fmt.Errorf("invalid data length")
	ErrInvalidBitrate = func(b string) error { return NewFrameError(nil, fmt.Sprintf("unsupported bitrate: %q", b)) }
	ErrMalformedLine  = func(m string) error { return NewFrameError(nil, m) }
)

type FrameError struct {
	msg string
	err error
}

func NewFrameError(e error, msg string) *FrameError {
	return &FrameError{msg: msg, err: e}
}

func (e *FrameError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("frame: %q - %v", e.msg, e.err)
	} else {
		return fmt.Sprintf("frame: %q", e.msg)
	}
}

func (e *FrameError) Unwrap() error {
	return e.err
}
