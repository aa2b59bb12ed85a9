// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package errors

import "fmt"

var (
	ErrCaptureClosed     = fmt.Errorf("capture closed")
	ErrCaptureIdentifier = func(id string) error {
		return NewCaptureError(nil, fmt.Sprintf("unexpected file identifier: %q", id))
	}
	ErrCaptureTruncated = func(got, want uint32) error {
		return NewCaptureError(nil, fmt.Sprintf("incomplete flatbuffer, read len %d (expected %d)", got, want))
	}
	ErrCaptureRecordSize = func(size, max uint32) error {
		return NewCaptureError(nil, fmt.Sprintf("record size %d exceeds %d", size, max))
	}
	ErrCaptureCorrupt = func(m string) error {
		return NewCaptureError(nil, fmt.Sprintf("corrupt record: %s", m))
	}
)

type CaptureError struct {
	msg string
	err error
}

func NewCaptureError(e error, msg string) *CaptureError {
	return &CaptureError{msg: msg, err: e}
}

func (e *CaptureError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("capture: %q - %v", e.msg, e.err)
	} else {
		return fmt.Sprintf("capture: %q", e.msg)
	}
}
