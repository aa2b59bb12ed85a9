// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package errors

import "fmt"

var (
	ErrNotRunning   = fmt.Errorf("loop not running")
	ErrNoController = fmt.Errorf("no controller")
	ErrInitPolicy   = func(p string) error { return NewInitError(nil, fmt.Sprintf("unknown init policy: %q", p)) }
	ErrInitFailed   = func(bitrate string, e error) error {
		return NewInitError(e, fmt.Sprintf("initialize at %s failed", bitrate))
	}
	ErrInitRetryLimit = func(n uint, e error) error {
		return NewInitError(e, fmt.Sprintf("initialize failed after %d attempts", n))
	}
)

// InitError reports that the controller did not acknowledge its
// configuration. The loop stays uninitialized after one.
type InitError struct {
	msg string
	err error
}

func NewInitError(e error, msg string) *InitError {
	return &InitError{msg: msg, err: e}
}

func (e *InitError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("init: %q - %v", e.msg, e.err)
	} else {
		return fmt.Sprintf("init: %q", e.msg)
	}
}

func (e *InitError) Unwrap() error {
	return e.err
}
