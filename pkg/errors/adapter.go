// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package errors

import "fmt"

var (
	ErrAdapterClosed      = fmt.Errorf("adapter closed")
	ErrAdapterConfig      = func(m string) error { return NewAdapterError(nil, m) }
	ErrAdapterSpec        = func(m string) error { return NewAdapterError(nil, fmt.Sprintf("adapter spec: %s", m)) }
	ErrAdapterUnsupported = func(t string) error { return NewAdapterError(nil, fmt.Sprintf("unsupported adapter type: %q", t)) }
	ErrAdapterOpen        = func(e error, name string) error { return NewAdapterError(e, fmt.Sprintf("open %s failed", name)) }
)

type AdapterError struct {
	msg string
	err error
}

func NewAdapterError(e error, msg string) *AdapterError {
	return &AdapterError{msg: msg, err: e}
}

func (e *AdapterError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("adapter: %q - %v", e.msg, e.err)
	} else {
		return fmt.Sprintf("adapter: %q", e.msg)
	}
}

func (e *AdapterError) Unwrap() error {
	return e.err
}
