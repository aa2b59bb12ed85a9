// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package errors

import "fmt"

var (
	ErrPublishNotConnected     = fmt.Errorf("publisher not connected")
	ErrPublishRespIncomplete   = fmt.Errorf("response incomplete")
	ErrPublishEnvelopeMismatch = func(id string) error {
		return NewPublishError(nil, fmt.Sprintf("unexpected envelope identifier: %q", id))
	}
	ErrPublishFailed = func(e error) error { return NewPublishError(e, "publish failed") }
)

type PublishError struct {
	msg string
	err error
}

func NewPublishError(e error, msg string) *PublishError {
	return &PublishError{msg: msg, err: e}
}

func (e *PublishError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("publish: %q - %v", e.msg, e.err)
	} else {
		return fmt.Sprintf("publish: %q", e.msg)
	}
}

func (e *PublishError) Unwrap() error {
	return e.err
}
