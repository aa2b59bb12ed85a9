// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"fmt"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

// StubPublisher keeps encoded envelopes in memory.
type StubPublisher struct {
	Trace     [][]byte
	connected bool
}

func (s *StubPublisher) Connect() error {
	s.connected = true
	return nil
}

func (s *StubPublisher) Disconnect() {
	s.connected = false
}

func (s *StubPublisher) Publish(f can.Frame, line string) error {
	if !s.connected {
		return errors.ErrPublishNotConnected
	}
	b, err := EncodeEnvelope(f, line)
	if err != nil {
		return errors.ErrPublishFailed(err)
	}
	s.Trace = append(s.Trace, b)
	return nil
}

func (s *StubPublisher) TraceEnvelope(index int) (Envelope, error) {
	if len(s.Trace) > index {
		return DecodeEnvelope(s.Trace[index])
	}
	return Envelope{}, fmt.Errorf("no envelope at index (%d) available", index)
}

func (s *StubPublisher) Reset() {
	s.Trace = [][]byte{}
}
