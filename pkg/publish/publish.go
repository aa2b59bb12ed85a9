// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package publish forwards received frames to external consumers.
package publish

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

const EnvelopeIdentifier = "CANF"

type Publisher interface {
	Connect() error
	Disconnect()
	Publish(frame can.Frame, line string) error
}

// Envelope is the decoded form of a published frame.
type Envelope struct {
	Frame can.Frame
	Line  string
}

// EncodeEnvelope packs a frame as the msgpack array
// ["CANF", id, extended, payload, line].
func EncodeEnvelope(f can.Frame, line string) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := msgpack.NewEncoder(buf)
	for _, err := range []error{
		enc.EncodeArrayLen(5),
		enc.EncodeString(EnvelopeIdentifier),
		enc.EncodeUint32(f.ID),
		enc.EncodeBool(f.Extended),
		enc.EncodeBytes(f.Data),
		enc.EncodeString(line),
	} {
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return Envelope{}, err
	}
	if n != 5 {
		return Envelope{}, errors.ErrPublishRespIncomplete
	}
	id, err := dec.DecodeString()
	if err != nil {
		return Envelope{}, err
	}
	if id != EnvelopeIdentifier {
		return Envelope{}, errors.ErrPublishEnvelopeMismatch(id)
	}
	frameID, err := dec.DecodeUint32()
	if err != nil {
		return Envelope{}, err
	}
	extended, err := dec.DecodeBool()
	if err != nil {
		return Envelope{}, err
	}
	payload, err := dec.DecodeBytes()
	if err != nil {
		return Envelope{}, err
	}
	line, err := dec.DecodeString()
	if err != nil {
		return Envelope{}, err
	}
	f, err := can.NewFrame(frameID, extended, payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Frame: f, Line: line}, nil
}

// Recorder publishes each frame the loop emits. Publish failures are
// returned to the loop, which counts them.
type Recorder struct {
	Publisher Publisher
}

func (r Recorder) Record(f can.Frame, line []byte) error {
	if err := r.Publisher.Publish(f, string(bytes.TrimRight(line, "\n"))); err != nil {
		slog.Debug(fmt.Sprintf("Publish: frame %X: %v", f.ID, err))
		return err
	}
	return nil
}
