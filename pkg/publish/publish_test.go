// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

func TestEnvelope(t *testing.T) {
	f := can.MustFrame(0x18DAF110, []byte{0xDE, 0xAD})
	b, err := EncodeEnvelope(f, "ID: 18DAF110 Data: DEAD")
	require.NoError(t, err)

	var raw []any
	require.NoError(t, msgpack.Unmarshal(b, &raw))
	require.Len(t, raw, 5)
	assert.Equal(t, "CANF", raw[0])

	e, err := DecodeEnvelope(b)
	require.NoError(t, err)
	assert.True(t, f.Equal(e.Frame))
	assert.Equal(t, "ID: 18DAF110 Data: DEAD", e.Line)
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	b, err := msgpack.Marshal([]any{"SBNO", 1, false, []byte{}, ""})
	require.NoError(t, err)
	_, err = DecodeEnvelope(b)
	assert.Error(t, err)

	b, err = msgpack.Marshal([]any{"CANF", 1})
	require.NoError(t, err)
	_, err = DecodeEnvelope(b)
	assert.ErrorIs(t, err, errors.ErrPublishRespIncomplete)

	_, err = DecodeEnvelope([]byte{})
	assert.Error(t, err)
}

func TestStubRecorder(t *testing.T) {
	s := &StubPublisher{}
	r := Recorder{Publisher: s}
	f := can.MustFrame(0x7DF, []byte{2, 1, 12})
	assert.ErrorIs(t, r.Record(f, []byte("ID: 7DF Data: 02010C\n")), errors.ErrPublishNotConnected)

	require.NoError(t, s.Connect())
	line := []byte("ID: 7DF Data: 02010C\n")
	require.NoError(t, r.Record(f, line))
	copy(line, bytes.Repeat([]byte{'x'}, len(line)))

	e, err := s.TraceEnvelope(0)
	require.NoError(t, err)
	assert.True(t, f.Equal(e.Frame))
	assert.Equal(t, "ID: 7DF Data: 02010C", e.Line)
	_, err = s.TraceEnvelope(1)
	assert.Error(t, err)

	s.Disconnect()
	s.Reset()
	assert.Len(t, s.Trace, 0)
}
