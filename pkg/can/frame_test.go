// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package can

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

func TestNewFrame(t *testing.T) {
	tests := []struct {
		name     string
		id       uint32
		extended bool
		data     []byte
		err      error
	}{
		{name: "standard", id: 0x7DF, data: []byte{0x02, 0x01, 0x0C}},
		{name: "standard max", id: MaxStdID, data: nil},
		{name: "standard overflow", id: MaxStdID + 1, err: errors.ErrInvalidID},
		{name: "extended", id: 0x18DAF110, extended: true, data: make([]byte, 8)},
		{name: "extended overflow", id: MaxExtID + 1, extended: true, err: errors.ErrInvalidID},
		{name: "payload too long", id: 0x100, data: make([]byte, 9), err: errors.ErrInvalidLength},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFrame(tc.id, tc.extended, tc.data)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, f.ID)
			assert.Equal(t, tc.extended, f.Extended)
			assert.Equal(t, len(tc.data), f.Len())
			assert.NotNil(t, f.Data)
		})
	}
}

func TestNewFrameCopiesPayload(t *testing.T) {
	data := []byte{1, 2, 3}
	f, err := NewFrame(0x10, false, data)
	require.NoError(t, err)
	data[0] = 0xFF
	assert.Equal(t, []byte{1, 2, 3}, f.Data)
}

func TestMustFrame(t *testing.T) {
	assert.False(t, MustFrame(0x7FF, nil).Extended)
	assert.True(t, MustFrame(0x800, nil).Extended)
	assert.Panics(t, func() { MustFrame(0x10, make([]byte, 9)) })
}

func TestFrameEqual(t *testing.T) {
	a := MustFrame(0x123, []byte{1, 2})
	assert.True(t, a.Equal(MustFrame(0x123, []byte{1, 2})))
	assert.False(t, a.Equal(MustFrame(0x123, []byte{1})))
	assert.False(t, a.Equal(MustFrame(0x124, []byte{1, 2})))
}
