// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package socketcan

import (
	"testing"

	brutella "github.com/brutella/can"
	"github.com/stretchr/testify/assert"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/internal/queue"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		frame brutella.Frame
		want  can.Frame
		ok    bool
	}{
		{
			name:  "standard",
			frame: brutella.Frame{ID: 0x7DF, Length: 3, Data: [8]uint8{2, 1, 12}},
			want:  can.MustFrame(0x7DF, []byte{2, 1, 12}),
			ok:    true,
		},
		{
			name:  "extended",
			frame: brutella.Frame{ID: 0x18DAF110 | flagEFF, Length: 1, Data: [8]uint8{0xAA}},
			want:  can.MustFrame(0x18DAF110, []byte{0xAA}),
			ok:    true,
		},
		{
			name:  "extended low id",
			frame: brutella.Frame{ID: 0x10 | flagEFF, Length: 0},
			want:  can.Frame{ID: 0x10, Extended: true, Data: []byte{}},
			ok:    true,
		},
		{name: "remote", frame: brutella.Frame{ID: 0x100 | flagRTR}},
		{name: "error", frame: brutella.Frame{ID: 0x1 | flagERR}},
		{
			name:  "length clamped",
			frame: brutella.Frame{ID: 0x1, Length: 15, Data: [8]uint8{1, 2, 3, 4, 5, 6, 7, 8}},
			want:  can.MustFrame(0x1, []byte{1, 2, 3, 4, 5, 6, 7, 8}),
			ok:    true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, ok := convert(tc.frame)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.want.Equal(f), "got %+v", f)
			}
		})
	}
}

func TestHandle(t *testing.T) {
	c := New("vcan0", 1)
	assert.False(t, c.HasPendingFrame())
	c.queue = queue.New(c.Buffer)

	c.Handle(brutella.Frame{ID: 0x100, Length: 1, Data: [8]uint8{1}})
	c.Handle(brutella.Frame{ID: 0x101, Length: 1, Data: [8]uint8{2}})
	assert.Equal(t, uint64(1), c.Dropped())

	assert.True(t, c.HasPendingFrame())
	f, ok := c.ReceiveFrame()
	assert.True(t, ok)
	assert.Equal(t, uint32(0x100), f.ID)
	assert.False(t, c.HasPendingFrame())
	assert.NoError(t, c.Close())
}
