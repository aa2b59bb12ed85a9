// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
)

func TestControllerOrder(t *testing.T) {
	s := &Controller{}
	require.NoError(t, s.Push(can.MustFrame(1, []byte{1}), can.MustFrame(2, []byte{2})))

	assert.False(t, s.HasPendingFrame(), "pending before initialize")
	require.NoError(t, s.Initialize(can.CAN500kBps))
	assert.Equal(t, can.CAN500kBps, s.Bitrate)

	for _, id := range []uint32{1, 2} {
		assert.True(t, s.HasPendingFrame())
		f, ok := s.ReceiveFrame()
		assert.True(t, ok)
		assert.Equal(t, id, f.ID)
	}
	assert.False(t, s.HasPendingFrame())
	_, ok := s.ReceiveFrame()
	assert.False(t, ok)
	assert.Len(t, s.Trace, 2)
	assert.Equal(t, 1, s.InitializeCalls())
	assert.Equal(t, 4, s.PendingCalls())
	assert.Equal(t, 3, s.ReceiveCalls())
}

func TestControllerFailInit(t *testing.T) {
	s := &Controller{FailInit: 2}
	assert.Error(t, s.Initialize(can.CAN500kBps))
	assert.Error(t, s.Initialize(can.CAN500kBps))
	assert.NoError(t, s.Initialize(can.CAN500kBps))

	s = &Controller{FailInit: -1}
	for range 5 {
		assert.Error(t, s.Initialize(can.CAN500kBps))
	}
	assert.Error(t, (&Controller{}).Initialize(can.Bitrate(0)))
}

func TestControllerRace(t *testing.T) {
	s := &Controller{Race: true}
	require.NoError(t, s.Push(can.MustFrame(0x10, nil)))
	require.NoError(t, s.Initialize(can.CAN125kBps))

	assert.True(t, s.HasPendingFrame())
	_, ok := s.ReceiveFrame()
	assert.False(t, ok)
	assert.False(t, s.Race)

	assert.True(t, s.HasPendingFrame())
	f, ok := s.ReceiveFrame()
	assert.True(t, ok)
	assert.Equal(t, uint32(0x10), f.ID)
}

func TestControllerLoad(t *testing.T) {
	text := "CAN Init ok\nCAN Read - Test receiving of CAN Bus message\nID: 7DF Data: 02010C\nID: 100 Data: \n"
	s := &Controller{}
	require.NoError(t, s.Load(strings.NewReader(text)))
	require.Len(t, s.Stack, 2)
	assert.True(t, can.MustFrame(0x7DF, []byte{2, 1, 12}).Equal(s.Stack[0]))
	assert.Equal(t, 0, s.Stack[1].Len())

	assert.Error(t, s.Load(strings.NewReader("ID: ZZ Data: 00\n")))
}
