// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/adapter/sim"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

const startup = InitOkLine + BannerLine

// strict fails the test when ReceiveFrame is called without a preceding
// positive HasPendingFrame.
type strict struct {
	*sim.Controller
	t       *testing.T
	pending bool
}

func (s *strict) HasPendingFrame() bool {
	s.pending = s.Controller.HasPendingFrame()
	return s.pending
}

func (s *strict) ReceiveFrame() (can.Frame, bool) {
	if !s.pending {
		s.t.Errorf("ReceiveFrame called without pending frame")
	}
	s.pending = false
	return s.Controller.ReceiveFrame()
}

type sleeps struct {
	calls []time.Duration
}

func (s *sleeps) sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return ctx.Err()
}

func noYield() {}

func TestScenarioNoFrames(t *testing.T) {
	c := &sim.Controller{}
	var out bytes.Buffer
	l := New(c, &out, WithIterations(10), WithYield(noYield))

	require.NoError(t, l.Setup(context.Background()))
	assert.Equal(t, Running, l.State())
	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, startup, out.String())
	assert.Equal(t, can.CAN500kBps, c.Bitrate)
	assert.Equal(t, 10, c.PendingCalls())
	assert.Equal(t, 0, c.ReceiveCalls())
}

func TestScenarioFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame can.Frame
		line  string
	}{
		{name: "obd request", frame: can.MustFrame(0x7DF, []byte{0x02, 0x01, 0x0C}), line: "ID: 7DF Data: 02010C\n"},
		{name: "empty payload", frame: can.MustFrame(0x123, nil), line: "ID: 123 Data: \n"},
		{name: "extended", frame: can.MustFrame(0x18DAF110, []byte{0x10}), line: "ID: 18DAF110 Data: 10\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &sim.Controller{}
			require.NoError(t, c.Push(tc.frame))
			var out bytes.Buffer
			l := New(c, &out, WithIterations(3), WithYield(noYield))
			require.NoError(t, l.Setup(context.Background()))
			require.NoError(t, l.Run(context.Background()))

			assert.Equal(t, startup+tc.line, out.String())
			assert.Equal(t, uint64(1), l.Stats().Frames)
		})
	}
}

func TestScenarioInitFails(t *testing.T) {
	c := &sim.Controller{FailInit: -1}
	require.NoError(t, c.Push(can.MustFrame(0x7DF, []byte{1}), can.MustFrame(0x100, nil)))
	var out bytes.Buffer
	l := New(c, &out, WithIterations(100), WithYield(noYield))

	require.NoError(t, l.Setup(context.Background()))
	assert.Equal(t, Uninitialized, l.State())
	require.NoError(t, l.Run(context.Background()))
	for range 10 {
		assert.False(t, l.Step())
	}

	assert.Equal(t, InitFailLine, out.String())
	assert.Equal(t, 1, c.InitializeCalls())
	assert.Equal(t, 0, c.PendingCalls())
	assert.Equal(t, 0, c.ReceiveCalls())
	assert.Len(t, c.Stack, 2)
	assert.Equal(t, uint64(110), l.Stats().Iterations)
}

func TestScenarioOneFramePerIteration(t *testing.T) {
	c := &sim.Controller{}
	require.NoError(t, c.Push(can.MustFrame(0x100, []byte{1}), can.MustFrame(0x101, []byte{2})))
	var out bytes.Buffer
	l := New(&strict{Controller: c, t: t}, &out)
	require.NoError(t, l.Setup(context.Background()))
	out.Reset()

	assert.True(t, l.Step())
	assert.Equal(t, "ID: 100 Data: 01\n", out.String())
	assert.Equal(t, 1, c.ReceiveCalls())

	assert.True(t, l.Step())
	assert.Equal(t, "ID: 100 Data: 01\nID: 101 Data: 02\n", out.String())
	assert.Equal(t, 2, c.ReceiveCalls())

	assert.False(t, l.Step())
	assert.Equal(t, 2, c.ReceiveCalls())
}

func TestReceiveOnlyAfterPending(t *testing.T) {
	c := &sim.Controller{}
	for i := range 20 {
		require.NoError(t, c.Push(can.MustFrame(uint32(i), []byte{byte(i)})))
	}
	l := New(&strict{Controller: c, t: t}, &bytes.Buffer{}, WithIterations(50), WithYield(noYield))
	require.NoError(t, l.Setup(context.Background()))
	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, uint64(20), l.Stats().Frames)
	prev := ""
	for _, call := range c.Calls {
		if call == sim.CallReceive {
			assert.Equal(t, sim.CallPending, prev)
		}
		prev = call
	}
}

func TestRace(t *testing.T) {
	c := &sim.Controller{Race: true}
	require.NoError(t, c.Push(can.MustFrame(0x10, nil)))
	var out bytes.Buffer
	l := New(c, &out, WithIterations(2), WithYield(noYield))
	require.NoError(t, l.Setup(context.Background()))
	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, startup+"ID: 10 Data: \n", out.String())
	assert.Equal(t, uint64(1), l.Stats().Races)
	assert.Equal(t, uint64(1), l.Stats().Frames)
}

func TestInitPolicyExit(t *testing.T) {
	c := &sim.Controller{FailInit: -1}
	var out bytes.Buffer
	l := New(c, &out, WithInitPolicy(PolicyExit))

	err := l.Setup(context.Background())
	require.Error(t, err)
	var initErr *errors.InitError
	assert.ErrorAs(t, err, &initErr)
	assert.Equal(t, InitFailLine, out.String())
	assert.Equal(t, Uninitialized, l.State())
}

func TestInitPolicyRetry(t *testing.T) {
	c := &sim.Controller{FailInit: 2}
	var out bytes.Buffer
	s := &sleeps{}
	l := New(c, &out,
		WithInitPolicy(PolicyRetry),
		WithRetry(5, 100*time.Millisecond, time.Second),
		WithSleep(s.sleep))

	require.NoError(t, l.Setup(context.Background()))
	assert.Equal(t, Running, l.State())
	assert.Equal(t, InitFailLine+InitFailLine+startup, out.String())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, s.calls)
	assert.Equal(t, uint(3), l.Stats().InitAttempts)
}

func TestInitPolicyRetryExhausted(t *testing.T) {
	c := &sim.Controller{FailInit: -1}
	require.NoError(t, c.Push(can.MustFrame(0x1, nil)))
	var out bytes.Buffer
	s := &sleeps{}
	l := New(c, &out,
		WithInitPolicy(PolicyRetry),
		WithRetry(4, time.Millisecond, 3*time.Millisecond),
		WithSleep(s.sleep),
		WithIterations(5),
		WithYield(noYield))

	require.NoError(t, l.Setup(context.Background()))
	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, Uninitialized, l.State())
	assert.Equal(t, 5, c.InitializeCalls())
	assert.Equal(t, 0, c.PendingCalls())
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 3 * time.Millisecond}, s.calls)
	expect := ""
	for range 5 {
		expect += InitFailLine
	}
	assert.Equal(t, expect, out.String())
}

func TestInitPolicyRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &sim.Controller{FailInit: -1}
	l := New(c, &bytes.Buffer{}, WithInitPolicy(PolicyRetry), WithRetry(3, time.Hour, time.Hour))

	err := l.Setup(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, c.InitializeCalls())
}

func TestRunCancelled(t *testing.T) {
	c := &sim.Controller{}
	require.NoError(t, c.Push(can.MustFrame(0x1, nil)))
	l := New(c, &bytes.Buffer{})
	require.NoError(t, l.Setup(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, l.Run(ctx))
	assert.Equal(t, 0, c.PendingCalls())
	assert.Equal(t, uint64(0), l.Stats().Iterations)
}

func TestRunUntilCancel(t *testing.T) {
	c := &sim.Controller{}
	require.NoError(t, c.Push(can.MustFrame(0x1, nil)))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	l := New(c, &bytes.Buffer{}, WithIdle(time.Millisecond))
	require.NoError(t, l.Setup(ctx))
	require.NoError(t, l.Run(ctx))
	assert.Equal(t, uint64(1), l.Stats().Frames)
}

func TestYieldAndIdle(t *testing.T) {
	c := &sim.Controller{}
	require.NoError(t, c.Push(can.MustFrame(0x1, nil), can.MustFrame(0x2, nil)))
	yields := 0
	s := &sleeps{}
	l := New(c, &bytes.Buffer{},
		WithIterations(5),
		WithYield(func() { yields++ }),
		WithIdle(time.Millisecond),
		WithSleep(s.sleep))
	require.NoError(t, l.Setup(context.Background()))
	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, 5, yields)
	assert.Len(t, s.calls, 3)
}

type recorder struct {
	lines []string
	err   error
}

func (r *recorder) Record(f can.Frame, line []byte) error {
	r.lines = append(r.lines, string(line))
	return r.err
}

func TestRecorders(t *testing.T) {
	c := &sim.Controller{}
	require.NoError(t, c.Push(can.MustFrame(0x7DF, []byte{2, 1, 12}), can.MustFrame(0x7E8, nil)))
	good := &recorder{}
	bad := &recorder{err: fmt.Errorf("disk full")}
	var out bytes.Buffer
	l := New(c, &out, WithIterations(4), WithYield(noYield), WithRecorder(good, bad))
	require.NoError(t, l.Setup(context.Background()))
	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, []string{"ID: 7DF Data: 02010C\n", "ID: 7E8 Data: \n"}, good.lines)
	assert.Equal(t, uint64(2), l.Stats().RecorderErrors)
	assert.Equal(t, uint64(2), l.Stats().Frames)
	assert.Equal(t, startup+"ID: 7DF Data: 02010C\nID: 7E8 Data: \n", out.String())
}

type invalid struct {
	sim.Controller
}

func (i *invalid) HasPendingFrame() bool { return true }
func (i *invalid) ReceiveFrame() (can.Frame, bool) {
	return can.Frame{ID: 0x800, Data: []byte{1}}, true
}

func TestInvalidFramePanics(t *testing.T) {
	l := New(&invalid{}, &bytes.Buffer{})
	require.NoError(t, l.Setup(context.Background()))
	assert.Panics(t, func() { l.Step() })
}

func TestSetupErrors(t *testing.T) {
	assert.ErrorIs(t, New(nil, nil).Setup(context.Background()), errors.ErrNoController)
	assert.ErrorIs(t, New(nil, nil).Run(context.Background()), errors.ErrNoController)
	assert.Error(t, New(&sim.Controller{}, nil, WithBitrate(can.Bitrate(0))).Setup(context.Background()))

	c := &sim.Controller{}
	l := New(c, nil, WithBitrate(can.CAN125kBps))
	require.NoError(t, l.Setup(context.Background()))
	require.NoError(t, l.Setup(context.Background()))
	assert.Equal(t, 1, c.InitializeCalls())
	assert.Equal(t, can.CAN125kBps, c.Bitrate)
}

func TestSetupOnce(t *testing.T) {
	tests := []struct {
		name   string
		policy InitPolicy
	}{
		{name: "inert", policy: PolicyInert},
		{name: "exit", policy: PolicyExit},
		{name: "retry", policy: PolicyRetry},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &sim.Controller{FailInit: -1}
			s := &sleeps{}
			var out bytes.Buffer
			l := New(c, &out, WithInitPolicy(tc.policy), WithRetry(2, time.Millisecond, 0), WithSleep(s.sleep))
			_ = l.Setup(context.Background())
			calls := c.InitializeCalls()
			written := out.String()

			for range 3 {
				assert.ErrorIs(t, l.Setup(context.Background()), errors.ErrNotRunning)
			}
			assert.Equal(t, calls, c.InitializeCalls())
			assert.Equal(t, written, out.String())
			assert.Equal(t, Uninitialized, l.State())
			assert.False(t, l.Step())
			assert.Equal(t, 0, c.PendingCalls())
		})
	}
}
