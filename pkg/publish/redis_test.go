// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
)

func redisUrl(t *testing.T) string {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	return url
}

func TestRedisPublisher(t *testing.T) {
	r := RedisPublisher{Url: redisUrl(t), Key: "canread.test"}
	require.NoError(t, r.Connect())
	defer r.Disconnect()
	assert.NotEmpty(t, r.version)
	r.client.Del(r.ctx, r.Key)

	frames := []can.Frame{
		can.MustFrame(0x7DF, []byte{2, 1, 12}),
		can.MustFrame(0x100, nil),
	}
	for _, f := range frames {
		require.NoError(t, r.Publish(f, ""))
	}
	for _, f := range frames {
		e, err := r.Pop()
		require.NoError(t, err)
		assert.True(t, f.Equal(e.Frame))
	}
	_, err := r.Pop()
	assert.Error(t, err)
}

func TestRedisPublisherNotConnected(t *testing.T) {
	r := RedisPublisher{}
	assert.Error(t, r.Publish(can.MustFrame(1, nil), ""))
	_, err := r.Pop()
	assert.Error(t, err)
	r.Disconnect()
}

func TestRedisBadUrl(t *testing.T) {
	r := RedisPublisher{Url: "http://nowhere"}
	assert.Error(t, r.Connect())
}
