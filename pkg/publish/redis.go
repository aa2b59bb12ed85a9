// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/errors"
)

const DefaultKey = "canread.frames"

var connectTimeout = 5 // REDIS_CONNECTION_TIMEOUT

// RedisPublisher pushes envelopes onto a Redis list (LPUSH), consumers
// pop from the other end.
type RedisPublisher struct {
	Url string
	Key string

	ctx     context.Context
	client  *red.Client
	version string
}

func (r *RedisPublisher) Connect() error {
	slog.Info(fmt.Sprintf("Redis: Connect: %s", r.Url))
	if r.Key == "" {
		r.Key = DefaultKey
	}
	slog.Info(fmt.Sprintf("Redis: PUSH: %s", r.Key))

	r.ctx = context.Background()
	opt, err := red.ParseURL(r.Url)
	if err != nil {
		return errors.NewPublishError(err, "bad url")
	}
	timeout, err := strconv.Atoi(os.Getenv("REDIS_CONNECTION_TIMEOUT"))
	if err != nil || timeout <= 0 {
		timeout = connectTimeout
	}
	opt.DialTimeout = time.Duration(timeout) * time.Second
	r.client = red.NewClient(opt)

	c := r.client.InfoMap(r.ctx, "server")
	if c.Err() != nil {
		r.client.Close()
		r.client = nil
		return errors.NewPublishError(c.Err(), "connect failed")
	}
	r.version = c.Item("Server", "redis_version")
	slog.Info(fmt.Sprintf("Redis: Version: %s", r.version))
	return nil
}

func (r *RedisPublisher) Disconnect() {
	if r.client == nil {
		return
	}
	slog.Info(fmt.Sprintf("Redis: Disconnect:"))
	r.client.Close()
	r.client = nil
}

func (r *RedisPublisher) Publish(f can.Frame, line string) error {
	if r.client == nil {
		return errors.ErrPublishNotConnected
	}
	d, err := EncodeEnvelope(f, line)
	if err != nil {
		return errors.ErrPublishFailed(err)
	}
	slog.Debug(fmt.Sprintf("Redis: LPUSH -> %s (%d bytes)", r.Key, len(d)))
	if err := r.client.LPush(r.ctx, r.Key, d).Err(); err != nil {
		return errors.ErrPublishFailed(err)
	}
	return nil
}

// Pop removes the oldest envelope from the list.
func (r *RedisPublisher) Pop() (Envelope, error) {
	if r.client == nil {
		return Envelope{}, errors.ErrPublishNotConnected
	}
	c := r.client.RPop(r.ctx, r.Key)
	if c.Err() != nil {
		return Envelope{}, errors.NewPublishError(c.Err(), "pop failed")
	}
	return DecodeEnvelope([]byte(c.Val()))
}
