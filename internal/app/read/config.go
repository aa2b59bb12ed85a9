// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package read

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/boschglobal/dse.modelc/extra/tools/canread/internal/pkg/command/util"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/can"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/ingest"
	"github.com/boschglobal/dse.modelc/extra/tools/canread/pkg/publish"
)

const ConfigEnv = "CANREAD_CONFIG"

type Config struct {
	Adapter string       `yaml:"adapter"`
	Bitrate can.Bitrate  `yaml:"bitrate"`
	Init    InitConfig   `yaml:"init"`
	Loop    LoopConfig   `yaml:"loop"`
	Output  OutputConfig `yaml:"output"`
	Capture string       `yaml:"capture,omitempty"`
	Redis   RedisConfig  `yaml:"redis,omitempty"`
}

type InitConfig struct {
	Policy     ingest.InitPolicy `yaml:"policy"`
	Retry      uint              `yaml:"retry"`
	Backoff    time.Duration     `yaml:"backoff"`
	BackoffMax time.Duration     `yaml:"backoffMax"`
}

type LoopConfig struct {
	Iterations uint64        `yaml:"iterations"`
	Idle       time.Duration `yaml:"idle"`
}

type OutputConfig struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMb  int    `yaml:"maxSizeMb,omitempty"`
	MaxBackups int    `yaml:"maxBackups,omitempty"`
	MaxAgeDays int    `yaml:"maxAgeDays,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
}

type RedisConfig struct {
	Url string `yaml:"url,omitempty"`
	Key string `yaml:"key,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Adapter: "type=socketcan;interface=can0",
		Bitrate: can.DefaultBitrate,
		Init: InitConfig{
			Policy:     ingest.PolicyInert,
			Retry:      ingest.DefaultRetryCount,
			Backoff:    ingest.DefaultRetryBackoff,
			BackoffMax: ingest.DefaultRetryBackoffMax,
		},
		Loop: LoopConfig{
			Idle: time.Millisecond,
		},
		Output: OutputConfig{
			MaxSizeMb:  10,
			MaxBackups: 3,
		},
		Redis: RedisConfig{
			Key: publish.DefaultKey,
		},
	}
}

// LoadConfig returns the defaults overlaid with the config file at path,
// or the file named by CANREAD_CONFIG when path is empty.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		return cfg, nil
	}
	slog.Debug(fmt.Sprintf("Config: %s", path))
	if err := util.ReadYaml(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Options() []ingest.Option {
	return []ingest.Option{
		ingest.WithBitrate(c.Bitrate),
		ingest.WithInitPolicy(c.Init.Policy),
		ingest.WithRetry(c.Init.Retry, c.Init.Backoff, c.Init.BackoffMax),
		ingest.WithIterations(c.Loop.Iterations),
		ingest.WithIdle(c.Loop.Idle),
	}
}
