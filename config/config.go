// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/pairfactory/consts"
	"github.com/ava-labs/pairfactory/pebble"
	"github.com/ava-labs/pairfactory/server"
	"github.com/ava-labs/pairfactory/trace"
)

type Config struct {
	// Logging
	LogLevel      logging.Level `json:"logLevel"`
	LogDirectory  string        `json:"logDirectory"`
	LogMaxSize    int           `json:"logMaxSize"` // megabytes
	LogMaxFiles   int           `json:"logMaxFiles"`
	LogMaxAge     int           `json:"logMaxAge"` // days
	LogCompress   bool          `json:"logCompress"`
	LogDisplay    bool          `json:"logDisplay"`
	LogJSONFormat bool          `json:"logJSONFormat"`

	// Storage; an empty path keeps state in memory
	DatabasePath string        `json:"databasePath"`
	Pebble       pebble.Config `json:"pebble"`

	// API
	HTTPAddress     string            `json:"httpAddress"`
	HTTP            server.HTTPConfig `json:"http"`
	AllowedOrigins  []string          `json:"allowedOrigins"`
	AllowedHosts    []string          `json:"allowedHosts"`
	ShutdownTimeout time.Duration     `json:"shutdownTimeout"`

	// Event streaming; the backlog bounds pending messages per subscriber
	StreamingBacklogSize int `json:"streamingBacklogSize"`

	// Tracing
	Trace trace.Config `json:"trace"`
}

func New(b []byte) (*Config, error) {
	c := &Config{
		LogLevel:    logging.Info,
		LogMaxSize:  8,
		LogMaxFiles: 5,
		LogMaxAge:   0,
		LogDisplay:  true,

		Pebble: pebble.NewDefaultConfig(),

		HTTPAddress: "127.0.0.1:9650",
		HTTP: server.HTTPConfig{
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"*"},
		ShutdownTimeout: 10 * time.Second,

		StreamingBacklogSize: 1_024,

		Trace: trace.Config{
			Enabled:         false,
			TraceSampleRate: 0.1,
			AppName:         consts.Name,
			Agent:           consts.Name,
			Version:         consts.Version,
		},
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}
