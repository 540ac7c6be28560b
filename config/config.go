// SPDX-License-Identifier: MIT

// Package config loads simulator defaults from the environment.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/mrsim/backend"
	"github.com/katalvlaran/mrsim/epg"
	"github.com/katalvlaran/mrsim/executor"
	"github.com/katalvlaran/mrsim/matrix"
)

// ErrInvalidConfig marks a value that parses but makes no sense.
var ErrInvalidConfig = errors.New("config: invalid value")

// Config holds the environment-driven simulator settings. Unset variables
// keep the values from Default.
type Config struct {
	Device        string  `env:"MRSIM_DEVICE"`
	ChunkSize     int     `env:"MRSIM_CHUNK_SIZE"`
	MaxOrder      int     `env:"MRSIM_MAX_ORDER"`
	TruncationTol float64 `env:"MRSIM_TRUNCATION_TOL"`
	MaxSquarings  int     `env:"MRSIM_MAX_SQUARINGS"`
	LogLevel      string  `env:"MRSIM_LOG_LEVEL"`
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Device:        backend.DefaultDevice,
		ChunkSize:     executor.DefaultChunkSize,
		MaxOrder:      epg.DefaultMaxOrder,
		TruncationTol: epg.DefaultTruncationTolerance,
		MaxSquarings:  matrix.DefaultMaxSquarings,
		LogLevel:      logrus.WarnLevel.String(),
	}
}

// Load parses the MRSIM_* variables on top of the defaults and validates
// the result.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if _, err := backend.New(c.Device); err != nil {
		result = multierror.Append(result, err)
	}
	if c.ChunkSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("chunk size %d: %w", c.ChunkSize, ErrInvalidConfig))
	}
	if c.MaxOrder < 0 {
		result = multierror.Append(result, fmt.Errorf("max order %d: %w", c.MaxOrder, ErrInvalidConfig))
	}
	if math.IsNaN(c.TruncationTol) || math.IsInf(c.TruncationTol, 0) || c.TruncationTol < 0 {
		result = multierror.Append(result, fmt.Errorf("truncation tolerance %g: %w", c.TruncationTol, ErrInvalidConfig))
	}
	if c.MaxSquarings < 0 {
		result = multierror.Append(result, fmt.Errorf("max squarings %d: %w", c.MaxSquarings, ErrInvalidConfig))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("log level: %v: %w", err, ErrInvalidConfig))
	}

	return result.ErrorOrNil()
}

// Level returns the parsed log level, falling back to warn.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}

	return lvl
}
