// SPDX-License-Identifier: MIT

package model

import (
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/mrsim/backend"
	"github.com/katalvlaran/mrsim/config"
	"github.com/katalvlaran/mrsim/epg"
	"github.com/katalvlaran/mrsim/executor"
	"github.com/katalvlaran/mrsim/matrix"
	"github.com/katalvlaran/mrsim/params"
)

// Option configures a Simulator.
type Option func(*Options)

// Options is the resolved Simulator configuration.
type Options struct {
	device    string
	chunkSize int
	diff      []string
	maxOrder  int
	truncTol  float64
	squarings int
	level     logrus.Level
	log       *logrus.Entry
	warn      epg.WarnFunc
	partition []params.Option
}

// WithDevice selects the compute backend (see package backend).
func WithDevice(device string) Option {
	return func(o *Options) { o.device = device }
}

// WithChunkSize bounds the atoms evaluated per chunk. New rejects values
// <= 0 with executor.ErrInvalidChunkSize.
func WithChunkSize(n int) Option {
	return func(o *Options) { o.chunkSize = n }
}

// WithDiff sets the default derivative names used by Run and by Jacobian
// calls without explicit names.
func WithDiff(names ...string) Option {
	return func(o *Options) { o.diff = append([]string(nil), names...) }
}

// WithMaxOrder sets the EPG configuration-order bound of every state built
// through Atom.NewState.
func WithMaxOrder(n int) Option {
	return func(o *Options) { o.maxOrder = n }
}

// WithTruncationTolerance sets the EPG truncation warning threshold.
func WithTruncationTolerance(tol float64) Option {
	return func(o *Options) { o.truncTol = tol }
}

// WithMaxSquarings sets the scaling-and-squaring budget of the exchange
// operators.
func WithMaxSquarings(n int) Option {
	return func(o *Options) { o.squarings = n }
}

// WithLogger sets the simulator's log entry. Executor progress and EPG
// warnings are logged through it.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

// WithWarnFunc routes EPG warnings to fn instead of the logger. fn may be
// called from several goroutines when the device runs in parallel.
func WithWarnFunc(fn epg.WarnFunc) Option {
	return func(o *Options) { o.warn = fn }
}

// WithPartition applies parameter overrides (params.ForceBroadcast,
// params.ForceStatic) to every call.
func WithPartition(opts ...params.Option) Option {
	return func(o *Options) { o.partition = append(o.partition, opts...) }
}

// WithConfig applies environment-loaded settings. Options given after it
// take precedence.
func WithConfig(cfg config.Config) Option {
	return func(o *Options) {
		o.device = cfg.Device
		o.chunkSize = cfg.ChunkSize
		o.maxOrder = cfg.MaxOrder
		o.truncTol = cfg.TruncationTol
		o.squarings = cfg.MaxSquarings
		o.level = cfg.Level()
	}
}

func gatherOptions(user ...Option) Options {
	o := Options{
		device:    backend.DefaultDevice,
		chunkSize: executor.DefaultChunkSize,
		maxOrder:  epg.DefaultMaxOrder,
		truncTol:  epg.DefaultTruncationTolerance,
		squarings: matrix.DefaultMaxSquarings,
		level:     logrus.WarnLevel,
	}
	for _, set := range user {
		set(&o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetLevel(o.level)
		o.log = logrus.NewEntry(l)
	}
	if o.warn == nil {
		o.warn = epg.LogWarnings(o.log.WithField("component", "epg"))
	}

	return o
}
