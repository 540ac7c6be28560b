// SPDX-License-Identifier: MIT

package epg

import (
	"fmt"
	"math"

	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/matrix"
)

// Defaults (single source of truth).
const (
	// DefaultMaxOrder bounds the configuration orders a State tracks.
	// Coefficients shifted past it are discarded and accounted for in
	// State.TruncationError.
	DefaultMaxOrder = 32

	// DefaultTruncationTolerance is the accumulated discarded magnitude above
	// which a WarnTruncation is emitted.
	DefaultTruncationTolerance = 1e-6
)

// Option configures a State.
type Option func(*Options)

// Options is the resolved State configuration.
type Options struct {
	maxOrder int
	truncTol float64
	warn     WarnFunc
	squaring int
	initialZ []dual.Number
}

// WithMaxOrder sets the highest tracked configuration order. NewState
// rejects negative values with ErrInvalidArgument.
func WithMaxOrder(n int) Option {
	return func(o *Options) { o.maxOrder = n }
}

// WithTruncationTolerance sets the truncation warning threshold. NewState
// rejects negative or non-finite values with ErrInvalidArgument.
func WithTruncationTolerance(tol float64) Option {
	return func(o *Options) { o.truncTol = tol }
}

// WithWarnFunc routes numerical warnings to fn. A nil fn restores the
// default logrus handler.
func WithWarnFunc(fn WarnFunc) Option {
	return func(o *Options) { o.warn = fn }
}

// WithMaxSquarings sets the scaling-and-squaring budget of the exchange
// exponentials; exceeding it emits WarnIllConditioned. NewState rejects
// negative values with ErrInvalidArgument.
func WithMaxSquarings(n int) Option {
	return func(o *Options) { o.squaring = n }
}

// WithInitialZ starts the state from a prepared longitudinal magnetization
// Z[0][p] = z[p] instead of the pool equilibria. NewState rejects a length
// other than the pool count with ErrPoolMismatch.
func WithInitialZ(z ...dual.Number) Option {
	return func(o *Options) { o.initialZ = append([]dual.Number(nil), z...) }
}

const ctxValidateOptions = "epg.ValidateOptions"

// ValidateOptions applies opts to the defaults and checks them with the
// rules NewState uses, so callers can reject a configuration before
// building any state.
//
// Errors:
//   - ErrInvalidArgument for a negative max order, a negative/non-finite
//     truncation tolerance or a negative squaring budget.
func ValidateOptions(opts ...Option) error {
	if err := gatherOptions(opts...).validate(); err != nil {
		return epgErrorf(ctxValidateOptions, err)
	}

	return nil
}

func (o Options) validate() error {
	if o.maxOrder < 0 {
		return fmt.Errorf("max order %d: %w", o.maxOrder, ErrInvalidArgument)
	}
	if math.IsNaN(o.truncTol) || math.IsInf(o.truncTol, 0) || o.truncTol < 0 {
		return fmt.Errorf("truncation tolerance %g: %w", o.truncTol, ErrInvalidArgument)
	}
	if o.squaring < 0 {
		return fmt.Errorf("squaring budget %d: %w", o.squaring, ErrInvalidArgument)
	}

	return nil
}

func gatherOptions(user ...Option) Options {
	o := Options{
		maxOrder: DefaultMaxOrder,
		truncTol: DefaultTruncationTolerance,
		squaring: matrix.DefaultMaxSquarings,
	}
	for _, set := range user {
		set(&o)
	}
	if o.warn == nil {
		o.warn = defaultWarnFunc
	}

	return o
}
