// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the exponential kernels and
// numeric policy. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//   - Options fields are unexported; public APIs consume ...Option.
package matrix

// ---------- Defaults (single source of truth) ----------

// Numeric policy.
const (
	// DefaultValidateNaNInf toggles strict finite-value validation of Expm
	// inputs and of matrices built by NewDense/NewDenseFrom.
	DefaultValidateNaNInf = true

	// DefaultExpmTheta is the 1-norm below which the Padé(6,6) approximant is
	// used directly. Larger inputs are scaled by 2^-s until ‖A/2^s‖₁ ≤ θ.
	DefaultExpmTheta = 0.5

	// DefaultMaxSquarings bounds the number of squaring steps. Inputs needing
	// more are reported as ErrIllConditioned with a best-effort result.
	DefaultMaxSquarings = 40
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicThetaInvalid     = "matrix: WithExpmTheta: theta must be finite and > 0"
	panicSquaringsInvalid = "matrix: WithMaxSquarings: n must be >= 0"
)

// ---------- Public option type (functional) ----------

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	validateNaNInf bool    // DefaultValidateNaNInf
	theta          float64 // > 0; DefaultExpmTheta
	maxSquarings   int     // >= 0; DefaultMaxSquarings
}

// WithValidateNaNInf enables rejection of NaN/±Inf in Expm/ExpmFrechet inputs
// and NewDenseFrom data.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables the finite-value check. Non-finite entries then
// propagate into the result.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithExpmTheta sets the scaling threshold on ‖A‖₁.
//
// Panics:
//   - if theta is NaN, ±Inf or <= 0.
func WithExpmTheta(theta float64) Option {
	if isNonFinite(theta) || theta <= 0 {
		panic(panicThetaInvalid)
	}

	return func(o *Options) { o.theta = theta }
}

// WithMaxSquarings caps the scaling-and-squaring depth.
//
// Panics:
//   - if n < 0.
func WithMaxSquarings(n int) Option {
	if n < 0 {
		panic(panicSquaringsInvalid)
	}

	return func(o *Options) { o.maxSquarings = n }
}

// NewMatrixOptions resolves a list of Option setters into Options.
// Exposed for tests and for callers that want to inspect effective values.
func NewMatrixOptions(opts ...Option) Options { return gatherOptions(opts...) }

// MaxSquarings reports the effective squaring budget.
func (o Options) MaxSquarings() int { return o.maxSquarings }

// Theta reports the effective scaling threshold.
func (o Options) Theta() float64 { return o.theta }

// ValidateNaNInf reports whether finite-input validation is enabled.
func (o Options) ValidateNaNInf() bool { return o.validateNaNInf }

// gatherOptions applies user-provided Option setters on top of defaults
// (last-writer-wins).
func gatherOptions(user ...Option) Options {
	o := Options{
		validateNaNInf: DefaultValidateNaNInf,
		theta:          DefaultExpmTheta,
		maxSquarings:   DefaultMaxSquarings,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
