// SPDX-License-Identifier: MIT

package model

import (
	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/params"
)

// Model is the contract every signal model implements.
type Model interface {
	// Parameters declares the tissue parameters.
	Parameters() []params.Spec
	// Sequence declares the sequence-timing parameters.
	Sequence() []params.Spec
	// Evaluate simulates one atom and returns its signal per timepoint.
	Evaluate(a *Atom) ([]dual.Number, error)
}

// Derivative returns ∂signal/∂θ for one atom given its forward signal.
type Derivative func(a *Atom, signal []complex128) ([]complex128, error)

// ManualDerivatives is implemented by models that supply analytic
// derivative columns. They replace the automatic columns of the same names.
type ManualDerivatives interface {
	Derivatives() map[string]Derivative
}

// Validator is implemented by models that check the static values of a
// call before any atom runs.
type Validator interface {
	Validate(static map[string][]float64) error
}
