// SPDX-License-Identifier: MIT

package params

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownParameter indicates a name that the schema does not declare.
	ErrUnknownParameter = errors.New("params: unknown parameter")

	// ErrMissingParameter indicates a required parameter without value or default.
	ErrMissingParameter = errors.New("params: missing required parameter")

	// ErrInvalidValue indicates an empty value or a NaN entry.
	ErrInvalidValue = errors.New("params: invalid value")

	// ErrShapeMismatch indicates broadcast values with different atom counts.
	ErrShapeMismatch = errors.New("params: broadcast shape mismatch")

	// ErrNotBroadcastable indicates a forced broadcast of a BroadcastNever parameter.
	ErrNotBroadcastable = errors.New("params: parameter is not broadcastable")

	// ErrNotDifferentiable indicates a derivative request for a parameter that
	// is discrete or holds a static vector.
	ErrNotDifferentiable = errors.New("params: parameter is not differentiable")

	// ErrAtomOutOfRange indicates an atom index outside [0, Atoms).
	ErrAtomOutOfRange = errors.New("params: atom index out of range")

	// ErrDuplicateParameter indicates two specs with the same name.
	ErrDuplicateParameter = errors.New("params: duplicate parameter")

	// ErrInvalidSpec indicates a malformed declaration (empty name, NaN
	// default, unknown policy, name forced both ways).
	ErrInvalidSpec = errors.New("params: invalid parameter declaration")
)

func paramErrorf(name string, err error) error {
	return fmt.Errorf("%q: %w", name, err)
}
