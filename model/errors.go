// SPDX-License-Identifier: MIT

package model

import "errors"

var (
	// ErrNilModel indicates a nil Model passed to New.
	ErrNilModel = errors.New("model: nil model")

	// ErrInvalidDerivative indicates a manual derivative registered for a
	// name that cannot be differentiated, or a nil closure.
	ErrInvalidDerivative = errors.New("model: invalid manual derivative")
)
