// SPDX-License-Identifier: MIT

package jacobian

import "errors"

var (
	// ErrDuplicateName indicates a parameter requested twice.
	ErrDuplicateName = errors.New("jacobian: duplicate parameter name")

	// ErrNilExecutor indicates a missing executor.
	ErrNilExecutor = errors.New("jacobian: nil executor")

	// ErrManualShape indicates a manual derivative column whose length
	// differs from the atom's signal length.
	ErrManualShape = errors.New("jacobian: manual derivative shape mismatch")
)
