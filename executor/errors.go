// SPDX-License-Identifier: MIT

package executor

import "errors"

var (
	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("executor: chunk size must be > 0")

	// ErrNilBackend indicates a missing backend.
	ErrNilBackend = errors.New("executor: nil backend")
)
