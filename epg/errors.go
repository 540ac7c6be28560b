// SPDX-License-Identifier: MIT

package epg

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperator marks an operator/pool combination the engine
	// cannot realize (exchange among more than three pools, coupling into a
	// bound pool, unknown pool index).
	ErrUnsupportedOperator = errors.New("epg: unsupported operator")

	// ErrPoolMismatch indicates a per-pool argument whose length differs
	// from the number of pools in the state.
	ErrPoolMismatch = errors.New("epg: per-pool argument length mismatch")

	// ErrInvalidArgument indicates a nonsensical state or operator argument
	// (negative max order, non-finite tolerance, empty pool list).
	ErrInvalidArgument = errors.New("epg: invalid argument")
)

// epgErrorf wraps err with an operator or constructor tag.
func epgErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
