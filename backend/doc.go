// SPDX-License-Identifier: MIT

// Package backend selects the compute backend once from a device identifier.
//
// Recognized identifiers:
//
//	cpu        serial evaluation on the calling goroutine
//	cpu:N      up to N goroutines per chunk (N >= 1)
//	cpu:auto   up to GOMAXPROCS goroutines per chunk
//
// The executor routes every chunk through Backend.Map; nothing switches
// device once a Backend has been built.
package backend
