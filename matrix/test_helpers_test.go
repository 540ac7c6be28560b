// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers.
//
// Purpose:
//   • Provide small, deterministic fixtures and utilities for kernels.

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/mrsim/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing kernels through the interface read path.
type hide struct{ matrix.Matrix }

// mustDense builds an r×c *Dense from row-major values or fails the test.
func mustDense(tb testing.TB, r, c int, vals ...float64) *matrix.Dense {
	tb.Helper()
	if len(vals) == 0 {
		vals = make([]float64, r*c)
	}
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(tb, err)

	return m
}

// requireClose asserts |got-want| <= atol + rtol*|want| entry by entry.
func requireClose(tb testing.TB, want, got matrix.Matrix, rtol, atol float64) {
	tb.Helper()
	require.Equal(tb, want.Rows(), got.Rows())
	require.Equal(tb, want.Cols(), got.Cols())
	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			w, err := want.At(i, j)
			require.NoError(tb, err)
			g, err := got.At(i, j)
			require.NoError(tb, err)
			require.LessOrEqualf(tb, math.Abs(g-w), atol+rtol*math.Abs(w), "(%d,%d) want:\n%v\ngot:\n%v", i, j, want, got)
		}
	}
}

// axpy returns a + alpha*b for same-shaped matrices.
func axpy(tb testing.TB, a matrix.Matrix, alpha float64, b matrix.Matrix) *matrix.Dense {
	tb.Helper()
	out := make([]float64, 0, a.Rows()*a.Cols())
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			x, err := a.At(i, j)
			require.NoError(tb, err)
			y, err := b.At(i, j)
			require.NoError(tb, err)
			out = append(out, x+alpha*y)
		}
	}

	return mustDense(tb, a.Rows(), a.Cols(), out...)
}
