// SPDX-License-Identifier: MIT
// Package matrix - product and solver kernels behind Expm.
//
// Notes:
//   - Kernels walk flat row-major buffers in fixed order.
//   - The Padé denominator is factored without pivoting: after scaling it is
//     close to the identity, so its leading minors stay away from zero.

package matrix

import "fmt"

// zeroPivot is the sentinel for detecting a zero pivot in the LU kernel.
const zeroPivot = 0.0

const (
	opLU    = "LU"
	opSolve = "Solve"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// mulInto writes a(r×n) * b(n×c) into out (r×c). out must not alias a or b.
func mulInto(out, a, b []float64, r, n, c int) {
	var (
		i, j, k          int
		av               float64
		rowA, rowB, rowR int
	)
	for k = range out {
		out[k] = 0
	}
	for i = 0; i < r; i++ {
		rowA = i * n
		rowR = i * c
		for k = 0; k < n; k++ {
			av = a[rowA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowB = k * c
			for j = 0; j < c; j++ {
				out[rowR+j] += av * b[rowB+j]
			}
		}
	}
}

// luDense computes the Doolittle factorization m = L*U with unit diagonal
// on L.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular (zero pivot).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func luDense(m Matrix) (*Dense, *Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	a, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	n := a.r
	L, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	U, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	for i := 0; i < n; i++ {
		L.data[i*n+i] = 1.0
	}

	var (
		i, j, k int
		sum     float64
	)
	for i = 0; i < n; i++ {
		// Row i of U.
		for j = i; j < n; j++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * U.data[k*n+j]
			}
			U.data[i*n+j] = a.data[i*n+j] - sum
		}
		if U.data[i*n+i] == zeroPivot {
			return nil, nil, matrixErrorf(opLU, ErrSingular)
		}
		// Column i of L.
		for j = i + 1; j < n; j++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += L.data[j*n+k] * U.data[k*n+i]
			}
			L.data[j*n+i] = (a.data[j*n+i] - sum) / U.data[i*n+i]
		}
	}

	return L, U, nil
}

// solveDense returns X with a*X = b, using one factorization of a and
// triangular solves per column of b.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a not square or b.Rows != n).
//   - ErrSingular.
func solveDense(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	L, U, err := luDense(a)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	n := L.r
	if b.Rows() != n {
		return nil, matrixErrorf(opSolve, ErrDimensionMismatch)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	cols := db.c
	out, err := NewDense(n, cols)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	var (
		col, i, k int
		sum       float64
		y         = make([]float64, n) // forward substitution workspace
	)
	for col = 0; col < cols; col++ {
		// Forward: L*y = b[:,col].
		for i = 0; i < n; i++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * y[k]
			}
			y[i] = db.data[i*cols+col] - sum
		}
		// Backward: U*x = y, written straight into out[:,col].
		for i = n - 1; i >= 0; i-- {
			sum = 0
			for k = i + 1; k < n; k++ {
				sum += U.data[i*n+k] * out.data[k*cols+col]
			}
			out.data[i*cols+col] = (y[i] - sum) / U.data[i*n+i]
		}
	}

	return out, nil
}
