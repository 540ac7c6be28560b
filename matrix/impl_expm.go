// SPDX-License-Identifier: MIT

// Package matrix - matrix exponential kernels.
//
// Purpose:
//   - Expm: exp(A) by Padé(6,6) with scaling and squaring.
//   - ExpmFrechet: exp(A) together with its Fréchet derivative L(A,E), read
//     from the top-right block of exp([[A, E], [0, A]]).
//
// Determinism:
//   - The scaling exponent depends only on ‖A‖₁; loop orders are fixed.

package matrix

import (
	"fmt"
	"math"
)

const (
	opExpm        = "Expm"
	opExpmFrechet = "ExpmFrechet"
)

// padeCoeffs holds c_k = (2q-k)! q! / ((2q)! k! (q-k)!) for q = 6.
var padeCoeffs = [...]float64{
	1.0,
	1.0 / 2.0,
	5.0 / 44.0,
	1.0 / 66.0,
	1.0 / 792.0,
	1.0 / 15840.0,
	1.0 / 665280.0,
}

// Expm returns exp(m) for a square matrix.
//
// Implementation:
//   - Stage 1: validate (non-nil, square, finite under the numeric policy).
//   - Stage 2: pick the smallest s ≥ 0 with ‖m‖₁/2^s ≤ θ.
//   - Stage 3: X = m/2^s; N = Σ c_k X^k, D = Σ (-1)^k c_k X^k; E = D⁻¹N.
//   - Stage 4: square E s times.
//
// Returns:
//   - *Dense: exp(m).
//   - error : validation failures, or ErrIllConditioned when s exceeds the
//     squaring budget. In the latter case the returned matrix is still the
//     best-effort exponential and callers may choose to keep it.
//
// Complexity:
//   - Time O((7+s)·n³), Space O(n²).
func Expm(m Matrix, opts ...Option) (*Dense, error) {
	o := gatherOptions(opts...)
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opExpm, err)
	}
	if o.validateNaNInf {
		if err := ValidateFinite(m); err != nil {
			return nil, matrixErrorf(opExpm, err)
		}
	}
	a, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opExpm, err)
	}

	norm, _ := ewNorm1(a)
	s := 0
	for norm > o.theta && !math.IsInf(norm, 0) {
		norm /= 2
		s++
	}

	x := a.Clone().(*Dense)
	if s > 0 {
		f := math.Ldexp(1, -s)
		for k := range x.data {
			x.data[k] *= f
		}
	}

	e, err := padeApprox(x)
	if err != nil {
		return nil, matrixErrorf(opExpm, err)
	}

	tmp := make([]float64, len(e.data))
	for i := 0; i < s; i++ {
		mulInto(tmp, e.data, e.data, e.r, e.r, e.r)
		e.data, tmp = tmp, e.data
	}

	if s > o.maxSquarings {
		return e, matrixErrorf(opExpm, fmt.Errorf("%d squarings > budget %d: %w", s, o.maxSquarings, ErrIllConditioned))
	}

	return e, nil
}

// padeApprox evaluates the Padé(6,6) approximant of exp(x) for ‖x‖₁ ≤ θ.
func padeApprox(x *Dense) (*Dense, error) {
	n := x.r
	num, _ := NewIdentity(n)
	den, _ := NewIdentity(n)
	pow, _ := NewIdentity(n)
	next := make([]float64, n*n)

	sign := 1.0
	for k := 1; k < len(padeCoeffs); k++ {
		mulInto(next, pow.data, x.data, n, n, n)
		pow.data, next = next, pow.data
		sign = -sign
		c := padeCoeffs[k]
		for idx, v := range pow.data {
			num.data[idx] += c * v
			den.data[idx] += sign * c * v
		}
	}

	return solveDense(den, num)
}

// ExpmFrechet returns exp(a) and the Fréchet derivative L(a, e), i.e. the
// first-order change of exp(a) along direction e.
//
// Implementation:
//   - Build the 2n×2n block matrix [[a, e], [0, a]] and exponentiate it.
//   - exp(a) is the top-left block, L(a, e) the top-right block.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a not square or e shaped differently).
//   - ErrIllConditioned from Expm; both blocks are still returned.
func ExpmFrechet(a, e Matrix, opts ...Option) (*Dense, *Dense, error) {
	if err := ValidateSquareNonNil(a); err != nil {
		return nil, nil, matrixErrorf(opExpmFrechet, err)
	}
	if err := ValidateBinarySameShape(a, e); err != nil {
		return nil, nil, matrixErrorf(opExpmFrechet, err)
	}
	n := a.Rows()
	big, err := NewDense(2*n, 2*n)
	if err != nil {
		return nil, nil, matrixErrorf(opExpmFrechet, err)
	}
	if err = SetBlock(big, 0, 0, a); err != nil {
		return nil, nil, matrixErrorf(opExpmFrechet, err)
	}
	if err = SetBlock(big, 0, n, e); err != nil {
		return nil, nil, matrixErrorf(opExpmFrechet, err)
	}
	if err = SetBlock(big, n, n, a); err != nil {
		return nil, nil, matrixErrorf(opExpmFrechet, err)
	}

	full, expErr := Expm(big, opts...)
	if full == nil {
		return nil, nil, matrixErrorf(opExpmFrechet, expErr)
	}
	expA, _ := Block(full, 0, 0, n, n)
	frechet, _ := Block(full, 0, n, n, n)
	if expErr != nil {
		return expA, frechet, matrixErrorf(opExpmFrechet, expErr)
	}

	return expA, frechet, nil
}
