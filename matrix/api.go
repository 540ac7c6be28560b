// SPDX-License-Identifier: MIT
// Package matrix - public API facades.
//
// Purpose:
//   - Identity construction and block copies used to assemble the augmented
//     and Fréchet block matrices of the exchange operators.
//
// Determinism & Policy:
//   - Facades never change the loop orders or numeric policy of underlying kernels.
//   - Validation is performed in the kernels; facades only compose or forward.

package matrix

const (
	opBlock    = "Block"
	opSetBlock = "SetBlock"
)

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Complexity: O(n^2) zeroing (constructor) + O(n) writes on the diagonal.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// Block copies the rows×cols window starting at (r0, c0) into a new Dense.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidDimensions (non-positive window),
//     ErrOutOfRange (window exceeds m).
func Block(m Matrix, r0, c0, rows, cols int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opBlock, err)
	}
	if rows <= 0 || cols <= 0 {
		return nil, matrixErrorf(opBlock, ErrInvalidDimensions)
	}
	if r0 < 0 || c0 < 0 || r0+rows > m.Rows() || c0+cols > m.Cols() {
		return nil, matrixErrorf(opBlock, ErrOutOfRange)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opBlock, err)
	}
	out, _ := NewDense(rows, cols)
	for i := 0; i < rows; i++ {
		copy(out.data[i*cols:(i+1)*cols], src.data[(r0+i)*src.c+c0:(r0+i)*src.c+c0+cols])
	}

	return out, nil
}

// SetBlock writes src into dst with its top-left corner at (r0, c0).
//
// Errors:
//   - ErrNilMatrix, ErrOutOfRange (src does not fit).
func SetBlock(dst *Dense, r0, c0 int, src Matrix) error {
	if dst == nil {
		return matrixErrorf(opSetBlock, ErrNilMatrix)
	}
	if err := ValidateNotNil(src); err != nil {
		return matrixErrorf(opSetBlock, err)
	}
	if r0 < 0 || c0 < 0 || r0+src.Rows() > dst.r || c0+src.Cols() > dst.c {
		return matrixErrorf(opSetBlock, ErrOutOfRange)
	}
	s, err := asDense(src)
	if err != nil {
		return matrixErrorf(opSetBlock, err)
	}
	for i := 0; i < s.r; i++ {
		copy(dst.data[(r0+i)*dst.c+c0:(r0+i)*dst.c+c0+s.c], s.data[i*s.c:(i+1)*s.c])
	}

	return nil
}
