// SPDX-License-Identifier: MIT
// Package matrix - elementwise reductions used by the exponential kernels.
//
// Determinism:
//   - Fixed row-major traversal; early exit only on the first violation.

package matrix

import "math"

const opNorm1 = "Norm1"

// ewNorm1 returns max_j Σ_i |m[i,j]|.
func ewNorm1(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opNorm1, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return 0, matrixErrorf(opNorm1, err)
	}
	var best, s float64
	for j := 0; j < dm.c; j++ {
		s = 0
		for i := 0; i < dm.r; i++ {
			s += math.Abs(dm.data[i*dm.c+j])
		}
		if s > best {
			best = s
		}
	}

	return best, nil
}
