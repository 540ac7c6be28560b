// Package matrix provides the small dense linear-algebra kernels used by the
// EPG engine for coupled (exchange) relaxation.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and an
//     optional finite-value numeric policy.
//   - Block and SetBlock for assembling block matrices.
//   - Expm, the matrix exponential by Padé(6,6) scaling and squaring, and
//     ExpmFrechet, the directional (Fréchet) derivative of Expm computed from
//     the exponential of a 2n×2n block upper-triangular matrix.
//
// Matrices in the EPG engine are tiny (at most 16×16 after complex embedding
// and derivative blocks), so every kernel favors determinism and clarity over
// blocking or pivoting strategies.
package matrix
