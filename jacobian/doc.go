// SPDX-License-Identifier: MIT

// Package jacobian computes forward signals and their parameter Jacobians
// by forward-mode tangent propagation through the chunked executor.
//
// A Jacobian call is a forward pass in which every requested parameter is
// read as dual.Var seeded at its own tangent slot (see Seeds). The model
// evaluates once per atom; the values give the signal and the tangents give
// the columns. Names with a Manual derivative are not seeded: their column
// is computed by the closure inside the same per-atom step, so automatic
// and manual columns mix freely and share chunking and device placement.
//
// Result.Jac[atom][t][k] is ∂Signal[atom][t]/∂Names[k]. Derivatives of a
// complex signal with respect to real parameters are complex; Real gives
// the real-part view for models whose signal is real.
package jacobian
