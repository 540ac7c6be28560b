// SPDX-License-Identifier: MIT

package epg

import "github.com/katalvlaran/mrsim/dual"

// Pool is one magnetization compartment.
//
// Equilibrium is the pool's share of the equilibrium magnetization (M0·f),
// so signals are plain sums over pools. Bound pools (MT macromolecular
// pools) carry only longitudinal magnetization: coherent RF, transverse
// relaxation and readout skip them.
type Pool struct {
	Name        string
	Equilibrium dual.Number
	Bound       bool
}

// SinglePool returns the one-compartment pool list with equilibrium m0.
func SinglePool(m0 dual.Number) []Pool {
	return []Pool{{Name: "free", Equilibrium: m0}}
}

// DetailedBalance returns the reverse exchange rate k_ji implied by the
// forward rate k_ij and the pool fractions f_i, f_j: k_ij·f_i = k_ji·f_j.
func DetailedBalance(kij, fi, fj dual.Number) dual.Number {
	return kij.Mul(fi).Div(fj)
}
