// SPDX-License-Identifier: MIT

package epg

import "github.com/katalvlaran/mrsim/dual"

// Signal returns the demodulated signal Σ_free F+[0][p]·e^{−iφ_rx}, where φ_rx
// is the receiver phase recorded by the last RF pulse. A 90° pulse about
// phase 0 on unit equilibrium therefore reads 1+0i.
func Signal(s *State) dual.Number {
	demod := dual.Expi(s.rxPhase.Neg())
	var sum dual.Number
	for _, p := range s.freePools() {
		sum = sum.Add(s.fp[0][p])
	}

	return sum.Mul(demod)
}
