// SPDX-License-Identifier: MIT

package epg

import (
	"math/cmplx"

	"github.com/katalvlaran/mrsim/dual"
)

// Shift dephases by Units configuration orders (negative values rephase).
// Coefficients pushed past MaxOrder are discarded and their magnitude is
// added to the state's truncation error.
type Shift struct {
	Units int
}

// Name implements Operator.
func (Shift) Name() string { return "shift" }

// Apply implements Operator.
func (sh Shift) Apply(s *State) error {
	step := 1
	count := sh.Units
	if count < 0 {
		step, count = -1, -count
	}
	for i := 0; i < count; i++ {
		if step > 0 {
			shiftUp(s, sh.Name())
		} else {
			shiftDown(s, sh.Name())
		}
	}

	return nil
}

// shiftUp moves F+ to higher orders and F− to lower ones; F+[0] = conj(F−[0]).
func shiftUp(s *State, op string) {
	m := s.maxOrder
	var lost float64
	for _, p := range s.freePools() {
		lost += cmplx.Abs(s.fp[m][p].V)
		for n := m; n > 0; n-- {
			s.fp[n][p] = s.fp[n-1][p]
		}
		for n := 0; n < m; n++ {
			s.fm[n][p] = s.fm[n+1][p]
		}
		s.fm[m][p] = dual.Number{}
		s.fp[0][p] = s.fm[0][p].Conj()
	}
	if s.top < m {
		s.top++
	}
	s.addTruncation(op, lost)
}

// shiftDown is the mirror of shiftUp; F−[0] = conj(F+[0]).
func shiftDown(s *State, op string) {
	m := s.maxOrder
	var lost float64
	for _, p := range s.freePools() {
		lost += cmplx.Abs(s.fm[m][p].V)
		for n := m; n > 0; n-- {
			s.fm[n][p] = s.fm[n-1][p]
		}
		for n := 0; n < m; n++ {
			s.fp[n][p] = s.fp[n+1][p]
		}
		s.fp[m][p] = dual.Number{}
		s.fm[0][p] = s.fp[0][p].Conj()
	}
	if s.top < m {
		s.top++
	}
	s.addTruncation(op, lost)
}

// Spoil zeroes all transverse states; Z is unchanged.
type Spoil struct{}

// Name implements Operator.
func (Spoil) Name() string { return "spoil" }

// Apply implements Operator.
func (Spoil) Apply(s *State) error {
	for n := 0; n <= s.maxOrder; n++ {
		for p := range s.pools {
			s.fp[n][p] = dual.Number{}
			s.fm[n][p] = dual.Number{}
		}
	}

	return nil
}

// Diffusion attenuates each state by exp(−b·D) with the b-values of a
// gradient of wave number K (rad/µm) over Tau (ms):
//
//	F+[n]: ((n−½)² + 1/12)·K²·Tau
//	F−[n]: ((n+½)² + 1/12)·K²·Tau
//	Z[n]:  n²·K²·Tau
//
// D is in µm²/ms. Apply it after the corresponding Shift.
type Diffusion struct {
	D   dual.Number
	K   dual.Number
	Tau dual.Number
}

// Name implements Operator.
func (Diffusion) Name() string { return "diffusion" }

// Apply implements Operator.
func (d Diffusion) Apply(s *State) error {
	base := d.K.Mul(d.K).Mul(d.Tau).Mul(d.D) // k²·τ·D
	free := s.freePools()
	for n := 0; n <= s.top; n++ {
		fn := float64(n)
		ap := dual.Exp(base.Scale((fn-0.5)*(fn-0.5) + 1.0/12).Neg())
		am := dual.Exp(base.Scale((fn+0.5)*(fn+0.5) + 1.0/12).Neg())
		az := dual.Exp(base.Scale(fn * fn).Neg())
		for _, p := range free {
			s.fp[n][p] = s.fp[n][p].Mul(ap)
			s.fm[n][p] = s.fm[n][p].Mul(am)
		}
		for p := range s.pools {
			s.z[n][p] = s.z[n][p].Mul(az)
		}
	}

	return nil
}

// Flow replaces a Fraction of the magnetization with fresh equilibrium spins:
// every state is scaled by (1−f) and Z[0] gains f·M0.
type Flow struct {
	Fraction dual.Number
}

// Name implements Operator.
func (Flow) Name() string { return "flow" }

// Apply implements Operator.
func (f Flow) Apply(s *State) error {
	keep := f.Fraction.Neg().AddC(1)
	for n := 0; n <= s.top; n++ {
		for p := range s.pools {
			s.fp[n][p] = s.fp[n][p].Mul(keep)
			s.fm[n][p] = s.fm[n][p].Mul(keep)
			s.z[n][p] = s.z[n][p].Mul(keep)
		}
	}
	for p, pool := range s.pools {
		s.z[0][p] = s.z[0][p].Add(pool.Equilibrium.Mul(f.Fraction))
	}

	return nil
}
