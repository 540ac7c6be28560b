// SPDX-License-Identifier: MIT

package epg

import (
	"math"

	"github.com/katalvlaran/mrsim/dual"
)

// decay returns exp(−dt/T); T = +Inf means no relaxation.
func decay(t, dt dual.Number) dual.Number {
	if math.IsInf(real(t.V), 1) {
		return dual.Const(1)
	}

	return dual.Exp(dt.Div(t).Neg())
}

// rate returns 1/T; T = +Inf gives 0.
func rate(t dual.Number) dual.Number {
	if math.IsInf(real(t.V), 1) {
		return dual.Number{}
	}

	return t.Inv()
}

// Longitudinal relaxes Z toward equilibrium over Dt:
// Z[n] ← Z[n]·E1, Z[0] ← Z[0] + M0·(1−E1), E1 = exp(−Dt/T1) per pool.
type Longitudinal struct {
	T1 []dual.Number
	Dt dual.Number
}

// Name implements Operator.
func (Longitudinal) Name() string { return "longitudinal_relaxation" }

// Apply implements Operator.
func (l Longitudinal) Apply(s *State) error {
	if err := s.checkPerPool(l.Name(), "T1", len(l.T1)); err != nil {
		return err
	}
	for p, pool := range s.pools {
		e1 := decay(l.T1[p], l.Dt)
		for n := 0; n <= s.top; n++ {
			s.z[n][p] = s.z[n][p].Mul(e1)
		}
		s.z[0][p] = s.z[0][p].Add(pool.Equilibrium.Mul(e1.Neg().AddC(1)))
	}

	return nil
}

// Transverse decays F± of free pools by exp(−Dt/T2). T2 entries of bound
// pools are ignored.
type Transverse struct {
	T2 []dual.Number
	Dt dual.Number
}

// Name implements Operator.
func (Transverse) Name() string { return "transverse_relaxation" }

// Apply implements Operator.
func (t Transverse) Apply(s *State) error {
	if err := s.checkPerPool(t.Name(), "T2", len(t.T2)); err != nil {
		return err
	}
	for _, p := range s.freePools() {
		e2 := decay(t.T2[p], t.Dt)
		for n := 0; n <= s.top; n++ {
			s.fp[n][p] = s.fp[n][p].Mul(e2)
			s.fm[n][p] = s.fm[n][p].Mul(e2)
		}
	}

	return nil
}

// Interval is free relaxation over Dt: Transverse then Longitudinal.
type Interval struct {
	T1, T2 []dual.Number
	Dt     dual.Number
}

// Name implements Operator.
func (Interval) Name() string { return "interval" }

// Apply implements Operator.
func (iv Interval) Apply(s *State) error {
	if err := (Transverse{T2: iv.T2, Dt: iv.Dt}).Apply(s); err != nil {
		return err
	}

	return Longitudinal{T1: iv.T1, Dt: iv.Dt}.Apply(s)
}

// Precession accrues off-resonance phase over Dt per free pool:
// F+ ← F+·e^{i2πfΔt}, F− ← F−·e^{−i2πfΔt}, with f in Hz and Δt in ms.
type Precession struct {
	Freq []dual.Number
	Dt   dual.Number
}

// Name implements Operator.
func (Precession) Name() string { return "precession" }

// Apply implements Operator.
func (pr Precession) Apply(s *State) error {
	if err := s.checkPerPool(pr.Name(), "Freq", len(pr.Freq)); err != nil {
		return err
	}
	for _, p := range s.freePools() {
		theta := pr.Freq[p].Mul(pr.Dt).Scale(2 * math.Pi * 1e-3)
		up, down := dual.Expi(theta), dual.Expi(theta.Neg())
		for n := 0; n <= s.top; n++ {
			s.fp[n][p] = s.fp[n][p].Mul(up)
			s.fm[n][p] = s.fm[n][p].Mul(down)
		}
	}

	return nil
}
