// SPDX-License-Identifier: MIT

package epg

import (
	"math"

	"github.com/katalvlaran/mrsim/dual"
)

// gyromagnetic ratio of ¹H in rad/s/T.
const gammaH = 2 * math.Pi * 42.577e6

// RFPulse is an instantaneous rotation by Flip about the transverse axis at
// Phase. B1 scales the nominal flip; nil leaves it unscaled.
type RFPulse struct {
	Flip  dual.Number
	Phase dual.Number
	B1    *dual.Number
}

// Name implements Operator.
func (RFPulse) Name() string { return "rf_pulse" }

// Apply rotates every order of every free pool and records the receiver phase.
func (r RFPulse) Apply(s *State) error {
	rotate(s, r.Flip.Mul(unitOr(r.B1)), r.Phase)
	return nil
}

// rotation is the 3×3 mixing matrix acting on (F+, F−, Z).
type rotation [3][3]dual.Number

func newRotation(alpha, phi dual.Number) rotation {
	half := alpha.Scale(0.5)
	c2 := dual.Cos(half).Mul(dual.Cos(half))
	s2 := dual.Sin(half).Mul(dual.Sin(half))
	sa := dual.Sin(alpha)
	ep := dual.Expi(phi)
	em := dual.Expi(phi.Neg())

	return rotation{
		{c2, ep.Mul(ep).Mul(s2), ep.Mul(sa).MulC(-1i)},
		{em.Mul(em).Mul(s2), c2, em.Mul(sa).MulC(1i)},
		{em.Mul(sa).MulC(-0.5i), ep.Mul(sa).MulC(0.5i), dual.Cos(alpha)},
	}
}

func rotate(s *State, alpha, phi dual.Number) {
	t := newRotation(alpha, phi)
	free := s.freePools()
	for n := 0; n <= s.top; n++ {
		for _, p := range free {
			fp, fm, z := s.fp[n][p], s.fm[n][p], s.z[n][p]
			s.fp[n][p] = dual.Sum(t[0][0].Mul(fp), t[0][1].Mul(fm), t[0][2].Mul(z))
			s.fm[n][p] = dual.Sum(t[1][0].Mul(fp), t[1][1].Mul(fm), t[1][2].Mul(z))
			s.z[n][p] = dual.Sum(t[2][0].Mul(fp), t[2][1].Mul(fm), t[2][2].Mul(z))
		}
	}
	s.rxPhase = phi.AddC(-math.Pi / 2)
}

// Drive is one transmit channel of a multi-drive pulse.
type Drive struct {
	Scale dual.Number
	Phase dual.Number
}

// MultiDriveRF combines the complex B1 of several drives, b = Σ Scale·e^{iPhase},
// and rotates by Flip·|b| about Phase + arg(b).
type MultiDriveRF struct {
	Flip   dual.Number
	Phase  dual.Number
	Drives []Drive
}

// Name implements Operator.
func (MultiDriveRF) Name() string { return "multi_drive_rf" }

// Apply implements Operator. An empty drive list is an ErrInvalidArgument.
func (m MultiDriveRF) Apply(s *State) error {
	if len(m.Drives) == 0 {
		return epgErrorf(m.Name(), ErrInvalidArgument)
	}
	var b dual.Number
	for _, d := range m.Drives {
		b = b.Add(d.Scale.Mul(dual.Expi(d.Phase)))
	}
	rotate(s, m.Flip.Mul(dual.Abs(b)), m.Phase.Add(dual.Arg(b)))

	return nil
}

// MTSaturationRF applies Pulse to the free pools and saturates bound pools by
// Z_b ← Z_b·exp(−W·Duration) with W = π·γ²·B1rms²·G.
//
// B1rms is in µT, Duration in ms and Lineshape (G, the absorption lineshape
// at the pulse offset) in µs.
type MTSaturationRF struct {
	Pulse     RFPulse
	B1rms     dual.Number
	Duration  dual.Number
	Lineshape dual.Number
}

// Name implements Operator.
func (MTSaturationRF) Name() string { return "mt_saturation_rf" }

// Apply implements Operator.
func (m MTSaturationRF) Apply(s *State) error {
	if err := m.Pulse.Apply(s); err != nil {
		return err
	}
	b1 := m.B1rms.Scale(1e-6)    // T
	g := m.Lineshape.Scale(1e-6) // s
	w := b1.Mul(b1).Mul(g).Scale(math.Pi * gammaH * gammaH)
	sat := dual.Exp(w.Mul(m.Duration.Scale(1e-3)).Neg())
	for p, pool := range s.pools {
		if !pool.Bound {
			continue
		}
		for n := 0; n <= s.top; n++ {
			s.z[n][p] = s.z[n][p].Mul(sat)
		}
	}

	return nil
}

// AdiabaticInversion flips longitudinal magnetization, Z ← −η·s·Z, where η is
// Efficiency and s is OffResonanceScale (nil means 1 for either).
// Transverse states are left untouched.
type AdiabaticInversion struct {
	Efficiency        *dual.Number
	OffResonanceScale *dual.Number
}

// Name implements Operator.
func (AdiabaticInversion) Name() string { return "adiabatic_inversion" }

// Apply implements Operator.
func (a AdiabaticInversion) Apply(s *State) error {
	f := unitOr(a.Efficiency).Mul(unitOr(a.OffResonanceScale)).Neg()
	for n := 0; n <= s.top; n++ {
		for p := range s.pools {
			s.z[n][p] = s.z[n][p].Mul(f)
		}
	}

	return nil
}
