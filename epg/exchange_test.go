// SPDX-License-Identifier: MIT

package epg_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/epg"
	"github.com/stretchr/testify/require"
)

func twoPools(a, b float64) []epg.Pool {
	return []epg.Pool{
		{Name: "a", Equilibrium: c(a)},
		{Name: "b", Equilibrium: c(b)},
	}
}

func rates(k [][]float64) [][]dual.Number {
	out := make([][]dual.Number, len(k))
	for i := range k {
		out[i] = cs(k[i]...)
	}

	return out
}

// Two pools with equal fractions, symmetric exchange and no T1 recovery,
// starting with all magnetization in pool a, converge to an equal split while
// conserving total longitudinal magnetization.
func TestLongitudinalExchange_SymmetricSplit(t *testing.T) {
	const k = 0.1
	inf := math.Inf(1)

	for _, dt := range []float64{0.5, 5, 2000} {
		s := mustState(t, twoPools(0.5, 0.5), epg.WithInitialZ(c(1), c(0)))
		op := epg.LongitudinalExchange{
			T1: cs(inf, inf),
			K:  rates([][]float64{{0, k}, {k, 0}}),
			Dt: c(dt),
		}
		require.NoError(t, op.Apply(s))

		za, zb := real(s.Z(0, 0).V), real(s.Z(0, 1).V)
		want := 0.5 + 0.5*math.Exp(-2*k*dt)
		require.InDelta(t, want, za, 1e-12, "dt=%v", dt)
		require.InDelta(t, 1.0, za+zb, 1e-12, "dt=%v", dt)
	}
}

func TestLongitudinalExchange_SplitWithT1Recovery(t *testing.T) {
	s := mustState(t, twoPools(0.5, 0.5), epg.WithInitialZ(c(1), c(0)))
	op := epg.LongitudinalExchange{
		T1: cs(1000, 1000),
		K:  rates([][]float64{{0, 0.05}, {0.05, 0}}),
		Dt: c(10),
	}
	prevGap := 1.0
	for i := 0; i < 20; i++ {
		require.NoError(t, op.Apply(s))
		za, zb := real(s.Z(0, 0).V), real(s.Z(0, 1).V)
		gap := za - zb
		require.Less(t, gap, prevGap)
		prevGap = gap
		// Equal T1 and equal fractions: the total relaxes like a single pool.
		require.InDelta(t, 1.0, za+zb, 1e-12)
	}
	require.InDelta(t, 0, prevGap, 1e-6)
}

func TestLongitudinalExchange_RateDerivative(t *testing.T) {
	const k0, dt = 0.1, 5.0
	inf := math.Inf(1)
	s := mustState(t, twoPools(0.5, 0.5), epg.WithInitialZ(c(1), c(0)))
	kv := dual.Var(k0, 0, 1)
	op := epg.LongitudinalExchange{
		T1: cs(inf, inf),
		K:  [][]dual.Number{{c(0), kv}, {kv, c(0)}},
		Dt: c(dt),
	}
	require.NoError(t, op.Apply(s))

	// d/dk [½ + ½·e^{−2kt}] = −t·e^{−2kt}
	require.InDelta(t, -dt*math.Exp(-2*k0*dt), real(s.Z(0, 0).Tangent(0)), 1e-10)
	require.InDelta(t, dt*math.Exp(-2*k0*dt), real(s.Z(0, 1).Tangent(0)), 1e-10)
}

func TestLongitudinalExchange_ZeroRatesMatchUncoupled(t *testing.T) {
	t1 := []dual.Number{dual.Var(900, 0, 2), dual.Var(400, 1, 2)}
	a := mustState(t, twoPools(0.8, 0.2))
	b := mustState(t, twoPools(0.8, 0.2))
	for _, s := range []*epg.State{a, b} {
		require.NoError(t, epg.AdiabaticInversion{}.Apply(s))
	}
	require.NoError(t, epg.LongitudinalExchange{T1: t1, K: rates([][]float64{{0, 0}, {0, 0}}), Dt: c(150)}.Apply(a))
	require.NoError(t, epg.Longitudinal{T1: t1, Dt: c(150)}.Apply(b))

	for p := 0; p < 2; p++ {
		za, zb := a.Z(0, p), b.Z(0, p)
		require.InDelta(t, real(zb.V), real(za.V), 1e-12)
		for k := 0; k < 2; k++ {
			require.InDelta(t, real(zb.Tangent(k)), real(za.Tangent(k)), 1e-12)
		}
	}
}

func TestTransverseExchange_ZeroRatesMatchUncoupled(t *testing.T) {
	t2 := cs(40, 15)
	freq := cs(0, 30)
	a := mustState(t, twoPools(0.6, 0.4))
	b := mustState(t, twoPools(0.6, 0.4))
	for _, s := range []*epg.State{a, b} {
		require.NoError(t, epg.RFPulse{Flip: deg(70)}.Apply(s))
	}
	require.NoError(t, epg.TransverseExchange{T2: t2, K: rates([][]float64{{0, 0}, {0, 0}}), Freq: freq, Dt: c(6)}.Apply(a))
	require.NoError(t, epg.Transverse{T2: t2, Dt: c(6)}.Apply(b))
	require.NoError(t, epg.Precession{Freq: freq, Dt: c(6)}.Apply(b))

	for p := 0; p < 2; p++ {
		require.InDelta(t, 0, cmplx.Abs(a.Fplus(0, p).V-b.Fplus(0, p).V), 1e-12)
		require.InDelta(t, 0, cmplx.Abs(a.Fminus(0, p).V-b.Fminus(0, p).V), 1e-12)
	}
}

func TestTransverseExchange_ConservesWithoutRelaxation(t *testing.T) {
	inf := math.Inf(1)
	s := mustState(t, twoPools(0.5, 0.5))
	require.NoError(t, epg.RFPulse{Flip: deg(90)}.Apply(s))
	op := epg.TransverseExchange{T2: cs(inf, inf), K: rates([][]float64{{0, 0.3}, {0.3, 0}}), Dt: c(10)}
	require.NoError(t, op.Apply(s))
	require.InDelta(t, 1, real(epg.Signal(s).V), 1e-12)
}

func TestExchange_Unsupported(t *testing.T) {
	four := []epg.Pool{
		{Name: "a", Equilibrium: c(0.25)},
		{Name: "b", Equilibrium: c(0.25)},
		{Name: "c", Equilibrium: c(0.25)},
		{Name: "d", Equilibrium: c(0.25)},
	}
	s := mustState(t, four)
	k := rates([][]float64{{0, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 0, 1}, {1, 1, 1, 0}})
	err := epg.LongitudinalExchange{T1: cs(1, 1, 1, 1), K: k, Dt: c(1)}.Apply(s)
	require.ErrorIs(t, err, epg.ErrUnsupportedOperator)
	err = epg.TransverseExchange{T2: cs(1, 1, 1, 1), K: k, Dt: c(1)}.Apply(s)
	require.ErrorIs(t, err, epg.ErrUnsupportedOperator)

	mt := mustState(t, []epg.Pool{
		{Name: "free", Equilibrium: c(0.9)},
		{Name: "bound", Equilibrium: c(0.1), Bound: true},
	})
	err = epg.TransverseExchange{T2: cs(50, 0.01), K: rates([][]float64{{0, 0.1}, {0.9, 0}}), Dt: c(1)}.Apply(mt)
	require.ErrorIs(t, err, epg.ErrUnsupportedOperator)

	err = epg.LongitudinalExchange{T1: cs(1, 1), K: rates([][]float64{{0, 1}}), Dt: c(1)}.Apply(mt)
	require.ErrorIs(t, err, epg.ErrPoolMismatch)
}
