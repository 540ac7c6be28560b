// SPDX-License-Identifier: MIT

package epg

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/matrix"
)

// MaxExchangePools is the largest coupled system the exchange operators solve.
const MaxExchangePools = 3

// LongitudinalExchange solves the coupled longitudinal system
//
//	dZ/dt = A·Z + b,  A_ii = −R1_i − Σ_j K[i][j],  A_ji += K[i][j],  b = R1∘M0
//
// over Dt via exp([[A, b], [0, 0]]·Dt). K[i][j] is the rate (1/ms) at which
// magnetization moves from pool i to pool j; diagonal entries are ignored.
// Orders n > 0 see only the homogeneous part.
type LongitudinalExchange struct {
	T1 []dual.Number
	K  [][]dual.Number
	Dt dual.Number
}

// Name implements Operator.
func (LongitudinalExchange) Name() string { return "longitudinal_exchange" }

// Apply implements Operator.
func (l LongitudinalExchange) Apply(s *State) error {
	op := l.Name()
	np := len(s.pools)
	if np > MaxExchangePools {
		return epgErrorf(op, fmt.Errorf("%d pools > %d: %w", np, MaxExchangePools, ErrUnsupportedOperator))
	}
	if err := s.checkPerPool(op, "T1", len(l.T1)); err != nil {
		return err
	}
	if err := checkRates(s, op, l.K); err != nil {
		return err
	}

	g := zeroDual(np + 1)
	for i, pool := range s.pools {
		r1 := rate(l.T1[i])
		g[i][i] = g[i][i].Sub(r1)
		g[i][np] = r1.Mul(pool.Equilibrium.Real())
		for j := 0; j < np; j++ {
			if j == i {
				continue
			}
			k := l.K[i][j].Real()
			g[i][i] = g[i][i].Sub(k)
			g[j][i] = g[j][i].Add(k)
		}
	}
	scaleDual(g, l.Dt.Real())

	e, err := expmDual(g, s.squaring)
	if err = s.numeric(op, err); err != nil {
		return err
	}

	for n := 0; n <= s.top; n++ {
		next := make([]dual.Number, np)
		for i := 0; i < np; i++ {
			var acc dual.Number
			for j := 0; j < np; j++ {
				acc = acc.Add(e[i][j].Mul(s.z[n][j]))
			}
			if n == 0 {
				acc = acc.Add(e[i][np])
			}
			next[i] = acc
		}
		copy(s.z[n], next)
	}

	return nil
}

// TransverseExchange solves the coupled transverse system of the free pools
//
//	dF+/dt = B·F+,  B_ii = −R2_i − Σ_j K[i][j] + i·2π·Freq_i,  B_ji += K[i][j]
//
// and its conjugate for F−. Freq (Hz, optional) holds per-pool chemical shifts.
// Couplings into or out of bound pools are rejected with ErrUnsupportedOperator.
type TransverseExchange struct {
	T2   []dual.Number
	K    [][]dual.Number
	Freq []dual.Number
	Dt   dual.Number
}

// Name implements Operator.
func (t TransverseExchange) Name() string { return "transverse_exchange" }

// Apply implements Operator.
func (t TransverseExchange) Apply(s *State) error {
	op := t.Name()
	if err := s.checkPerPool(op, "T2", len(t.T2)); err != nil {
		return err
	}
	if t.Freq != nil {
		if err := s.checkPerPool(op, "Freq", len(t.Freq)); err != nil {
			return err
		}
	}
	if err := checkRates(s, op, t.K); err != nil {
		return err
	}
	for i, pi := range s.pools {
		for j, pj := range s.pools {
			if i != j && (pi.Bound || pj.Bound) && !isZero(t.K[i][j]) {
				return epgErrorf(op, fmt.Errorf("coupling %s→%s involves a bound pool: %w", pi.Name, pj.Name, ErrUnsupportedOperator))
			}
		}
	}
	free := s.freePools()
	m := len(free)
	if m > MaxExchangePools {
		return epgErrorf(op, fmt.Errorf("%d free pools > %d: %w", m, MaxExchangePools, ErrUnsupportedOperator))
	}
	if m == 0 {
		return nil
	}

	b := zeroDual(m)
	for a, i := range free {
		b[a][a] = b[a][a].Sub(rate(t.T2[i]))
		if t.Freq != nil {
			b[a][a] = b[a][a].Add(t.Freq[i].Scale(2 * math.Pi * 1e-3).MulC(1i))
		}
		for c, j := range free {
			if c == a {
				continue
			}
			k := t.K[i][j].Real()
			b[a][a] = b[a][a].Sub(k)
			b[c][a] = b[c][a].Add(k)
		}
	}
	scaleDual(b, t.Dt.Real())

	e, err := expmComplexDual(b, s.squaring)
	if err = s.numeric(op, err); err != nil {
		return err
	}

	for n := 0; n <= s.top; n++ {
		nextP := make([]dual.Number, m)
		nextM := make([]dual.Number, m)
		for a := 0; a < m; a++ {
			var accP, accM dual.Number
			for c, j := range free {
				accP = accP.Add(e[a][c].Mul(s.fp[n][j]))
				accM = accM.Add(e[a][c].Conj().Mul(s.fm[n][j]))
			}
			nextP[a], nextM[a] = accP, accM
		}
		for a, i := range free {
			s.fp[n][i], s.fm[n][i] = nextP[a], nextM[a]
		}
	}

	return nil
}

func checkRates(s *State, op string, k [][]dual.Number) error {
	if err := s.checkPerPool(op, "K", len(k)); err != nil {
		return err
	}
	for i := range k {
		if err := s.checkPerPool(op, fmt.Sprintf("K[%d]", i), len(k[i])); err != nil {
			return err
		}
	}

	return nil
}

func isZero(n dual.Number) bool { return n.V == 0 && n.IsConst() }

func zeroDual(n int) [][]dual.Number {
	g := make([][]dual.Number, n)
	for i := range g {
		g[i] = make([]dual.Number, n)
	}

	return g
}

func scaleDual(g [][]dual.Number, f dual.Number) {
	for i := range g {
		for j := range g[i] {
			g[i][j] = g[i][j].Mul(f)
		}
	}
}

// expmDual returns exp(G) for a square matrix of real-valued dual entries.
// Tangent k of the result is the Fréchet derivative of exp along the k-th
// tangent of G. An ill-conditioned exponential still returns the best-effort
// result together with an error matching matrix.ErrIllConditioned.
func expmDual(g [][]dual.Number, squarings int) ([][]dual.Number, error) {
	budget := matrix.WithMaxSquarings(squarings)
	n := len(g)
	width := 0
	vals := make([]float64, n*n)
	for i := range g {
		for j := range g[i] {
			vals[i*n+j] = real(g[i][j].V)
			if w := g[i][j].Width(); w > width {
				width = w
			}
		}
	}
	a, err := matrix.NewDenseFrom(n, n, vals)
	if err != nil {
		return nil, err
	}
	e, warn := matrix.Expm(a, budget)
	if warn != nil && !errors.Is(warn, matrix.ErrIllConditioned) {
		return nil, warn
	}

	out := zeroDual(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, _ := e.At(i, j)
			out[i][j] = dual.Const(v)
			if width > 0 {
				out[i][j].D = make([]complex128, width)
			}
		}
	}

	dir := make([]float64, n*n)
	for k := 0; k < width; k++ {
		active := false
		for i := range g {
			for j := range g[i] {
				dir[i*n+j] = real(g[i][j].Tangent(k))
				active = active || dir[i*n+j] != 0
			}
		}
		if !active {
			continue
		}
		dm, err := matrix.NewDenseFrom(n, n, dir)
		if err != nil {
			return nil, err
		}
		_, l, ferr := matrix.ExpmFrechet(a, dm, budget)
		if ferr != nil && !errors.Is(ferr, matrix.ErrIllConditioned) {
			return nil, ferr
		}
		if ferr != nil && warn == nil {
			warn = ferr
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				v, _ := l.At(i, j)
				out[i][j].D[k] = complex(v, 0)
			}
		}
	}

	return out, warn
}

// expmComplexDual exponentiates a complex dual matrix through its real
// embedding [[Re, −Im], [Im, Re]].
func expmComplexDual(g [][]dual.Number, squarings int) ([][]dual.Number, error) {
	m := len(g)
	emb := zeroDual(2 * m)
	for i := range g {
		for j := range g[i] {
			re, im := g[i][j].Real(), g[i][j].Imag()
			emb[i][j], emb[m+i][m+j] = re, re
			emb[m+i][j], emb[i][m+j] = im, im.Neg()
		}
	}
	r, err := expmDual(emb, squarings)
	if r == nil {
		return nil, err
	}
	out := zeroDual(m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			out[i][j] = r[i][j].Add(r[m+i][j].MulC(1i))
		}
	}

	return out, err
}
