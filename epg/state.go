// SPDX-License-Identifier: MIT

package epg

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/matrix"
)

const ctxNewState = "epg.NewState"

// State is the EPG state matrix of one atom.
//
// Orders above Order() are known to be zero and are skipped by operators.
// A State is not safe for concurrent use; each atom owns its own.
type State struct {
	pools    []Pool
	maxOrder int
	top      int // highest order that may be non-zero

	fp, fm, z [][]dual.Number // [order][pool]

	rxPhase dual.Number // demodulation phase recorded by the last RF pulse
	clock   float64     // ms

	truncErr float64
	truncTol float64
	squaring int
	warn     WarnFunc
	warned   map[string]bool // kind|operator already reported
}

// NewState builds the equilibrium state: Z[0][p] = pools[p].Equilibrium,
// every other coefficient zero.
//
// Errors:
//   - ErrInvalidArgument for an empty pool list, negative max order, a
//     negative/non-finite truncation tolerance or a negative squaring budget.
//   - ErrPoolMismatch when WithInitialZ does not match the pool count.
func NewState(pools []Pool, opts ...Option) (*State, error) {
	o := gatherOptions(opts...)
	if len(pools) == 0 {
		return nil, epgErrorf(ctxNewState, fmt.Errorf("no pools: %w", ErrInvalidArgument))
	}
	if err := o.validate(); err != nil {
		return nil, epgErrorf(ctxNewState, err)
	}

	s := &State{
		pools:    append([]Pool(nil), pools...),
		maxOrder: o.maxOrder,
		truncTol: o.truncTol,
		squaring: o.squaring,
		warn:     o.warn,
		rxPhase:  dual.Const(-math.Pi / 2),
		warned:   make(map[string]bool),
	}
	s.fp = newGrid(o.maxOrder+1, len(pools))
	s.fm = newGrid(o.maxOrder+1, len(pools))
	s.z = newGrid(o.maxOrder+1, len(pools))
	for p, pool := range pools {
		s.z[0][p] = pool.Equilibrium
	}
	if o.initialZ != nil {
		if err := s.checkPerPool(ctxNewState, "initial Z", len(o.initialZ)); err != nil {
			return nil, err
		}
		copy(s.z[0], o.initialZ)
	}

	return s, nil
}

func newGrid(orders, pools int) [][]dual.Number {
	g := make([][]dual.Number, orders)
	for n := range g {
		g[n] = make([]dual.Number, pools)
	}

	return g
}

// NumPools returns the number of pools.
func (s *State) NumPools() int { return len(s.pools) }

// Pools returns a copy of the pool list.
func (s *State) Pools() []Pool { return append([]Pool(nil), s.pools...) }

// MaxOrder returns the highest tracked configuration order.
func (s *State) MaxOrder() int { return s.maxOrder }

// Order returns the highest order that may hold non-zero coefficients.
func (s *State) Order() int { return s.top }

// Clock returns the accumulated event duration in ms.
func (s *State) Clock() float64 { return s.clock }

// TruncationError returns the total magnitude discarded by shifts past MaxOrder.
func (s *State) TruncationError() float64 { return s.truncErr }

// Fplus returns F+[n][p]; out-of-range indices read as zero.
func (s *State) Fplus(n, p int) dual.Number { return s.at(s.fp, n, p) }

// Fminus returns F−[n][p]; out-of-range indices read as zero.
func (s *State) Fminus(n, p int) dual.Number { return s.at(s.fm, n, p) }

// Z returns Z[n][p]; out-of-range indices read as zero.
func (s *State) Z(n, p int) dual.Number { return s.at(s.z, n, p) }

func (s *State) at(g [][]dual.Number, n, p int) dual.Number {
	if n < 0 || n > s.maxOrder || p < 0 || p >= len(s.pools) {
		return dual.Number{}
	}

	return g[n][p]
}

// Clone returns an independent copy sharing only the warning sink.
func (s *State) Clone() *State {
	cp := *s
	cp.pools = append([]Pool(nil), s.pools...)
	cp.fp = cloneGrid(s.fp)
	cp.fm = cloneGrid(s.fm)
	cp.z = cloneGrid(s.z)
	cp.warned = make(map[string]bool, len(s.warned))
	for k, v := range s.warned {
		cp.warned[k] = v
	}

	return &cp
}

func cloneGrid(g [][]dual.Number) [][]dual.Number {
	out := make([][]dual.Number, len(g))
	for n := range g {
		out[n] = append([]dual.Number(nil), g[n]...)
	}

	return out
}

// checkPerPool validates the length of a per-pool argument.
func (s *State) checkPerPool(op, arg string, n int) error {
	if n != len(s.pools) {
		return epgErrorf(op, fmt.Errorf("%s has %d entries for %d pools: %w", arg, n, len(s.pools), ErrPoolMismatch))
	}

	return nil
}

// freePools returns the indices of pools that carry transverse magnetization.
func (s *State) freePools() []int {
	idx := make([]int, 0, len(s.pools))
	for p, pool := range s.pools {
		if !pool.Bound {
			idx = append(idx, p)
		}
	}

	return idx
}

// emit delivers w once per (kind, operator) for the lifetime of the state.
func (s *State) emit(w Warning) {
	key := string(w.Kind) + "|" + w.Operator
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	s.warn(w)
}

// numeric turns an ill-conditioned exponential into a warning and passes
// every other error through.
func (s *State) numeric(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, matrix.ErrIllConditioned) {
		s.emit(Warning{Kind: WarnIllConditioned, Operator: op, Detail: err.Error()})
		return nil
	}

	return epgErrorf(op, err)
}

// addTruncation accumulates discarded magnitude and warns past tolerance.
func (s *State) addTruncation(op string, lost float64) {
	if lost == 0 {
		return
	}
	s.truncErr += lost
	if s.truncErr > s.truncTol {
		s.emit(Warning{
			Kind:     WarnTruncation,
			Operator: op,
			Detail:   fmt.Sprintf("discarded magnitude beyond order %d exceeds tolerance %g", s.maxOrder, s.truncTol),
			Value:    s.truncErr,
		})
	}
}
