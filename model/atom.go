// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"

	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/epg"
	"github.com/katalvlaran/mrsim/jacobian"
	"github.com/katalvlaran/mrsim/params"
)

// Atom exposes one atom's parameters to Model.Evaluate.
//
// Accessors never fail inline: the first lookup error is kept and
// returned by Err, and the Simulator discards the atom's signal when Err is
// non-nil. Failed lookups return zero values.
type Atom struct {
	index int
	part  *params.Partition
	seeds jacobian.Seeds
	state []epg.Option
	err   error
}

// Index returns the atom index in the batch.
func (a *Atom) Index() int { return a.index }

// Err returns the first lookup error.
func (a *Atom) Err() error { return a.err }

func (a *Atom) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

// Has reports whether name has a value in this call.
func (a *Atom) Has(name string) bool {
	_, ok := a.part.Lookup(name)
	return ok
}

// Float returns the scalar value of name without tangent.
func (a *Atom) Float(name string) float64 {
	v, err := a.part.Scalar(a.index, name)
	if err != nil {
		a.fail(err)
		return 0
	}

	return v
}

// Param returns the scalar value of name, seeded for differentiation when
// the current call requests its derivative.
func (a *Atom) Param(name string) dual.Number {
	v, err := a.part.Scalar(a.index, name)
	if err != nil {
		a.fail(err)
		return dual.Number{}
	}

	return a.seeds.Seed(name, v)
}

// Vector returns the value of name as a slice: the full static vector, or
// the atom's single entry for a broadcast parameter.
func (a *Atom) Vector(name string) []float64 {
	loc, ok := a.part.Lookup(name)
	if !ok {
		a.fail(fmt.Errorf("%q: %w", name, params.ErrUnknownParameter))
		return nil
	}
	if loc.Broadcast {
		return []float64{a.Float(name)}
	}

	return append([]float64(nil), a.part.Static[name]...)
}

// Int returns the scalar value of name rounded to the nearest integer.
func (a *Atom) Int(name string) int {
	return int(math.Round(a.Float(name)))
}

// NewState returns an equilibrium EPG state configured with the
// simulator's order bound, tolerance, squaring budget and warning sink.
// opts are applied after those defaults.
func (a *Atom) NewState(pools []epg.Pool, opts ...epg.Option) (*epg.State, error) {
	all := make([]epg.Option, 0, len(a.state)+len(opts))
	all = append(all, a.state...)
	all = append(all, opts...)

	return epg.NewState(pools, all...)
}
