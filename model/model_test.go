// SPDX-License-Identifier: MIT

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/epg"
	"github.com/katalvlaran/mrsim/model"
	"github.com/katalvlaran/mrsim/params"
)

// flash is an RF-spoiled gradient-echo train: one readout at TE after each
// pulse of the flip train, ideal spoiling at the end of every TR.
type flash struct{}

func (flash) Parameters() []params.Spec {
	return []params.Spec{
		{Name: "T1", Unit: "ms", Required: true, Differentiable: true},
		{Name: "T2", Unit: "ms", Required: true, Differentiable: true},
		{Name: "M0", Default: []float64{1}, Differentiable: true},
		{Name: "B1", Default: []float64{1}, Differentiable: true},
	}
}

func (flash) Sequence() []params.Spec {
	return []params.Spec{
		{Name: "TR", Unit: "ms", Default: []float64{10}, Differentiable: true},
		{Name: "TE", Unit: "ms", Default: []float64{4}, Differentiable: true},
		{Name: "flips", Unit: "rad", Default: []float64{0.2, 0.4, 0.6}, Broadcast: params.BroadcastNever},
		{Name: "dummies", Default: []float64{0}},
	}
}

func (flash) Evaluate(a *model.Atom) ([]dual.Number, error) {
	t1 := []dual.Number{a.Param("T1")}
	t2 := []dual.Number{a.Param("T2")}
	b1 := a.Param("B1")
	tr, te := a.Param("TR"), a.Param("TE")
	flips := a.Vector("flips")
	if a.Err() != nil {
		return nil, a.Err()
	}

	s, err := a.NewState(epg.SinglePool(a.Param("M0")))
	if err != nil {
		return nil, err
	}
	tr1 := epg.Composite{Label: "readout", Ops: []epg.Operator{
		epg.Interval{T1: t1, T2: t2, Dt: te},
	}}
	tr2 := epg.Composite{Label: "recovery", Ops: []epg.Operator{
		epg.Interval{T1: t1, T2: t2, Dt: tr.Sub(te)},
		epg.Spoil{},
	}}

	var seq epg.Sequence
	for i := 0; i < a.Int("dummies"); i++ {
		seq = append(seq,
			epg.Event{Op: epg.RFPulse{Flip: dual.Const(flips[0]), B1: &b1}},
			epg.Event{Op: tr1},
			epg.Event{Op: tr2},
		)
	}
	for _, f := range flips {
		seq = append(seq,
			epg.Event{Op: epg.RFPulse{Flip: dual.Const(f), B1: &b1}},
			epg.Event{Op: tr1, Observe: true},
			epg.Event{Op: tr2},
		)
	}

	return seq.Run(s)
}

// manualFlash supplies the M0 column analytically: the signal is linear in M0.
type manualFlash struct{ flash }

func (manualFlash) Derivatives() map[string]model.Derivative {
	return map[string]model.Derivative{
		"M0": func(a *model.Atom, sig []complex128) ([]complex128, error) {
			m0 := complex(a.Float("M0"), 0)
			out := make([]complex128, len(sig))
			for t, v := range sig {
				out[t] = v / m0
			}
			return out, nil
		},
	}
}

// checkedFlash refuses echo times outside the repetition time.
type checkedFlash struct{ flash }

func (checkedFlash) Validate(static map[string][]float64) error {
	if static["TE"][0] >= static["TR"][0] {
		return params.ErrInvalidValue
	}
	return nil
}

// badManual registers derivatives the simulator must reject.
type badManual struct{ flash }

func (badManual) Derivatives() map[string]model.Derivative {
	return map[string]model.Derivative{
		"dummies": func(*model.Atom, []complex128) ([]complex128, error) { return nil, nil },
		"T9":      func(*model.Atom, []complex128) ([]complex128, error) { return nil, nil },
		"T1":      nil,
	}
}

// lookupError reads an undeclared parameter.
type lookupError struct{ flash }

func (lookupError) Evaluate(a *model.Atom) ([]dual.Number, error) {
	_ = a.Param("nope")
	return []dual.Number{dual.Const(1)}, nil
}

// fourPools asks for exchange among four pools, which no exchange
// operator supports.
type fourPools struct{ flash }

func (fourPools) Evaluate(a *model.Atom) ([]dual.Number, error) {
	q := dual.Const(0.25)
	s, err := a.NewState([]epg.Pool{{Name: "a", Equilibrium: q}, {Name: "b", Equilibrium: q}, {Name: "c", Equilibrium: q}, {Name: "d", Equilibrium: q}})
	if err != nil {
		return nil, err
	}
	k := make([][]dual.Number, 4)
	for i := range k {
		k[i] = []dual.Number{q, q, q, q}
	}
	t1 := a.Param("T1")
	return epg.Sequence{
		{Op: epg.LongitudinalExchange{T1: []dual.Number{t1, t1, t1, t1}, K: k, Dt: dual.Const(1)}, Observe: true},
	}.Run(s)
}

// dephaser shifts once past a zero order bound to trigger truncation.
type dephaser struct{ flash }

func (dephaser) Evaluate(a *model.Atom) ([]dual.Number, error) {
	s, err := a.NewState(epg.SinglePool(dual.Const(1)))
	if err != nil {
		return nil, err
	}
	return epg.Sequence{
		{Op: epg.RFPulse{Flip: dual.Const(1.2)}},
		{Op: epg.Shift{Units: 1}, Observe: true},
	}.Run(s)
}

func tissue() params.Values {
	return params.Values{
		"T1": {800, 1000, 1200, 1500, 2000},
		"T2": {40, 60, 80, 100, 150},
	}
}

func mustSim(t *testing.T, m model.Model, opts ...model.Option) *model.Simulator {
	t.Helper()
	sim, err := model.New(m, opts...)
	require.NoError(t, err)

	return sim
}
