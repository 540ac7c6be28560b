// SPDX-License-Identifier: MIT

package model

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/katalvlaran/mrsim/backend"
	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/epg"
	"github.com/katalvlaran/mrsim/executor"
	"github.com/katalvlaran/mrsim/jacobian"
	"github.com/katalvlaran/mrsim/params"
)

// Simulator runs one Model on a fixed backend.
type Simulator struct {
	model     Model
	schema    *params.Schema
	manual    map[string]Derivative
	validator Validator
	engine    *jacobian.Engine
	device    string
	diff      []string
	state     []epg.Option
	partition []params.Option
	log       *logrus.Entry
}

// New checks the model's capabilities and builds the execution pipeline.
//
// Implementation:
//   - Stage 1: merge Parameters (as params.Tissue) and Sequence (as
//     params.Sequence) into one schema.
//   - Stage 2: check every manual derivative and default diff name against
//     the schema.
//   - Stage 3: build the backend, executor and Jacobian engine.
//
// Everything is checked here so that no misconfiguration surfaces from
// inside a chunk.
//
// Errors (aggregated with go-multierror):
//   - ErrNilModel; schema errors from params.NewSchema.
//   - ErrInvalidDerivative, params.ErrUnknownParameter,
//     params.ErrNotDifferentiable, jacobian.ErrDuplicateName.
//   - epg.ErrInvalidArgument for a bad order bound, truncation tolerance
//     or squaring budget.
//   - backend.ErrUnknownDevice, executor.ErrInvalidChunkSize.
func New(m Model, opts ...Option) (*Simulator, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o := gatherOptions(opts...)

	specs := make([]params.Spec, 0)
	for _, sp := range m.Parameters() {
		sp.Kind = params.Tissue
		specs = append(specs, sp)
	}
	for _, sp := range m.Sequence() {
		sp.Kind = params.Sequence
		specs = append(specs, sp)
	}
	schema, err := params.NewSchema(specs...)
	if err != nil {
		return nil, fmt.Errorf("model: schema: %w", err)
	}

	s := &Simulator{
		model:     m,
		schema:    schema,
		manual:    map[string]Derivative{},
		device:    o.device,
		diff:      o.diff,
		partition: o.partition,
		log:       o.log,
		state: []epg.Option{
			epg.WithMaxOrder(o.maxOrder),
			epg.WithTruncationTolerance(o.truncTol),
			epg.WithMaxSquarings(o.squarings),
			epg.WithWarnFunc(o.warn),
		},
	}
	if v, ok := m.(Validator); ok {
		s.validator = v
	}

	var result *multierror.Error
	if err := epg.ValidateOptions(s.state...); err != nil {
		result = multierror.Append(result, fmt.Errorf("model: state options: %w", err))
	}
	if md, ok := m.(ManualDerivatives); ok {
		derivs := md.Derivatives()
		names := maps.Keys(derivs)
		slices.Sort(names)
		for _, n := range names {
			if err := checkDifferentiable(schema, n); err != nil {
				result = multierror.Append(result, fmt.Errorf("manual derivative: %w", err))
				continue
			}
			if derivs[n] == nil {
				result = multierror.Append(result, fmt.Errorf("%q: nil closure: %w", n, ErrInvalidDerivative))
				continue
			}
			s.manual[n] = derivs[n]
		}
	}
	if _, err := jacobian.NewSeeds(o.diff...); err != nil {
		result = multierror.Append(result, fmt.Errorf("default diff: %w", err))
	}
	for _, n := range o.diff {
		if err := checkDifferentiable(schema, n); err != nil {
			result = multierror.Append(result, fmt.Errorf("default diff: %w", err))
		}
	}

	b, err := backend.New(o.device)
	if err != nil {
		result = multierror.Append(result, err)
	}
	if err == nil {
		ex, err := executor.New(b, o.chunkSize, executor.WithLogger(o.log.WithField("component", "executor")))
		if err != nil {
			result = multierror.Append(result, err)
		} else {
			s.engine, _ = jacobian.New(ex)
			s.device = b.Device()
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return s, nil
}

func checkDifferentiable(schema *params.Schema, name string) error {
	sp, ok := schema.Spec(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, params.ErrUnknownParameter)
	}
	if !sp.Differentiable {
		return fmt.Errorf("%q: %w", name, params.ErrNotDifferentiable)
	}

	return nil
}

// Schema returns the merged parameter schema.
func (s *Simulator) Schema() *params.Schema { return s.schema }

// Device returns the normalized device identifier.
func (s *Simulator) Device() string { return s.device }

// Diff returns the default derivative names.
func (s *Simulator) Diff() []string { return append([]string(nil), s.diff...) }

// prepare partitions values and runs the model's static checks.
func (s *Simulator) prepare(values params.Values) (*params.Partition, error) {
	p, err := s.schema.Partition(values, s.partition...)
	if err != nil {
		return nil, err
	}
	if s.validator != nil {
		if err := s.validator.Validate(p.Static); err != nil {
			return nil, fmt.Errorf("model: validate: %w", err)
		}
	}

	return p, nil
}

func (s *Simulator) atom(p *params.Partition, i int, seeds jacobian.Seeds) *Atom {
	return &Atom{index: i, part: p, seeds: seeds, state: s.state}
}

func (s *Simulator) eval(p *params.Partition) jacobian.Eval {
	return func(i int, seeds jacobian.Seeds) ([]dual.Number, error) {
		a := s.atom(p, i, seeds)
		sig, err := s.model.Evaluate(a)
		if err != nil {
			return nil, err
		}
		if err := a.Err(); err != nil {
			return nil, err
		}

		return sig, nil
	}
}

// Forward returns the signal of every atom, shaped atoms × timepoints.
func (s *Simulator) Forward(values params.Values) ([][]complex128, error) {
	p, err := s.prepare(values)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"atoms": p.Atoms, "device": s.device}).Debug("forward")

	return s.engine.Forward(p, s.eval(p))
}

// Jacobian returns the signal and its derivatives with respect to diff
// (the default names when diff is empty), columns in diff order.
func (s *Simulator) Jacobian(values params.Values, diff ...string) (*jacobian.Result, error) {
	if len(diff) == 0 {
		diff = s.diff
	}
	p, err := s.prepare(values)
	if err != nil {
		return nil, err
	}
	manual := make(map[string]jacobian.Manual, len(s.manual))
	for n, d := range s.manual {
		manual[n] = func(i int, sig []complex128) ([]complex128, error) {
			a := s.atom(p, i, jacobian.Seeds{})
			col, err := d(a, sig)
			if err != nil {
				return nil, err
			}
			if err := a.Err(); err != nil {
				return nil, err
			}

			return col, nil
		}
	}
	s.log.WithFields(logrus.Fields{"atoms": p.Atoms, "device": s.device, "diff": diff}).Debug("jacobian")

	return s.engine.Jacobian(p, diff, s.eval(p), manual)
}

// Run evaluates forward only when no default diff was configured, and the
// full Jacobian otherwise. The forward-only Result has an empty Names list
// and zero-width Jac rows.
func (s *Simulator) Run(values params.Values) (*jacobian.Result, error) {
	if len(s.diff) > 0 {
		return s.Jacobian(values)
	}
	sig, err := s.Forward(values)
	if err != nil {
		return nil, err
	}
	r := &jacobian.Result{Names: []string{}, Signal: sig, Jac: make([][][]complex128, len(sig))}
	for a, row := range sig {
		r.Jac[a] = make([][]complex128, len(row))
		for t := range row {
			r.Jac[a][t] = []complex128{}
		}
	}

	return r, nil
}
