// SPDX-License-Identifier: MIT

package jacobian

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/katalvlaran/mrsim/dual"
	"github.com/katalvlaran/mrsim/executor"
	"github.com/katalvlaran/mrsim/params"
)

// Eval evaluates one atom. Parameters must be read through seeds.Seed so
// that requested names carry their tangents.
type Eval func(atom int, seeds Seeds) ([]dual.Number, error)

// Manual returns ∂signal/∂θ for one atom given that atom's forward signal.
type Manual func(atom int, signal []complex128) ([]complex128, error)

// Engine runs forward and Jacobian passes on one executor.
type Engine struct {
	exec *executor.Executor
}

// New binds an executor.
func New(exec *executor.Executor) (*Engine, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}

	return &Engine{exec: exec}, nil
}

// Forward evaluates every atom of p with no seeded tangents.
func (e *Engine) Forward(p *params.Partition, eval Eval) ([][]complex128, error) {
	return executor.Run(e.exec, p.Atoms, func(atom int) ([]complex128, error) {
		sig, err := eval(atom, Seeds{})
		if err != nil {
			return nil, err
		}

		return values(sig), nil
	})
}

// Check validates a list of requested names against p: every name must be
// differentiable in this call and appear once.
//
// Errors (aggregated with go-multierror):
//   - ErrDuplicateName.
//   - params.ErrUnknownParameter, params.ErrMissingParameter,
//     params.ErrNotDifferentiable from Partition.Differentiable.
func Check(p *params.Partition, diff []string) error {
	var result *multierror.Error
	seen := make(map[string]bool, len(diff))
	for _, n := range diff {
		if seen[n] {
			result = multierror.Append(result, fmt.Errorf("%q: %w", n, ErrDuplicateName))
			continue
		}
		seen[n] = true
		if err := p.Differentiable(n); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// Jacobian evaluates the signal of every atom of p together with one
// derivative column per diff entry, in diff order. Names present in manual
// use the closure; all others are seeded for forward-mode propagation.
func (e *Engine) Jacobian(p *params.Partition, diff []string, eval Eval, manual map[string]Manual) (*Result, error) {
	if err := Check(p, diff); err != nil {
		return nil, err
	}

	auto := make([]string, 0, len(diff))
	for _, n := range diff {
		if _, ok := manual[n]; !ok {
			auto = append(auto, n)
		}
	}
	seeds, err := NewSeeds(auto...)
	if err != nil {
		return nil, err
	}

	type atomOut struct {
		signal []complex128
		jac    [][]complex128
	}
	outs, err := executor.Run(e.exec, p.Atoms, func(atom int) (atomOut, error) {
		sig, err := eval(atom, seeds)
		if err != nil {
			return atomOut{}, err
		}
		o := atomOut{signal: values(sig), jac: make([][]complex128, len(sig))}
		for t := range sig {
			o.jac[t] = make([]complex128, len(diff))
		}
		for k, n := range diff {
			if fn, ok := manual[n]; ok {
				col, err := fn(atom, o.signal)
				if err != nil {
					return atomOut{}, fmt.Errorf("manual %q: %w", n, err)
				}
				if len(col) != len(sig) {
					return atomOut{}, fmt.Errorf("manual %q: %d entries for %d timepoints: %w", n, len(col), len(sig), ErrManualShape)
				}
				for t, v := range col {
					o.jac[t][k] = v
				}
				continue
			}
			slot, _ := seeds.Slot(n)
			for t, s := range sig {
				o.jac[t][k] = s.Tangent(slot)
			}
		}

		return o, nil
	})
	if err != nil {
		return nil, err
	}

	r := &Result{
		Names:  append([]string(nil), diff...),
		Signal: make([][]complex128, len(outs)),
		Jac:    make([][][]complex128, len(outs)),
	}
	for i, o := range outs {
		r.Signal[i] = o.signal
		r.Jac[i] = o.jac
	}

	return r, nil
}

func values(sig []dual.Number) []complex128 {
	out := make([]complex128, len(sig))
	for t, s := range sig {
		out[t] = s.V
	}

	return out
}
