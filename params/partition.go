// SPDX-License-Identifier: MIT

package params

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/katalvlaran/mrsim/matrix"
)

// Values maps parameter names to their per-call values. A single entry is a
// scalar, several entries are either one value per atom or a static vector,
// depending on the declared BroadcastPolicy.
type Values map[string][]float64

// Clone returns a deep copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, xs := range v {
		out[k] = append([]float64(nil), xs...)
	}

	return out
}

// Location tells where a partitioned parameter lives.
type Location struct {
	Broadcast bool // true: column Column of Batch; false: Static entry
	Column    int
}

// Partition is the validated, classified form of one call's Values.
type Partition struct {
	// Atoms is the number of independent simulation units; 1 when nothing
	// is broadcast or every broadcast value has a single entry.
	Atoms int
	// Names lists the broadcast parameters in batch-column order.
	Names []string
	// Batch holds one row per atom and one column per Names entry. It is nil
	// when Names is empty. Non-finite values such as T1 = +Inf are kept.
	Batch *matrix.Dense
	// Static holds the shared values by name.
	Static map[string][]float64

	schema *Schema
	index  map[string]Location
}

// Partition validates values against the schema and splits them into a
// broadcast batch and a static mapping. Omitted names fall back to their
// Default. A broadcast value with one entry is replicated across atoms.
//
// Implementation:
//   - Stage 1: collect every unknown name, missing required value, empty or
//     NaN value and invalid override into one multierror.
//   - Stage 2: classify (overrides, then policy, then length) and check that
//     all multi-entry broadcast values agree on the atom count.
//   - Stage 3: stack the broadcast columns in declaration order.
//
// Errors:
//   - ErrUnknownParameter, ErrMissingParameter, ErrInvalidValue,
//     ErrNotBroadcastable, ErrInvalidSpec, aggregated with go-multierror.
//   - ErrShapeMismatch for inconsistent atom counts.
func (s *Schema) Partition(values Values, opts ...Option) (*Partition, error) {
	o := gatherOptions(opts...)
	var result *multierror.Error

	names := maps.Keys(values)
	slices.Sort(names)
	for _, n := range names {
		if _, ok := s.index[n]; !ok {
			result = multierror.Append(result, paramErrorf(n, ErrUnknownParameter))
		}
	}
	for _, set := range []map[string]bool{o.forceBroadcast, o.forceStatic} {
		forced := maps.Keys(set)
		slices.Sort(forced)
		for _, n := range forced {
			if _, ok := s.index[n]; !ok {
				result = multierror.Append(result, paramErrorf(n, fmt.Errorf("override: %w", ErrUnknownParameter)))
			}
		}
	}

	resolved := make(map[string][]float64, len(s.specs))
	broadcast := make(map[string]bool, len(s.specs))
	for _, sp := range s.specs {
		v, ok := values[sp.Name]
		if !ok {
			if sp.Default == nil {
				if sp.Required {
					result = multierror.Append(result, paramErrorf(sp.Name, ErrMissingParameter))
				}
				continue
			}
			v = sp.Default
		}
		if len(v) == 0 {
			result = multierror.Append(result, paramErrorf(sp.Name, fmt.Errorf("empty: %w", ErrInvalidValue)))
			continue
		}
		if i := slices.IndexFunc(v, math.IsNaN); i >= 0 {
			result = multierror.Append(result, paramErrorf(sp.Name, fmt.Errorf("entry %d is NaN: %w", i, ErrInvalidValue)))
			continue
		}
		if o.forceBroadcast[sp.Name] && o.forceStatic[sp.Name] {
			result = multierror.Append(result, paramErrorf(sp.Name, fmt.Errorf("forced broadcast and static: %w", ErrInvalidSpec)))
			continue
		}
		if o.forceBroadcast[sp.Name] && sp.Broadcast == BroadcastNever {
			result = multierror.Append(result, paramErrorf(sp.Name, ErrNotBroadcastable))
			continue
		}
		resolved[sp.Name] = v
		broadcast[sp.Name] = classify(sp, len(v), o)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	p := &Partition{
		Atoms:  1,
		Static: make(map[string][]float64),
		schema: s,
		index:  make(map[string]Location, len(resolved)),
	}
	from := ""
	for _, sp := range s.specs {
		v, ok := resolved[sp.Name]
		if !ok {
			continue
		}
		if !broadcast[sp.Name] {
			p.Static[sp.Name] = append([]float64(nil), v...)
			p.index[sp.Name] = Location{}
			continue
		}
		p.index[sp.Name] = Location{Broadcast: true, Column: len(p.Names)}
		p.Names = append(p.Names, sp.Name)
		if len(v) == 1 {
			continue
		}
		if from == "" {
			p.Atoms, from = len(v), sp.Name
		} else if len(v) != p.Atoms {
			return nil, fmt.Errorf("%q has %d atoms, %q has %d: %w", sp.Name, len(v), from, p.Atoms, ErrShapeMismatch)
		}
	}

	if k := len(p.Names); k > 0 {
		data := make([]float64, p.Atoms*k)
		for j, n := range p.Names {
			v := resolved[n]
			for i := 0; i < p.Atoms; i++ {
				if len(v) == 1 {
					data[i*k+j] = v[0]
				} else {
					data[i*k+j] = v[i]
				}
			}
		}
		batch, err := matrix.NewDenseFrom(p.Atoms, k, data, matrix.WithNoValidateNaNInf())
		if err != nil {
			return nil, fmt.Errorf("params: stack batch: %w", err)
		}
		p.Batch = batch
	}

	return p, nil
}

func classify(sp Spec, n int, o Options) bool {
	switch {
	case o.forceStatic[sp.Name]:
		return false
	case o.forceBroadcast[sp.Name]:
		return true
	case sp.Broadcast == BroadcastNever:
		return false
	case sp.Broadcast == BroadcastAlways:
		return true
	default:
		return n > 1
	}
}

// Schema returns the schema the partition was built from.
func (p *Partition) Schema() *Schema { return p.schema }

// Lookup reports where name lives. The second result is false for names
// that are undeclared or have no value in this call.
func (p *Partition) Lookup(name string) (Location, bool) {
	loc, ok := p.index[name]
	return loc, ok
}

// Spec returns the declaration of name.
func (p *Partition) Spec(name string) (Spec, bool) { return p.schema.Spec(name) }

// Row returns a copy of the broadcast values of atom i, ordered like Names.
func (p *Partition) Row(i int) ([]float64, error) {
	if i < 0 || i >= p.Atoms {
		return nil, fmt.Errorf("atom %d of %d: %w", i, p.Atoms, ErrAtomOutOfRange)
	}
	if p.Batch == nil {
		return []float64{}, nil
	}

	return p.Batch.RawRow(i)
}

// Scalar returns the value of name for atom i: the batch entry when the
// parameter is broadcast, the single static entry otherwise.
//
// Errors:
//   - ErrUnknownParameter when name has no value in this partition.
//   - ErrInvalidValue when name is a static vector.
//   - ErrAtomOutOfRange for a bad atom index.
func (p *Partition) Scalar(i int, name string) (float64, error) {
	if i < 0 || i >= p.Atoms {
		return 0, fmt.Errorf("atom %d of %d: %w", i, p.Atoms, ErrAtomOutOfRange)
	}
	loc, ok := p.index[name]
	if !ok {
		return 0, paramErrorf(name, ErrUnknownParameter)
	}
	if loc.Broadcast {
		return p.Batch.At(i, loc.Column)
	}
	v := p.Static[name]
	if len(v) != 1 {
		return 0, paramErrorf(name, fmt.Errorf("static vector of %d entries: %w", len(v), ErrInvalidValue))
	}

	return v[0], nil
}

// Differentiable checks that name can carry a tangent: it must be declared
// differentiable, have a value, and be scalar per atom.
//
// Errors:
//   - ErrUnknownParameter for undeclared names.
//   - ErrMissingParameter for declared names without a value.
//   - ErrNotDifferentiable for discrete parameters and static vectors.
func (p *Partition) Differentiable(name string) error {
	sp, ok := p.schema.Spec(name)
	if !ok {
		return paramErrorf(name, ErrUnknownParameter)
	}
	if !sp.Differentiable {
		return paramErrorf(name, ErrNotDifferentiable)
	}
	loc, ok := p.index[name]
	if !ok {
		return paramErrorf(name, ErrMissingParameter)
	}
	if !loc.Broadcast && len(p.Static[name]) != 1 {
		return paramErrorf(name, fmt.Errorf("static vector: %w", ErrNotDifferentiable))
	}

	return nil
}

// Values rebuilds a Values mapping from the partition. Broadcast columns
// come back with one entry per atom.
func (p *Partition) Values() Values {
	out := make(Values, len(p.index))
	for n, v := range p.Static {
		out[n] = append([]float64(nil), v...)
	}
	for j, n := range p.Names {
		col := make([]float64, p.Atoms)
		for i := range col {
			col[i], _ = p.Batch.At(i, j)
		}
		out[n] = col
	}

	return out
}
