// SPDX-License-Identifier: MIT

package params

import (
	"fmt"
	"math"
)

// BroadcastPolicy decides how a value is classified by Partition.
type BroadcastPolicy int

const (
	// BroadcastAuto broadcasts values with more than one entry.
	BroadcastAuto BroadcastPolicy = iota
	// BroadcastNever keeps the value static whatever its length.
	BroadcastNever
	// BroadcastAlways stacks the value into the batch, replicating a single entry.
	BroadcastAlways
)

// String implements fmt.Stringer.
func (b BroadcastPolicy) String() string {
	switch b {
	case BroadcastAuto:
		return "auto"
	case BroadcastNever:
		return "never"
	case BroadcastAlways:
		return "always"
	default:
		return fmt.Sprintf("BroadcastPolicy(%d)", int(b))
	}
}

// Kind separates tissue properties from sequence timing.
type Kind int

const (
	Tissue Kind = iota
	Sequence
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == Sequence {
		return "sequence"
	}

	return "tissue"
}

// Spec declares one parameter.
type Spec struct {
	Name           string
	Unit           string
	Default        []float64 // used when the caller omits the name; nil means none
	Required       bool      // a missing value without Default is an error
	Broadcast      BroadcastPolicy
	Differentiable bool
	Kind           Kind
}

func (s Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidSpec)
	}
	if s.Broadcast < BroadcastAuto || s.Broadcast > BroadcastAlways {
		return paramErrorf(s.Name, fmt.Errorf("policy %v: %w", s.Broadcast, ErrInvalidSpec))
	}
	for i, v := range s.Default {
		if math.IsNaN(v) {
			return paramErrorf(s.Name, fmt.Errorf("default[%d] is NaN: %w", i, ErrInvalidSpec))
		}
	}

	return nil
}

// Schema is an ordered, duplicate-free set of specs.
type Schema struct {
	specs []Spec
	index map[string]int
}

// NewSchema validates specs and keeps them in declaration order.
//
// Errors:
//   - ErrInvalidSpec for a malformed declaration.
//   - ErrDuplicateParameter when a name repeats.
func NewSchema(specs ...Spec) (*Schema, error) {
	s := &Schema{index: make(map[string]int, len(specs))}
	for _, sp := range specs {
		if err := sp.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.index[sp.Name]; dup {
			return nil, paramErrorf(sp.Name, ErrDuplicateParameter)
		}
		sp.Default = append([]float64(nil), sp.Default...)
		s.index[sp.Name] = len(s.specs)
		s.specs = append(s.specs, sp)
	}

	return s, nil
}

// Len returns the number of declared parameters.
func (s *Schema) Len() int { return len(s.specs) }

// Specs returns the declarations in order.
func (s *Schema) Specs() []Spec { return append([]Spec(nil), s.specs...) }

// Spec returns the declaration of name.
func (s *Schema) Spec(name string) (Spec, bool) {
	i, ok := s.index[name]
	if !ok {
		return Spec{}, false
	}

	return s.specs[i], true
}

// Names returns the declared names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.specs))
	for i, sp := range s.specs {
		out[i] = sp.Name
	}

	return out
}
