// SPDX-License-Identifier: MIT

package jacobian

import (
	"fmt"

	"github.com/katalvlaran/mrsim/dual"
)

// Seeds maps parameter names to tangent slots. The zero value seeds nothing
// and turns a model evaluation into a plain forward pass.
type Seeds struct {
	names []string
	slot  map[string]int
}

// NewSeeds assigns slot i to names[i].
//
// Errors:
//   - ErrDuplicateName when a name repeats.
func NewSeeds(names ...string) (Seeds, error) {
	s := Seeds{names: append([]string(nil), names...), slot: make(map[string]int, len(names))}
	for i, n := range names {
		if _, dup := s.slot[n]; dup {
			return Seeds{}, fmt.Errorf("%q: %w", n, ErrDuplicateName)
		}
		s.slot[n] = i
	}

	return s, nil
}

// Width returns the tangent width.
func (s Seeds) Width() int { return len(s.names) }

// Names returns the seeded names in slot order.
func (s Seeds) Names() []string { return append([]string(nil), s.names...) }

// Slot returns the tangent slot of name.
func (s Seeds) Slot(name string) (int, bool) {
	i, ok := s.slot[name]
	return i, ok
}

// Seed returns v as a variable when name is seeded, as a constant otherwise.
func (s Seeds) Seed(name string, v float64) dual.Number {
	if i, ok := s.slot[name]; ok {
		return dual.Var(v, i, len(s.names))
	}

	return dual.Const(v)
}
