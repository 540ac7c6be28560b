// SPDX-License-Identifier: MIT

package epg

import (
	"fmt"

	"github.com/katalvlaran/mrsim/dual"
)

// Operator transforms a State in place.
type Operator interface {
	Name() string
	Apply(s *State) error
}

// Composite applies Ops in order as one operator.
type Composite struct {
	Label string
	Ops   []Operator
}

// Name returns Label, or "composite" when unset.
func (c Composite) Name() string {
	if c.Label == "" {
		return "composite"
	}

	return c.Label
}

// Apply runs every child operator; the first failure aborts.
func (c Composite) Apply(s *State) error {
	for i, op := range c.Ops {
		if err := op.Apply(s); err != nil {
			return fmt.Errorf("%s[%d]: %w", c.Name(), i, err)
		}
	}

	return nil
}

// Event is one timed step of a sequence. Duration (ms) advances the state
// clock; when Observe is set the demodulated signal is recorded after Op.
type Event struct {
	Op       Operator
	Duration float64
	Observe  bool
}

// Sequence is an ordered list of events.
type Sequence []Event

// Run applies the events in order and returns the signals recorded at
// observation events. A nil Op is a pure delay.
func (seq Sequence) Run(s *State) ([]dual.Number, error) {
	var out []dual.Number
	for i, ev := range seq {
		if ev.Op != nil {
			if err := ev.Op.Apply(s); err != nil {
				return nil, fmt.Errorf("epg: event %d (%s): %w", i, ev.Op.Name(), err)
			}
		}
		s.clock += ev.Duration
		if ev.Observe {
			out = append(out, Signal(s))
		}
	}

	return out, nil
}

// Observations counts the observation events.
func (seq Sequence) Observations() int {
	n := 0
	for _, ev := range seq {
		if ev.Observe {
			n++
		}
	}

	return n
}

// unitOr returns *n, or 1 when the scale factor is unset. A set factor is
// used as is, zero included.
func unitOr(n *dual.Number) dual.Number {
	if n == nil {
		return dual.Const(1)
	}

	return *n
}
