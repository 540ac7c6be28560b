// SPDX-License-Identifier: MIT

package executor

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/mrsim/backend"
)

// DefaultChunkSize bounds the atoms evaluated per chunk.
const DefaultChunkSize = 256

// Option configures an Executor.
type Option func(*Options)

// Options is the resolved Executor configuration.
type Options struct {
	log *logrus.Entry
}

// WithLogger sets the entry used for per-chunk debug logging. A nil entry
// keeps the default.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) {
		if log != nil {
			o.log = log
		}
	}
}

// Executor runs chunked evaluations on one backend.
type Executor struct {
	backend backend.Backend
	chunk   int
	log     *logrus.Entry
}

// New binds a backend and a chunk size.
//
// Errors:
//   - ErrNilBackend, ErrInvalidChunkSize.
func New(b backend.Backend, chunkSize int, opts ...Option) (*Executor, error) {
	if b == nil {
		return nil, ErrNilBackend
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%d: %w", chunkSize, ErrInvalidChunkSize)
	}
	o := Options{log: logrus.NewEntry(logrus.StandardLogger()).WithField("component", "executor")}
	for _, set := range opts {
		set(&o)
	}

	return &Executor{backend: b, chunk: chunkSize, log: o.log}, nil
}

// ChunkSize returns the configured chunk size.
func (e *Executor) ChunkSize() int { return e.chunk }

// Backend returns the bound backend.
func (e *Executor) Backend() backend.Backend { return e.backend }

// Chunk is the half-open atom range [Start, End) of chunk Index.
type Chunk struct {
	Index, Start, End int
}

// Len returns End - Start.
func (c Chunk) Len() int { return c.End - c.Start }

// Chunks splits [0, n) into consecutive ranges of size k; the last range
// holds the remainder. It returns nil for n <= 0.
//
// Panics:
//   - if k <= 0.
func Chunks(n, k int) []Chunk {
	if k <= 0 {
		panic("executor: Chunks: k must be > 0")
	}
	if n <= 0 {
		return nil
	}
	out := make([]Chunk, 0, (n+k-1)/k)
	for start := 0; start < n; start += k {
		end := start + k
		if end > n {
			end = n
		}
		out = append(out, Chunk{Index: len(out), Start: start, End: end})
	}

	return out
}

// Run evaluates fn for every atom in [0, atoms) and returns the results in
// atom order.
//
// Implementation:
//   - Stage 1: split the atoms with Chunks(atoms, ChunkSize).
//   - Stage 2: per chunk, Backend.Map fn over the chunk's atoms, storing
//     each result at its atom index.
//   - Stage 3: on the first error return nil and the error, tagged with the
//     chunk and atom.
func Run[T any](e *Executor, atoms int, fn func(atom int) (T, error)) ([]T, error) {
	out := make([]T, max(atoms, 0))
	for _, ch := range Chunks(atoms, e.chunk) {
		err := e.backend.Map(ch.Len(), func(i int) error {
			atom := ch.Start + i
			v, err := fn(atom)
			if err != nil {
				return fmt.Errorf("atom %d: %w", atom, err)
			}
			out[atom] = v

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("executor: chunk %d [%d,%d): %w", ch.Index, ch.Start, ch.End, err)
		}
		e.log.WithFields(logrus.Fields{
			"chunk":  ch.Index,
			"start":  ch.Start,
			"end":    ch.End,
			"device": e.backend.Device(),
		}).Debug("chunk evaluated")
	}

	return out, nil
}
