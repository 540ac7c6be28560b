// SPDX-License-Identifier: MIT

// Package executor evaluates a per-atom function over a batch in fixed-size
// chunks.
//
// Atoms [0, n) are split into chunks of ChunkSize (the last one may be
// shorter). Chunks run one after another; inside a chunk the backend maps
// the function over the atoms, possibly concurrently. Every result is
// written at its atom index, so the output order equals the input order and
// does not depend on the chunk size or the number of workers.
//
// The first failing atom aborts the call and no partial output is returned.
package executor
