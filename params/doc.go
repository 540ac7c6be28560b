// SPDX-License-Identifier: MIT

// Package params declares model parameters and partitions per-call values
// into per-atom (broadcast) and shared (static) groups.
//
// A Schema is the fixed enumeration of names a model accepts. Each Spec
// carries a unit, an optional default, a broadcast policy and a
// differentiability flag. Schema.Partition validates a Values mapping
// against it and stacks the broadcast values into an atoms×k batch matrix:
//
//	values := params.Values{"T1": {800, 1000, 1200}, "TR": {5}}
//	part, err := schema.Partition(values)
//	// part.Atoms == 3, part.Names == ["T1"], part.Static["TR"] == [5]
//
// Classification under BroadcastAuto: a value longer than one entry is
// broadcast, a single entry is static. BroadcastNever keeps vectors static
// (flip trains, timing tables), BroadcastAlways stacks even single values.
// ForceBroadcast and ForceStatic override the policy per call.
//
// Validation is eager. Every unknown name, missing required value and NaN
// entry is collected into one multierror before the atom counts are
// compared, so a failing call reports all of its problems at once.
package params
