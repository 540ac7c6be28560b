// SPDX-License-Identifier: MIT

// Package model defines the contract concrete signal models implement and
// the Simulator that runs them.
//
// A Model declares its tissue parameters, its sequence-timing parameters
// and an Evaluate step that builds EPG states, applies operators in
// sequence order and returns one signal sample per timepoint. Optional
// capabilities are discovered at construction:
//
//	ManualDerivatives  analytic derivative closures by parameter name
//	Validator          extra checks on the static parameters of a call
//
// The Simulator wires the model to the parameter partitioner, the chunked
// executor on the configured backend, and the Jacobian engine:
//
//	sim, err := model.New(m, model.WithDevice("cpu:auto"), model.WithDiff("T1", "T2"))
//	sig, err := sim.Forward(params.Values{"T1": t1s, "T2": t2s})
//	res, err := sim.Jacobian(params.Values{"T1": t1s, "T2": t2s}, "T2")
//
// Atoms are evaluated independently; Evaluate must not share mutable state
// between calls.
package model
