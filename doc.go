// Package mrsim simulates MR signal evolution with the Extended Phase Graph
// formalism and differentiates it with respect to tissue and sequence
// parameters.
//
// 🚀 What is mrsim?
//
//	A pure-Go engine for building parametric MR signal models:
//		• EPG state: F+, F−, Z per configuration order and pool
//		• Operators: RF (phased, multi-drive, MT saturation), relaxation,
//		  Bloch-McConnell exchange, shift, spoil, diffusion, flow, inversion
//		• Forward-mode derivatives: every coefficient is a dual number
//		• Batching: per-atom parameters, fixed-size chunks, CPU backends
//		• Jacobians: automatic columns mixed with analytic overrides
//
// ✨ Why mrsim?
//
//   - Declarative models – declare parameters and an Evaluate step, the
//     simulator does partitioning, chunking and differentiation
//   - Exact derivatives – no finite differences, tangents flow through
//     every operator including matrix exponentials
//   - Deterministic – results do not depend on chunk size or worker count
//
// Under the hood the module is organized in small packages:
//
//	matrix/   - dense linear algebra, Padé matrix exponential + Fréchet derivative
//	dual/     - complex dual numbers carrying a tangent vector
//	epg/      - State, Pool, the operator library, Sequence and Signal
//	params/   - parameter Schema and the broadcast/static Partition
//	backend/  - compute backend chosen once from a device string (cpu, cpu:N)
//	executor/ - chunked, order-preserving per-atom evaluation
//	jacobian/ - tangent seeding, manual derivative columns, Result
//	model/    - the Model contract and the Simulator facade
//	config/   - MRSIM_* environment defaults
//
// Quick sketch of one atom:
//
//	Z₀ ──RF(α)──▶ F+₀ ──relax/shift──▶ F+₁ ──rewind──▶ F+₀ = echo
//
// Runnable walkthroughs live under examples/.
//
//	go get github.com/katalvlaran/mrsim
package mrsim
