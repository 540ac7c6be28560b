// Package epg implements the Extended Phase Graph state engine.
//
// A State holds, for every configuration order n ∈ [0, MaxOrder] and every
// pool p, the triplet (F+[n][p], F−[n][p], Z[n][p]) of dual numbers. Operators
// transform a State in place; a Sequence applies timed events in order and
// records the demodulated signal at observation points.
//
// Operator library:
//
//	RFPulse, MultiDriveRF, MTSaturationRF    RF rotations and MT saturation
//	Longitudinal, Transverse, Interval       uncoupled relaxation
//	LongitudinalExchange, TransverseExchange coupled (Bloch-McConnell) relaxation
//	Precession                               off-resonance phase accrual
//	Shift, Spoil, Diffusion, Flow            gradient and transport effects
//	AdiabaticInversion                       non-selective inversion
//	Composite                                ordered group of operators
//
// Units: times in ms, frequencies in Hz, angles in rad, diffusivity in
// µm²/ms, gradient wave number in rad/µm, B1 in µT.
//
// Coupled relaxation is solved exactly with the matrix exponential of the
// augmented system [[A, b], [0, 0]]. Tangents flow through its Fréchet
// derivative, so exchange operators are differentiable like all others.
//
// Numerical trouble that does not invalidate the result (an ill-conditioned
// exponential, order truncation above tolerance) is reported as a Warning to
// the state's WarnFunc instead of failing the simulation.
package epg
