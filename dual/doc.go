// Package dual implements forward-mode automatic differentiation over complex
// values.
//
// A Number carries a complex value V together with a tangent vector D: one
// complex partial derivative per seeded input parameter. Every operation
// propagates tangents by the chain rule, so evaluating a model once on dual
// inputs yields both the signal and its Jacobian column block.
//
// Seeds are real parameters. Non-holomorphic operations (Conj, Abs, Arg,
// Real, Imag) therefore use the real-direction derivative, which is exact for
// real seeds.
//
// Operations never mutate their operands. A result may share its tangent
// slice with an operand, so D is read-only once a Number exists.
//
// A nil D means "all partials are zero" and is accepted by every operation.
// Two non-nil tangents of different widths indicate a programming error and
// cause a panic.
package dual
