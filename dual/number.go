// SPDX-License-Identifier: MIT

package dual

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Number is a complex value with a tangent vector of partial derivatives.
type Number struct {
	V complex128   // value
	D []complex128 // ∂V/∂θ_k per seeded parameter; nil means zero
}

// Const returns a real constant with no tangent.
func Const(v float64) Number { return Number{V: complex(v, 0)} }

// ConstC returns a complex constant with no tangent.
func ConstC(v complex128) Number { return Number{V: v} }

// Var returns a real variable seeded at slot i of an n-wide tangent, i.e.
// ∂V/∂θ_i = 1 and every other partial is zero.
//
// Panics:
//   - if i is outside [0, n).
func Var(v float64, i, n int) Number {
	if i < 0 || i >= n {
		panic(panicSlotOutOfRange)
	}
	d := make([]complex128, n)
	d[i] = 1

	return Number{V: complex(v, 0), D: d}
}

// Width returns the tangent width (0 for constants).
func (a Number) Width() int { return len(a.D) }

// Tangent returns ∂V/∂θ_i, or 0 when the number carries no tangent.
func (a Number) Tangent(i int) complex128 {
	if i < 0 || i >= len(a.D) {
		return 0
	}

	return a.D[i]
}

// IsConst reports whether every partial is zero.
func (a Number) IsConst() bool {
	for _, d := range a.D {
		if d != 0 {
			return false
		}
	}

	return true
}

// String formats the value and, when present, the tangent.
func (a Number) String() string {
	if a.D == nil {
		return fmt.Sprintf("%v", a.V)
	}

	return fmt.Sprintf("%v%v", a.V, a.D)
}

// lin returns ca·a.D + cb·b.D, treating nil tangents as zero.
func lin(ca complex128, a []complex128, cb complex128, b []complex128) []complex128 {
	switch {
	case a == nil && b == nil:
		return nil
	case b == nil:
		return scaled(ca, a)
	case a == nil:
		return scaled(cb, b)
	}
	if len(a) != len(b) {
		panic(panicWidthMismatch)
	}
	out := make([]complex128, len(a))
	for i := range a {
		out[i] = ca*a[i] + cb*b[i]
	}

	return out
}

func scaled(c complex128, a []complex128) []complex128 {
	if a == nil {
		return nil
	}
	out := make([]complex128, len(a))
	for i, v := range a {
		out[i] = c * v
	}

	return out
}

// mapD applies f to every partial.
func mapD(a []complex128, f func(complex128) complex128) []complex128 {
	if a == nil {
		return nil
	}
	out := make([]complex128, len(a))
	for i, v := range a {
		out[i] = f(v)
	}

	return out
}

// Add returns a + b.
func (a Number) Add(b Number) Number { return Number{V: a.V + b.V, D: lin(1, a.D, 1, b.D)} }

// Sub returns a − b.
func (a Number) Sub(b Number) Number { return Number{V: a.V - b.V, D: lin(1, a.D, -1, b.D)} }

// Mul returns a·b.
func (a Number) Mul(b Number) Number { return Number{V: a.V * b.V, D: lin(b.V, a.D, a.V, b.D)} }

// Div returns a/b. Division by an exact zero yields IEEE Inf/NaN values.
func (a Number) Div(b Number) Number {
	q := a.V / b.V

	return Number{V: q, D: lin(1/b.V, a.D, -q/b.V, b.D)}
}

// Neg returns −a.
func (a Number) Neg() Number { return Number{V: -a.V, D: scaled(-1, a.D)} }

// Scale returns s·a for a real constant s.
func (a Number) Scale(s float64) Number {
	c := complex(s, 0)

	return Number{V: c * a.V, D: scaled(c, a.D)}
}

// MulC returns c·a for a complex constant c.
func (a Number) MulC(c complex128) Number { return Number{V: c * a.V, D: scaled(c, a.D)} }

// AddC returns a + c for a complex constant c.
func (a Number) AddC(c complex128) Number { return Number{V: a.V + c, D: a.D} }

// Conj returns the complex conjugate.
func (a Number) Conj() Number { return Number{V: cmplx.Conj(a.V), D: mapD(a.D, cmplx.Conj)} }

// Real returns Re(a) as a real-valued Number.
func (a Number) Real() Number {
	return Number{V: complex(real(a.V), 0), D: mapD(a.D, func(d complex128) complex128 { return complex(real(d), 0) })}
}

// Imag returns Im(a) as a real-valued Number.
func (a Number) Imag() Number {
	return Number{V: complex(imag(a.V), 0), D: mapD(a.D, func(d complex128) complex128 { return complex(imag(d), 0) })}
}

// Inv returns 1/a.
func (a Number) Inv() Number {
	inv := 1 / a.V

	return Number{V: inv, D: scaled(-inv*inv, a.D)}
}

// Exp returns e^a.
func Exp(a Number) Number {
	e := cmplx.Exp(a.V)

	return Number{V: e, D: scaled(e, a.D)}
}

// Expi returns e^{i·a}. For real a this is the unit phasor of angle a.
func Expi(a Number) Number {
	e := cmplx.Exp(1i * a.V)

	return Number{V: e, D: scaled(1i*e, a.D)}
}

// Sin returns sin(a).
func Sin(a Number) Number { return Number{V: cmplx.Sin(a.V), D: scaled(cmplx.Cos(a.V), a.D)} }

// Cos returns cos(a).
func Cos(a Number) Number { return Number{V: cmplx.Cos(a.V), D: scaled(-cmplx.Sin(a.V), a.D)} }

// Sqrt returns the principal square root. The tangent at 0 is infinite.
func Sqrt(a Number) Number {
	s := cmplx.Sqrt(a.V)

	return Number{V: s, D: scaled(1/(2*s), a.D)}
}

// Abs returns |a| as a real-valued Number. At a = 0 the tangent is set to 0.
func Abs(a Number) Number {
	r := cmplx.Abs(a.V)
	if r == 0 {
		return Number{V: 0, D: mapD(a.D, func(complex128) complex128 { return 0 })}
	}
	u := cmplx.Conj(a.V) / complex(r, 0)

	return Number{V: complex(r, 0), D: mapD(a.D, func(d complex128) complex128 { return complex(real(u*d), 0) })}
}

// Arg returns the phase angle of a as a real-valued Number.
func Arg(a Number) Number {
	r2 := real(a.V)*real(a.V) + imag(a.V)*imag(a.V)
	if r2 == 0 {
		return Number{V: 0, D: mapD(a.D, func(complex128) complex128 { return 0 })}
	}
	c := cmplx.Conj(a.V)

	return Number{V: complex(cmplx.Phase(a.V), 0), D: mapD(a.D, func(d complex128) complex128 { return complex(imag(c*d)/r2, 0) })}
}

// Sum adds all terms. Sum() is the zero constant.
func Sum(terms ...Number) Number {
	var out Number
	for _, t := range terms {
		out = out.Add(t)
	}

	return out
}

// IsFinite reports whether the value and every partial are finite.
func (a Number) IsFinite() bool {
	if !finite(a.V) {
		return false
	}
	for _, d := range a.D {
		if !finite(d) {
			return false
		}
	}

	return true
}

func finite(c complex128) bool {
	return !math.IsNaN(real(c)) && !math.IsNaN(imag(c)) && !math.IsInf(real(c), 0) && !math.IsInf(imag(c), 0)
}
