package taylor

import (
	"math"
	"math/cmplx"

	"golang.org/x/exp/constraints"
)

// Coeff constrains the rings a Series may take coefficients in.
// Divn divides by a small positive integer and Scale multiplies by a
// real factor. Norm reduces an element to a non-negative real magnitude
// (infinity norm for composite elements). Zero and One return elements
// of the same shape as the receiver.
type Coeff[U any] interface {
	Add(U) U
	Sub(U) U
	Mul(U) U
	Div(U) U
	Neg() U
	Divn(n int) U
	Scale(c float64) U
	Norm() float64
	Zero() U
	One() U
	IsFinite() bool
	Clone() U
}

// Elem extends Coeff with the scalar elementary functions needed by the
// series recurrences in functions.go.
type Elem[U any] interface {
	Coeff[U]
	Exp() U
	Log() U
	Sqrt() U
	Sin() U
	Cos() U
}

// Real is the float64 coefficient ring.
type Real float64

func (a Real) Add(b Real) Real { return a + b }
func (a Real) Sub(b Real) Real { return a - b }
func (a Real) Mul(b Real) Real { return a * b }
func (a Real) Div(b Real) Real { return a / b }
func (a Real) Neg() Real { return -a }
func (a Real) Divn(n int) Real { return a / Real(n) }
func (a Real) Scale(c float64) Real { return a * Real(c) }
func (a Real) Norm() float64 { return math.Abs(float64(a)) }
func (a Real) Zero() Real { return 0 }
func (a Real) One() Real { return 1 }
func (a Real) Clone() Real { return a }

// IsFinite returns true if a is neither infinite nor NaN.
func (a Real) IsFinite() bool {
	return !math.IsInf(float64(a), 0) && !math.IsNaN(float64(a))
}

func (a Real) Exp() Real { return Real(math.Exp(float64(a))) }
func (a Real) Log() Real { return Real(math.Log(float64(a))) }
func (a Real) Sqrt() Real { return Real(math.Sqrt(float64(a))) }
func (a Real) Sin() Real { return Real(math.Sin(float64(a))) }
func (a Real) Cos() Real { return Real(math.Cos(float64(a))) }

// Complex is the complex128 coefficient ring.
type Complex complex128

func (a Complex) Add(b Complex) Complex { return a + b }
func (a Complex) Sub(b Complex) Complex { return a - b }
func (a Complex) Mul(b Complex) Complex { return a * b }
func (a Complex) Div(b Complex) Complex { return a / b }
func (a Complex) Neg() Complex { return -a }
func (a Complex) Divn(n int) Complex { return a / Complex(complex(float64(n), 0)) }
func (a Complex) Scale(c float64) Complex {
	return a * Complex(complex(c, 0))
}
func (a Complex) Norm() float64 { return cmplx.Abs(complex128(a)) }
func (a Complex) Zero() Complex { return 0 }
func (a Complex) One() Complex { return 1 }
func (a Complex) Clone() Complex { return a }

// IsFinite returns true if both parts of a are finite.
func (a Complex) IsFinite() bool {
	return Real(real(complex128(a))).IsFinite() && Real(imag(complex128(a))).IsFinite()
}

func (a Complex) Exp() Complex { return Complex(cmplx.Exp(complex128(a))) }
func (a Complex) Log() Complex { return Complex(cmplx.Log(complex128(a))) }
func (a Complex) Sqrt() Complex { return Complex(cmplx.Sqrt(complex128(a))) }
func (a Complex) Sin() Complex { return Complex(cmplx.Sin(complex128(a))) }
func (a Complex) Cos() Complex { return Complex(cmplx.Cos(complex128(a))) }

// RealOf promotes any Go integer or float to the Real coefficient ring.
// Promotion happens at the API boundary, never inside an integration loop.
func RealOf[T constraints.Integer | constraints.Float](v T) Real {
	return Real(float64(v))
}

// RealsOf promotes a slice of Go integers or floats to Real coefficients.
func RealsOf[T constraints.Integer | constraints.Float](vs []T) []Real {
	out := make([]Real, len(vs))
	for i, v := range vs {
		out[i] = RealOf(v)
	}
	return out
}
