package taylor

import "math"

// Interval is a closed real interval coefficient. Arithmetic follows the
// usual interval rules without directed rounding; results are valid up to
// floating point roundoff of the endpoints.
type Interval struct {
	Lo, Hi float64
}

// NewInterval returns the interval [lo, hi]. It panics if lo > hi.
func NewInterval(lo, hi float64) Interval {
	if lo > hi {
		throwf("interval: lower bound %g above upper bound %g", lo, hi)
	}
	return Interval{Lo: lo, Hi: hi}
}

func (a Interval) Add(b Interval) Interval {
	return Interval{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi}
}

func (a Interval) Sub(b Interval) Interval {
	return Interval{Lo: a.Lo - b.Hi, Hi: a.Hi - b.Lo}
}

func (a Interval) Mul(b Interval) Interval {
	p1, p2 := a.Lo*b.Lo, a.Lo*b.Hi
	p3, p4 := a.Hi*b.Lo, a.Hi*b.Hi
	return Interval{
		Lo: math.Min(math.Min(p1, p2), math.Min(p3, p4)),
		Hi: math.Max(math.Max(p1, p2), math.Max(p3, p4)),
	}
}

// Div panics if b contains zero.
func (a Interval) Div(b Interval) Interval {
	if b.Lo <= 0 && b.Hi >= 0 {
		throwf("interval: division by interval [%g, %g] containing zero", b.Lo, b.Hi)
	}
	return a.Mul(Interval{Lo: 1 / b.Hi, Hi: 1 / b.Lo})
}

func (a Interval) Neg() Interval { return Interval{Lo: -a.Hi, Hi: -a.Lo} }

func (a Interval) Divn(n int) Interval {
	return Interval{Lo: a.Lo / float64(n), Hi: a.Hi / float64(n)}
}

func (a Interval) Scale(c float64) Interval {
	if c < 0 {
		return Interval{Lo: a.Hi * c, Hi: a.Lo * c}
	}
	return Interval{Lo: a.Lo * c, Hi: a.Hi * c}
}

// Norm is the magnitude of a, the largest absolute value it contains.
func (a Interval) Norm() float64 {
	return math.Max(math.Abs(a.Lo), math.Abs(a.Hi))
}

func (a Interval) Zero() Interval { return Interval{} }
func (a Interval) One() Interval  { return Interval{Lo: 1, Hi: 1} }
func (a Interval) Clone() Interval { return a }

func (a Interval) IsFinite() bool {
	return Real(a.Lo).IsFinite() && Real(a.Hi).IsFinite()
}

// Contains reports whether v lies in a.
func (a Interval) Contains(v float64) bool { return a.Lo <= v && v <= a.Hi }

// Width returns the diameter of a.
func (a Interval) Width() float64 { return a.Hi - a.Lo }
