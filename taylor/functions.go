package taylor

// Elementary functions of a series, computed by the standard triangular
// recurrences: coefficient k of each result is exact given coefficients
// 0..k of the argument. All of them require the coefficient ring to
// supply the matching scalar function through the Elem constraint,
// except Pow and Sqr which are pure ring operations.

// Exp returns e^a.
func Exp[U Elem[U]](a Series[U]) Series[U] {
	e := Series[U]{c: make([]U, len(a.c))}
	e.c[0] = a.c[0].Exp()
	for k := 1; k < len(a.c); k++ {
		// e_k = (1/k) Σ_{j=1..k} j·a_j·e_{k-j}
		acc := a.c[0].Zero()
		for j := 1; j <= k; j++ {
			acc = acc.Add(a.c[j].Scale(float64(j)).Mul(e.c[k-j]))
		}
		e.c[k] = acc.Divn(k)
	}
	return e
}

// Log returns log(a). The constant term of a must lie in the domain of
// the ring's scalar logarithm.
func Log[U Elem[U]](a Series[U]) Series[U] {
	l := Series[U]{c: make([]U, len(a.c))}
	l.c[0] = a.c[0].Log()
	for k := 1; k < len(a.c); k++ {
		// l_k = (a_k - (1/k) Σ_{j=1..k-1} j·l_j·a_{k-j}) / a_0
		acc := a.c[0].Zero()
		for j := 1; j < k; j++ {
			acc = acc.Add(l.c[j].Scale(float64(j)).Mul(a.c[k-j]))
		}
		l.c[k] = a.c[k].Sub(acc.Divn(k)).Div(a.c[0])
	}
	return l
}

// Sqrt returns the square root of a. The constant term of a must lie in
// the domain of the ring's scalar square root.
func Sqrt[U Elem[U]](a Series[U]) Series[U] {
	r := Series[U]{c: make([]U, len(a.c))}
	r.c[0] = a.c[0].Sqrt()
	for k := 1; k < len(a.c); k++ {
		// r_k = (a_k - Σ_{j=1..k-1} r_j·r_{k-j}) / (2 r_0)
		num := a.c[k]
		for j := 1; j < k; j++ {
			num = num.Sub(r.c[j].Mul(r.c[k-j]))
		}
		r.c[k] = num.Div(r.c[0].Scale(2))
	}
	return r
}

// Sincos returns sin(a) and cos(a) in a single coupled recurrence.
func Sincos[U Elem[U]](a Series[U]) (sin, cos Series[U]) {
	s := Series[U]{c: make([]U, len(a.c))}
	c := Series[U]{c: make([]U, len(a.c))}
	s.c[0] = a.c[0].Sin()
	c.c[0] = a.c[0].Cos()
	for k := 1; k < len(a.c); k++ {
		// s_k =  (1/k) Σ_{j=1..k} j·a_j·c_{k-j}
		// c_k = -(1/k) Σ_{j=1..k} j·a_j·s_{k-j}
		saux := a.c[0].Zero()
		caux := a.c[0].Zero()
		for j := 1; j <= k; j++ {
			aj := a.c[j].Scale(float64(j))
			saux = saux.Add(aj.Mul(c.c[k-j]))
			caux = caux.Add(aj.Mul(s.c[k-j]))
		}
		s.c[k] = saux.Divn(k)
		c.c[k] = caux.Divn(k).Neg()
	}
	return s, c
}

// Sin returns sin(a).
func Sin[U Elem[U]](a Series[U]) Series[U] {
	s, _ := Sincos(a)
	return s
}

// Cos returns cos(a).
func Cos[U Elem[U]](a Series[U]) Series[U] {
	_, c := Sincos(a)
	return c
}

// Sqr returns a·a.
func Sqr[U Coeff[U]](a Series[U]) Series[U] {
	return a.Mul(a)
}

// Pow returns a raised to the integer power m by binary exponentiation.
// Negative exponents invert through series division; the constant term
// of a must then be invertible.
func Pow[U Coeff[U]](a Series[U], m int) Series[U] {
	if m < 0 {
		return a.One().Div(Pow(a, -m))
	}
	r := a.One()
	base := a.Clone()
	for m > 0 {
		if m&1 == 1 {
			r = r.Mul(base)
		}
		m >>= 1
		if m > 0 {
			base = base.Mul(base)
		}
	}
	return r
}
