package taylor

// In-place operations on Series. These write into dst without
// allocating and are what integration hot loops should use. Operand
// orders must match; mismatches panic.

// Copy copies the coefficients of src into dst.
func Copy[U Coeff[U]](dst, src Series[U]) {
	assertSameOrder(dst, src)
	for k := range src.c {
		dst.c[k] = src.c[k].Clone()
	}
}

// Truncate copies coefficients 0..ord of src into dst and zeroes the
// coefficients above ord, so that dst is src truncated to order ord in
// a fixed-order representation.
func Truncate[U Coeff[U]](dst, src Series[U], ord int) {
	assertSameOrder(dst, src)
	if ord < 0 || ord > src.Order() {
		throwf("taylor: truncation order %d out of range for order %d", ord, src.Order())
	}
	for k := 0; k <= ord; k++ {
		dst.c[k] = src.c[k].Clone()
	}
	for k := ord + 1; k < len(dst.c); k++ {
		dst.c[k] = dst.c[k].Zero()
	}
}

// SetZero zeroes every coefficient of dst in place.
func SetZero[U Coeff[U]](dst Series[U]) {
	for k := range dst.c {
		dst.c[k] = dst.c[k].Zero()
	}
}

// Add stores a + b into dst.
func Add[U Coeff[U]](dst, a, b Series[U]) {
	assertSameOrder(a, b)
	assertSameOrder(dst, a)
	for k := range dst.c {
		dst.c[k] = a.c[k].Add(b.c[k])
	}
}

// Sub stores a - b into dst.
func Sub[U Coeff[U]](dst, a, b Series[U]) {
	assertSameOrder(a, b)
	assertSameOrder(dst, a)
	for k := range dst.c {
		dst.c[k] = a.c[k].Sub(b.c[k])
	}
}

// Scale stores c·a into dst.
func Scale[U Coeff[U]](dst Series[U], c float64, a Series[U]) {
	assertSameOrder(dst, a)
	for k := range dst.c {
		dst.c[k] = a.c[k].Scale(c)
	}
}
