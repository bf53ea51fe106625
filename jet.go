package gotaylor

import "github.com/soypat/gotaylor/taylor"

// Field is the scalar, value-returning shape of a differential equation
//  ẋ = f(x, p, t).
// It must be a pure function of its series arguments and must return a
// series of the same order as x. It must not retain references to its
// arguments past its return.
type Field[U taylor.Coeff[U]] func(x taylor.Series[U], p any, t taylor.Series[taylor.Real]) taylor.Series[U]

// SystemField is the in-place, vector shape of a system of differential
// equations. It writes exactly one series per component of dx, each of
// the same order as its input, and may mutate nothing else.
type SystemField[U taylor.Coeff[U]] func(dx, x []taylor.Series[U], p any, t taylor.Series[taylor.Real])

// JetBuilder computes a solution jet in place, filling coefficients
// 1..N of every component of x from its coefficient 0. Specialized,
// pre-analyzed builders registered on a Registry take this shape; they
// must produce bit-identical coefficients to JetCoeffsSystem.
type JetBuilder[U taylor.Coeff[U]] func(t taylor.Series[taylor.Real], x, dx, xaux []taylor.Series[U], p any)

// JetCoeffs extends x to a full solution jet of the equation ẋ = f.
// On entry only coefficient 0 of x is meaningful; on return coefficient
// k of x is the k-th Taylor coefficient of the solution through the
// current time t.Coeff(0), for k = 0..N.
//
// The recursion ascends order by order: once x is correct through order
// ord, the series operations inside f produce an output whose
// coefficient ord matches f(x(t), p, t), and the Picard identity
//  x_{ord+1} = f_ord / (ord+1)
// fills in the next coefficient.
func JetCoeffs[U taylor.Coeff[U]](f Field[U], t taylor.Series[taylor.Real], x taylor.Series[U], p any) {
	taux := taylor.New(t.Order(), taylor.Real(0))
	xaux := x.Zero()
	jetCoeffs(f, t, taux, x, xaux, p)
}

// jetCoeffs is the scratch-passing form used once per accepted step;
// taux and xaux are reused across steps so the loop does not allocate.
func jetCoeffs[U taylor.Coeff[U]](f Field[U], t, taux taylor.Series[taylor.Real], x, xaux taylor.Series[U], p any) {
	for ord := 0; ord < x.Order(); ord++ {
		taylor.Truncate(taux, t, ord)
		taylor.Truncate(xaux, x, ord)
		dx := f(xaux, p, taux)
		x.SetCoeff(ord+1, dx.Coeff(ord).Divn(ord+1))
	}
}

// JetCoeffsSystem is the vector counterpart of JetCoeffs for in-place
// fields. dx and xaux are caller-owned scratch of the same shape as x;
// their contents on entry are irrelevant and on return unspecified.
func JetCoeffsSystem[U taylor.Coeff[U]](f SystemField[U], t taylor.Series[taylor.Real], x, dx, xaux []taylor.Series[U], p any) {
	taux := taylor.New(t.Order(), taylor.Real(0))
	jetCoeffsSystem(f, t, taux, x, dx, xaux, p)
}

func jetCoeffsSystem[U taylor.Coeff[U]](f SystemField[U], t, taux taylor.Series[taylor.Real], x, dx, xaux []taylor.Series[U], p any) {
	for ord := 0; ord < x[0].Order(); ord++ {
		taylor.Truncate(taux, t, ord)
		for j := range x {
			taylor.Truncate(xaux[j], x[j], ord)
		}
		f(dx, xaux, p, taux)
		for j := range x {
			x[j].SetCoeff(ord+1, dx[j].Coeff(ord).Divn(ord+1))
		}
	}
}
