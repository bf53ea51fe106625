package gotaylor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/soypat/gotaylor/taylor"
)

// Interpolant is the dense output of an integration run: the accepted
// step knots T[0..n] and, for each of the n-1 segments between them,
// the solution jet centered at the segment's left knot. Evaluation at a
// time τ inside segment k Horner-evaluates Jets[k] at τ - T[k].
//
// The jets are deep copies owned by the interpolant; they do not alias
// the driver's working storage.
type Interpolant[U taylor.Coeff[U]] struct {
	T    []float64
	Jets [][]taylor.Series[U]
}

// Dims returns the number of knots and the state dimension.
func (ip *Interpolant[U]) Dims() (knots, dim int) {
	if len(ip.Jets) == 0 {
		return len(ip.T), 0
	}
	return len(ip.T), len(ip.Jets[0])
}

// Eval returns the solution at time t, which must lie inside the
// integration window.
func (ip *Interpolant[U]) Eval(t float64) ([]U, error) {
	_, dim := ip.Dims()
	dst := make([]U, dim)
	if err := ip.EvalInto(dst, t); err != nil {
		return nil, err
	}
	return dst, nil
}

// EvalInto evaluates the solution at time t into dst without
// allocating. dst must have length equal to the state dimension.
func (ip *Interpolant[U]) EvalInto(dst []U, t float64) error {
	k, err := ip.segment(t)
	if err != nil {
		return err
	}
	if len(dst) != len(ip.Jets[k]) {
		return errors.Errorf("interpolant: destination length %d does not match dimension %d", len(dst), len(ip.Jets[k]))
	}
	dt := t - ip.T[k]
	for j := range dst {
		dst[j] = ip.Jets[k][j].Eval(dt)
	}
	return nil
}

// segment selects the jet whose half-open validity window, taken in the
// direction of integration, contains t. The horizon itself belongs to
// the last segment.
func (ip *Interpolant[U]) segment(t float64) (int, error) {
	n := len(ip.Jets)
	if n == 0 {
		return 0, errors.New("interpolant: no segments")
	}
	forward := ip.T[len(ip.T)-1] >= ip.T[0]
	if forward {
		if t < ip.T[0] || t > ip.T[n] {
			return 0, errors.Errorf("interpolant: time %g outside domain [%g, %g]", t, ip.T[0], ip.T[n])
		}
		if t == ip.T[n] {
			return n - 1, nil
		}
		return floats.Within(ip.T, t), nil
	}
	if t > ip.T[0] || t < ip.T[n] {
		return 0, errors.Errorf("interpolant: time %g outside domain [%g, %g]", t, ip.T[n], ip.T[0])
	}
	if t == ip.T[n] {
		return n - 1, nil
	}
	// knots descend in reverse-time runs; bisect for T[k] >= t > T[k+1].
	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ip.T[mid] >= t {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}
