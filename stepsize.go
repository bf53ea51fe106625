package gotaylor

import (
	"math"

	"github.com/soypat/gotaylor/taylor"
)

// Stepsize returns a positive step length whose predicted truncation
// error stays within epsilon, from the norms of the last two jet
// coefficients:
//  h = min over k ∈ {N-1, N} of (epsilon/‖x_k‖)^(1/k)
// taking the minimum over components. Orders k with an exactly zero
// coefficient norm are skipped, so a trivially short tail yields +Inf;
// callers should then fall back to SecondStepsize.
func Stepsize[U taylor.Coeff[U]](x []taylor.Series[U], epsilon float64) float64 {
	h := stepsizeSeries(x[0], epsilon)
	for j := 1; j < len(x); j++ {
		if v := stepsizeSeries(x[j], epsilon); v < h {
			h = v
		}
	}
	return h
}

func stepsizeSeries[U taylor.Coeff[U]](x taylor.Series[U], epsilon float64) float64 {
	ord := x.Order()
	h := math.Inf(1)
	for _, k := range [2]int{ord - 1, ord} {
		if k < 1 {
			continue
		}
		aux := x.Coeff(k).Norm()
		if aux == 0 {
			continue
		}
		h = math.Min(h, math.Pow(epsilon/aux, 1/float64(k)))
	}
	return h
}

// SecondStepsize is the tolerance-independent fallback step control,
// derived from the earliest non-vanishing coefficients:
//  h = max over k = 1..N-2 of (1/‖x_k‖)^(1/k)
// taking the maximum over components. It handles jets whose trailing
// coefficients vanish, notably initial conditions near equilibrium.
//
// Two degenerate jets fall outside the rule. An identically-zero jet
// returns 0, which the driver treats as terminal: the state is
// stationary. A jet that is constant to its truncation order (nonzero
// state, every derivative coefficient zero) steps by unit time, since
// no coefficient carries scale information and the horizon clamp
// bounds the step anyway.
func SecondStepsize[U taylor.Coeff[U]](x []taylor.Series[U]) float64 {
	hmax := secondStepsizeSeries(x[0])
	for j := 1; j < len(x); j++ {
		if v := secondStepsizeSeries(x[j]); v > hmax {
			hmax = v
		}
	}
	if hmax > 0 {
		return hmax
	}
	for j := range x {
		if !x[j].IsFinite() {
			return 0
		}
	}
	for j := range x {
		if x[j].Norm() != 0 {
			return 1
		}
	}
	return 0
}

func secondStepsizeSeries[U taylor.Coeff[U]](x taylor.Series[U]) float64 {
	h := 0.0
	for k := 1; k <= x.Order()-2; k++ {
		aux := x.Coeff(k).Norm()
		if aux == 0 {
			continue
		}
		h = math.Max(h, math.Pow(1/aux, 1/float64(k)))
	}
	return h
}
