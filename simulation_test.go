package gotaylor

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/soypat/gotaylor/taylor"
)

// quadField is ẋ = x². From x(0) = x₀ the solution blows up at
// t = 1/x₀ as x(t) = x₀/(1 - x₀t).
func quadField(x taylor.Series[taylor.Real], p any, t taylor.Series[taylor.Real]) taylor.Series[taylor.Real] {
	return x.Mul(x)
}

// oscField is the harmonic oscillator ẋ = y, ẏ = -x.
func oscField(dx, x []taylor.Series[taylor.Real], p any, t taylor.Series[taylor.Real]) {
	taylor.Copy(dx[0], x[1])
	taylor.Scale(dx[1], -1, x[0])
}

func TestLogisticBlowup(t *testing.T) {
	sim := NewScalar(quadField, taylor.Real(3))
	sim.Order, sim.AbsTol, sim.MaxSteps = 25, 1e-20, 100
	sim.SetTimespan(0, 0.3)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	n := len(res.T)
	if n > 101 {
		t.Errorf("expected at most 101 samples. got %d", n)
	}
	if sim.MaxStepsReached() {
		t.Error("step budget should not be exhausted")
	}
	tf := res.T[n-1]
	if tf != 0.3 {
		t.Errorf("expected final time to clamp to horizon. got %v", tf)
	}
	for i := range res.T {
		exact := 3 / (1 - 3*res.T[i])
		if !scalar.EqualWithinAbsOrRel(float64(res.X[i][0]), exact, 1e-12, 1e-12) {
			t.Errorf("at t=%v expected %v. got %v", res.T[i], exact, res.X[i][0])
		}
	}
}

func TestHarmonicOscillator(t *testing.T) {
	for _, tmax := range []float64{2 * math.Pi, -2 * math.Pi} {
		sim := New(oscField, []taylor.Real{1, 0})
		sim.Order, sim.AbsTol = 28, 1e-20
		sim.SetTimespan(0, tmax)
		res, err := sim.Run()
		if err != nil {
			t.Fatal(err)
		}
		n := len(res.T)
		xf, yf := float64(res.X[n-1][0]), float64(res.X[n-1][1])
		if !scalar.EqualWithinAbs(xf, 1, 1e-12) || !scalar.EqualWithinAbs(yf, 0, 1e-12) {
			t.Errorf("tmax=%v: expected final state [1 0]. got [%v %v]", tmax, xf, yf)
		}
		// The energy x²+y² is conserved along the exact flow.
		for i := range res.T {
			r2 := float64(res.X[i][0].Mul(res.X[i][0]).Add(res.X[i][1].Mul(res.X[i][1])))
			if !scalar.EqualWithinAbs(r2, 1, 1e-12) {
				t.Errorf("tmax=%v: energy drifted to %v at t=%v", tmax, r2, res.T[i])
			}
		}
		// Progress toward the horizon is monotone.
		sign := sim.Sign()
		for i := 1; i < n; i++ {
			if sign*(res.T[i]-res.T[i-1]) <= 0 {
				t.Errorf("tmax=%v: non-monotone time at index %d", tmax, i)
			}
		}
	}
}

func TestDirectionSymmetry(t *testing.T) {
	sim := New(oscField, []taylor.Real{1, 0})
	sim.Order, sim.AbsTol = 28, 1e-20
	sim.SetTimespan(0, 1.5)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	xf := res.X[len(res.X)-1]
	back := New(oscField, []taylor.Real{xf[0], xf[1]})
	back.Order, back.AbsTol = 28, 1e-20
	back.SetTimespan(1.5, 0)
	res2, err := back.Run()
	if err != nil {
		t.Fatal(err)
	}
	x0 := res2.X[len(res2.X)-1]
	nsteps := float64(len(res.T) + len(res2.T))
	tol := 1e-14 * nsteps
	if !scalar.EqualWithinAbs(float64(x0[0]), 1, tol) || !scalar.EqualWithinAbs(float64(x0[1]), 0, tol) {
		t.Errorf("round trip expected [1 0]. got [%v %v]", x0[0], x0[1])
	}
}

func TestRangeMode(t *testing.T) {
	trange := make([]float64, 301)
	floats.Span(trange, 0, 0.3)
	sim := NewScalar(quadField, taylor.Real(3))
	sim.Order, sim.AbsTol, sim.MaxSteps = 25, 1e-20, 100
	xv, err := sim.RunRange(trange)
	if err != nil {
		t.Fatal(err)
	}
	if len(xv) != 301 {
		t.Fatalf("expected 301 samples. got %d", len(xv))
	}
	if xv[0][0] != 3 {
		t.Errorf("expected first sample to equal the initial state. got %v", xv[0][0])
	}
	for i := range trange {
		exact := 3 / (1 - 3*trange[i])
		if !scalar.EqualWithinAbsOrRel(float64(xv[i][0]), exact, 1e-12, 1e-12) {
			t.Errorf("at t=%v expected %v. got %v", trange[i], exact, xv[i][0])
		}
	}
}

func TestRangeModeReverse(t *testing.T) {
	trange := make([]float64, 61)
	floats.Span(trange, 0, -2*math.Pi)
	sim := New(oscField, []taylor.Real{1, 0})
	sim.Order, sim.AbsTol = 28, 1e-20
	xv, err := sim.RunRange(trange)
	if err != nil {
		t.Fatal(err)
	}
	for i := range trange {
		if !scalar.EqualWithinAbs(float64(xv[i][0]), math.Cos(trange[i]), 1e-12) {
			t.Errorf("at t=%v expected %v. got %v", trange[i], math.Cos(trange[i]), xv[i][0])
		}
	}
}

func TestRangeModeOnKnots(t *testing.T) {
	// Sampling exactly on accepted-step knots must reproduce the
	// steps-mode output.
	sim := NewScalar(quadField, taylor.Real(3))
	sim.Order, sim.AbsTol, sim.MaxSteps = 25, 1e-20, 100
	sim.SetTimespan(0, 0.3)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	sim2 := NewScalar(quadField, taylor.Real(3))
	sim2.Order, sim2.AbsTol, sim2.MaxSteps = 25, 1e-20, 100
	xv, err := sim2.RunRange(res.T)
	if err != nil {
		t.Fatal(err)
	}
	for i := range res.T {
		got, want := float64(xv[i][0]), float64(res.X[i][0])
		if !scalar.EqualWithinULP(got, want, 2) {
			t.Errorf("knot %d: range mode %v differs from steps mode %v", i, got, want)
		}
	}
}

func TestStepLimit(t *testing.T) {
	sim := NewScalar(quadField, taylor.Real(3))
	sim.Order, sim.AbsTol, sim.MaxSteps = 25, 1e-20, 3
	sim.SetTimespan(0, 0.3)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.T) != 4 {
		t.Errorf("expected exactly 4 samples with a budget of 3 steps. got %d", len(res.T))
	}
	if !sim.MaxStepsReached() {
		t.Error("expected the step budget warning state")
	}
}

func TestConstantFieldFallback(t *testing.T) {
	zero := func(x taylor.Series[taylor.Real], p any, t taylor.Series[taylor.Real]) taylor.Series[taylor.Real] {
		return x.Zero()
	}
	sim := NewScalar(zero, taylor.Real(1))
	sim.Order, sim.AbsTol = 20, 1e-20
	sim.SetTimespan(0, 1)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	n := len(res.T)
	if res.T[n-1] != 1 {
		t.Errorf("expected integration to reach the horizon. got t=%v", res.T[n-1])
	}
	if res.X[n-1][0] != 1 {
		t.Errorf("expected stationary state 1. got %v", res.X[n-1][0])
	}
	if sim.MaxStepsReached() {
		t.Error("fallback stepping must not exhaust the budget")
	}
}

func TestStationaryStateTerminates(t *testing.T) {
	zero := func(x taylor.Series[taylor.Real], p any, t taylor.Series[taylor.Real]) taylor.Series[taylor.Real] {
		return x.Zero()
	}
	sim := NewScalar(zero, taylor.Real(0))
	sim.Order, sim.AbsTol = 20, 1e-20
	sim.SetTimespan(0, 1)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	// The identically-zero jet has no scale at all; the driver stops
	// with the well-formed one-sample prefix.
	if len(res.T) != 1 || res.X[0][0] != 0 {
		t.Errorf("expected a single stationary sample. got %d samples", len(res.T))
	}
}

func TestTrivialWindow(t *testing.T) {
	sim := NewScalar(quadField, taylor.Real(3))
	sim.Order = 25
	sim.SetTimespan(0.7, 0.7)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.T) != 1 || res.T[0] != 0.7 || res.X[0][0] != 3 {
		t.Errorf("expected the one-sample trivial result. got %v %v", res.T, res.X)
	}
}

func TestEulerOrderOne(t *testing.T) {
	// With N = 1 a single step is a first-order Euler advance.
	sim := NewScalar(quadField, taylor.Real(1))
	sim.Order, sim.AbsTol, sim.MaxSteps = 1, 1e-4, 1
	sim.SetTimespan(0, 10)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	h := res.T[1] - res.T[0]
	want := 1 + h*1*1 // x₀ + h·f(x₀)
	if !scalar.EqualWithinAbs(float64(res.X[1][0]), want, 1e-15) {
		t.Errorf("expected Euler advance to %v. got %v", want, res.X[1][0])
	}
}

func TestValidation(t *testing.T) {
	sim := NewScalar(quadField, taylor.Real(3))
	sim.Order = 0
	if _, err := sim.Run(); err == nil {
		t.Error("expected error for non-positive order")
	}
	sim = NewScalar(quadField, taylor.Real(3))
	sim.AbsTol = 0
	if _, err := sim.Run(); err == nil {
		t.Error("expected error for non-positive tolerance")
	}
	sim = NewScalar(quadField, taylor.Real(3))
	sim.Scalar = nil
	if _, err := sim.Run(); err == nil {
		t.Error("expected error for missing field")
	}
	sim = NewScalar(quadField, taylor.Real(3))
	if _, err := sim.RunRange([]float64{0, 0.2, 0.1}); err == nil {
		t.Error("expected error for non-monotone sample range")
	}
	if _, err := sim.RunRange([]float64{0}); err == nil {
		t.Error("expected error for short sample range")
	}
}

func TestSpecializedBuilder(t *testing.T) {
	// The pre-analyzed jet recurrence of ẋ = y, ẏ = -x.
	analytic := func(tt taylor.Series[taylor.Real], x, dx, xaux []taylor.Series[taylor.Real], p any) {
		for k := 0; k < x[0].Order(); k++ {
			x[0].SetCoeff(k+1, x[1].Coeff(k).Divn(k+1))
			x[1].SetCoeff(k+1, x[0].Coeff(k).Neg().Divn(k+1))
		}
	}
	generic := New(oscField, []taylor.Real{1, 0})
	generic.Order, generic.AbsTol = 28, 1e-20
	generic.SetTimespan(0, 2*math.Pi)
	want, err := generic.Run()
	if err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry[taylor.Real]()
	reg.Register(oscField, analytic)
	sim := New(oscField, []taylor.Real{1, 0})
	sim.Order, sim.AbsTol = 28, 1e-20
	sim.Registry = reg
	sim.SetTimespan(0, 2*math.Pi)
	got, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.T) != len(want.T) {
		t.Fatalf("specialized run took %d samples, generic %d", len(got.T), len(want.T))
	}
	for i := range got.T {
		if got.T[i] != want.T[i] || got.X[i][0] != want.X[i][0] || got.X[i][1] != want.X[i][1] {
			t.Errorf("sample %d: specialized builder diverged from generic recursion", i)
		}
	}
}

func TestSpecializedBuilderProbeFailure(t *testing.T) {
	bad := func(tt taylor.Series[taylor.Real], x, dx, xaux []taylor.Series[taylor.Real], p any) {
		panic("missing precomputed table")
	}
	reg := NewRegistry[taylor.Real]()
	reg.Register(oscField, bad)
	sim := New(oscField, []taylor.Real{1, 0})
	sim.Order, sim.AbsTol = 28, 1e-20
	sim.Registry = reg
	sim.SetTimespan(0, 2*math.Pi)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	xf := res.X[len(res.X)-1]
	if !scalar.EqualWithinAbs(float64(xf[0]), 1, 1e-12) {
		t.Errorf("fallback to the generic recursion failed. got %v", xf[0])
	}
}
