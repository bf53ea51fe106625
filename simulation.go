// Package gotaylor can be described as a simple interface
// to solve a first-order system of non-linear differential equations
// which can be defined as Go code, using the Taylor-series method.
//
// Each accepted step constructs a truncated power series of the
// solution about the current time by the Picard recursion, uses the
// magnitude of its trailing coefficients to pick an adaptive step, and
// advances by evaluating the series. The series order and the absolute
// tolerance are the two knobs; there is no fixed step length.
package gotaylor

import (
	"math"

	"github.com/pkg/errors"

	"github.com/soypat/gotaylor/taylor"
)

// Simulation contains the dynamics of the system and stores
// integration results.
//
// Defines an object that can solve
// a non-autonomous, non-linear system
// of differential equations over any coefficient ring.
type Simulation[U taylor.Coeff[U]] struct {
	Timespan
	// Exactly one of Scalar or System must be set.
	Scalar Field[U]
	System SystemField[U]
	// X0 is the initial state. Length 1 for scalar fields.
	X0 []U
	// Params is forwarded opaquely to the field on every evaluation.
	Params any
	// Registry optionally supplies specialized jet builders; consulted
	// only when Config.Specialize is set.
	Registry *Registry[U]
	Logger   Logger
	Config

	// Working storage below is created once per Run call and reused
	// across steps; the step loop itself does not allocate.
	t, taux     taylor.Series[taylor.Real]
	x, dx, xaux []taylor.Series[U]
	jet         JetBuilder[U]
	x0buf       []U
	tv          []float64
	xv          [][]U
	jets        [][]taylor.Series[U]
	nsteps      int
	stepLimit   bool
	dense       bool
}

// Results holds the accepted-step output of a run: times and the state
// at each time, both of the same length.
type Results[U taylor.Coeff[U]] struct {
	T []float64
	X [][]U
}

// New creates a simulation of the in-place system field f from the
// initial state x0, with the default configuration.
func New[U taylor.Coeff[U]](f SystemField[U], x0 []U) *Simulation[U] {
	sim := &Simulation[U]{
		System: f,
		X0:     append([]U(nil), x0...),
		Config: DefaultConfig(),
	}
	return sim
}

// NewScalar creates a simulation of the value-returning scalar field f
// from the initial state x0, with the default configuration.
func NewScalar[U taylor.Coeff[U]](f Field[U], x0 U) *Simulation[U] {
	sim := &Simulation[U]{
		Scalar: f,
		X0:     []U{x0},
		Config: DefaultConfig(),
	}
	return sim
}

// SetConfig Set configuration to modify default Simulation values
func (sim *Simulation[U]) SetConfig(cfg Config) *Simulation[U] {
	sim.Config = cfg
	return sim
}

// MaxStepsReached reports whether the last run ended by exhausting the
// step budget rather than reaching the horizon.
func (sim *Simulation[U]) MaxStepsReached() bool { return sim.stepLimit }

// Run integrates from Start to End and returns the accepted steps.
// Validation failures and field failures surface as errors; running out
// of step budget does not, it returns the well-formed prefix along with
// a warning.
func (sim *Simulation[U]) Run() (*Results[U], error) {
	if err := sim.init(false); err != nil {
		return nil, err
	}
	sim.loop(nil, nil)
	return &Results[U]{T: sim.tv[:sim.nsteps], X: sim.xv[:sim.nsteps]}, nil
}

// RunDense integrates like Run but also deep-copies the solution jet of
// every accepted step, returning an interpolant that evaluates the
// solution anywhere inside the integration window.
func (sim *Simulation[U]) RunDense() (*Interpolant[U], error) {
	if err := sim.init(true); err != nil {
		return nil, err
	}
	sim.loop(nil, nil)
	return &Interpolant[U]{
		T:    sim.tv[:sim.nsteps],
		Jets: sim.jets[:sim.nsteps-1],
	}, nil
}

// RunRange integrates over the window spanned by the strictly monotone
// sample times trange (first element is the initial time, last is the
// horizon) and returns the solution at exactly those times. Samples are
// filled from each step's local jet over its validity window, so no
// accepted step is ever repeated for output.
func (sim *Simulation[U]) RunRange(trange []float64) ([][]U, error) {
	if err := verifyRange(trange); err != nil {
		return nil, err
	}
	sim.SetTimespan(trange[0], trange[len(trange)-1])
	if err := sim.init(false); err != nil {
		return nil, err
	}
	d := len(sim.X0)
	rng := make([][]U, len(trange))
	backing := make([]U, len(trange)*d)
	for i := range rng {
		rng[i] = backing[i*d : (i+1)*d : (i+1)*d]
	}
	sim.loop(trange, rng)
	return rng, nil
}

// loop is the common integration loop of the three run modes. trange
// and rng are nil except in range mode.
func (sim *Simulation[U]) loop(trange []float64, rng [][]U) {
	signStep := sim.Sign()
	tcur := sim.Start()
	tmax := sim.End()
	sim.record(tcur)
	ri := 0
	if rng != nil {
		for j := range sim.X0 {
			rng[0][j] = sim.X0[j].Clone()
		}
		ri = 1
	}
	for signStep*tcur < signStep*tmax {
		sim.buildJet()
		dt := Stepsize(sim.x, sim.AbsTol)
		if math.IsInf(dt, 0) || math.IsNaN(dt) {
			dt = SecondStepsize(sim.x)
		}
		if !(dt > 0) || !isFinite(dt) {
			warnf("warning: step size %v at t=%v is not positive and finite. stopping", dt, tcur)
			break
		}
		// Apply direction and clamp to the horizon.
		remaining := signStep * (tmax - tcur)
		last := dt >= remaining
		if last {
			dt = remaining
		}
		dt *= signStep
		tnext := tcur + dt
		if last {
			tnext = tmax
		}
		if rng != nil {
			// This step's jet is valid over [tcur, tnext) in the
			// direction of integration; the horizon itself belongs to
			// the clamped final step.
			for ri < len(trange) && (signStep*trange[ri] < signStep*tnext || (last && trange[ri] == tnext)) {
				for j := range sim.x {
					rng[ri][j] = sim.x[j].Eval(trange[ri] - tcur)
				}
				ri++
			}
		}
		if sim.dense {
			// Deep-copy before the reset below mutates the backing storage.
			seg := sim.jets[sim.nsteps-1]
			for j := range sim.x {
				taylor.Copy(seg[j], sim.x[j])
			}
		}
		for j := range sim.x {
			sim.x0buf[j] = sim.x[j].Eval(dt)
		}
		for j := range sim.x {
			sim.x[j].SetCoeff(0, sim.x0buf[j])
			if sim.System != nil {
				taylor.SetZero(sim.dx[j])
			}
		}
		tcur = tnext
		sim.t.SetCoeff(0, taylor.Real(tcur))
		sim.record(tcur)
		if sim.nsteps > sim.MaxSteps && signStep*tcur < signStep*tmax {
			warnf("warning: maximum number of integration steps (%d) reached", sim.MaxSteps)
			sim.stepLimit = true
			break
		}
	}
	if sim.Log.Results {
		sim.Logger.flush()
	}
}

func (sim *Simulation[U]) buildJet() {
	if sim.Scalar != nil {
		jetCoeffs(sim.Scalar, sim.t, sim.taux, sim.x[0], sim.xaux[0], sim.Params)
		return
	}
	sim.jet(sim.t, sim.x, sim.dx, sim.xaux, sim.Params)
}

// record appends the current sample to the output buffers.
func (sim *Simulation[U]) record(t float64) {
	sim.tv[sim.nsteps] = t
	row := sim.xv[sim.nsteps]
	for j := range sim.x0buf {
		row[j] = sim.x0buf[j].Clone()
	}
	if sim.Log.Results {
		sim.logStep(t, row)
	}
	sim.nsteps++
}

// init validates inputs and builds the run's working storage: the time
// series t with t[0] the current time and t[1] = 1, the state jets
// seeded from X0, the field-output and truncation scratch, and the
// output buffers sized MaxSteps+1 up front.
func (sim *Simulation[U]) init(dense bool) error {
	if err := sim.verifyPreRun(); err != nil {
		return err
	}
	n := sim.Order
	d := len(sim.X0)
	sim.dense = dense
	sim.nsteps = 0
	sim.stepLimit = false
	sim.t = taylor.New(n, taylor.Real(sim.Start()))
	if n >= 1 {
		sim.t.SetCoeff(1, 1)
	}
	sim.taux = taylor.New(n, taylor.Real(0))
	sim.x = make([]taylor.Series[U], d)
	sim.dx = make([]taylor.Series[U], d)
	sim.xaux = make([]taylor.Series[U], d)
	sim.x0buf = make([]U, d)
	for j := range sim.X0 {
		sim.x[j] = taylor.New(n, sim.X0[j])
		sim.dx[j] = taylor.New(n, sim.X0[j].Zero())
		sim.xaux[j] = taylor.New(n, sim.X0[j].Zero())
		sim.x0buf[j] = sim.X0[j].Clone()
	}
	sim.tv = make([]float64, sim.MaxSteps+1)
	sim.xv = make([][]U, sim.MaxSteps+1)
	backing := make([]U, (sim.MaxSteps+1)*d)
	for i := range sim.xv {
		sim.xv[i] = backing[i*d : (i+1)*d : (i+1)*d]
	}
	sim.jets = nil
	if dense {
		sim.jets = make([][]taylor.Series[U], sim.MaxSteps)
		for i := range sim.jets {
			seg := make([]taylor.Series[U], d)
			for j := range seg {
				seg[j] = taylor.New(n, sim.X0[j].Zero())
			}
			sim.jets[i] = seg
		}
	}
	sim.setJetBuilder()
	if sim.Log.Results {
		sim.logHeader()
	}
	return nil
}

// setJetBuilder resolves the jet builder for this run: the generic
// Picard recursion, unless a registered specialization for the field
// survives a dry run on the initial jet.
func (sim *Simulation[U]) setJetBuilder() {
	sim.jet = func(t taylor.Series[taylor.Real], x, dx, xaux []taylor.Series[U], p any) {
		jetCoeffsSystem(sim.System, t, sim.taux, x, dx, xaux, p)
	}
	if sim.Scalar != nil || !sim.Specialize || sim.Registry == nil {
		return
	}
	b := sim.Registry.lookup(sim.System)
	if b == nil {
		return
	}
	if err := sim.probe(b); err != nil {
		warnf("warning: specialized jet builder failed, using generic recursion: %v", err)
		return
	}
	sim.jet = b
}

// probe dry-runs a specialized builder on a copy of the initial jet.
func (sim *Simulation[U]) probe(b JetBuilder[U]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%v", r)
		}
	}()
	d := len(sim.x)
	x := make([]taylor.Series[U], d)
	dx := make([]taylor.Series[U], d)
	xaux := make([]taylor.Series[U], d)
	for j := range sim.x {
		x[j] = sim.x[j].Clone()
		dx[j] = sim.dx[j].Clone()
		xaux[j] = sim.xaux[j].Clone()
	}
	b(sim.t.Clone(), x, dx, xaux, sim.Params)
	return nil
}
