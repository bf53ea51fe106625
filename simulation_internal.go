package gotaylor

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

const (
	escape = "\x1b"
	yellow = 33
)

// throwf terminate run inmediately due to error
func throwf(format string, a ...interface{}) {
	panic(fmt.Errorf(format+"\n", a...))
}

func scolorf(color int, str string) string {
	return fmt.Sprintf("%s[%dm%s%s[0m", escape, color, str, escape)
}

// warnf prints a user-visible warning without terminating the run
func warnf(format string, a ...interface{}) {
	fmt.Printf(scolorf(yellow, format)+"\n", a...)
}

func (sim *Simulation[U]) verifyPreRun() error {
	if err := verifyConfig(sim.Config); err != nil {
		return err
	}
	if len(sim.X0) == 0 {
		return errors.New("simulation: no initial state defined")
	}
	if sim.Scalar == nil && sim.System == nil {
		return errors.New("simulation: no field defined")
	}
	if sim.Scalar != nil && sim.System != nil {
		return errors.New("simulation: both scalar and system fields defined")
	}
	if sim.Scalar != nil && len(sim.X0) != 1 {
		return errors.Errorf("simulation: scalar field with %d-dimensional state", len(sim.X0))
	}
	return nil
}

func verifyRange(trange []float64) error {
	if len(trange) < 2 {
		return errors.Errorf("simulation: sample range needs at least 2 points. got %d", len(trange))
	}
	if floats.HasNaN(trange) {
		return errors.New("simulation: NaN in sample range")
	}
	if !isFinite(trange[0]) || !isFinite(trange[len(trange)-1]) {
		return errors.New("simulation: sample range limits must be finite")
	}
	sign := 1.0
	if trange[len(trange)-1] < trange[0] {
		sign = -1
	}
	for i := 1; i < len(trange); i++ {
		if sign*(trange[i]-trange[i-1]) <= 0 {
			return errors.Errorf("simulation: sample range is not strictly monotone at index %d", i)
		}
	}
	return nil
}

func (sim *Simulation[U]) logHeader() {
	sep := sim.Log.Separator
	sim.Logger.Logf("%s%s", fixLength("t", sim.Log.FormatLen), sep)
	for j := range sim.X0 {
		name := fixLength(fmt.Sprintf("x[%d]", j), sim.Log.FormatLen)
		if j == len(sim.X0)-1 {
			sim.Logger.Logf("%s\n", name)
		} else {
			sim.Logger.Logf("%s%s", name, sep)
		}
	}
}

func (sim *Simulation[U]) logStep(t float64, row []U) {
	fmtlen := sim.Log.FormatLen
	formatter := fmt.Sprintf("%%%d.%dg%s", fmtlen, sim.Log.Precision, sim.Log.Separator)
	if sim.Log.Precision == -1 {
		formatter = fmt.Sprintf("%%%dg%s", fmtlen, sim.Log.Separator)
	}
	sim.Logger.Logf(formatter, t)
	for j, v := range row {
		val := fixLength(fmt.Sprintf("%v", v), fmtlen)
		if j == len(row)-1 {
			sim.Logger.Logf("%s\n", val)
		} else {
			sim.Logger.Logf("%s%s", val, sim.Log.Separator)
		}
	}
}

func fixLength(s string, l int) string {
	const spaces64 = "                                                                "
	if len(s) < l {
		return s + spaces64[:l-len(s)]
	}
	return s[:l]
}
