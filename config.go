package gotaylor

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config modifies Simulation behaviour/output.
// Set with simulation.SetConfig method or decode from yaml with LoadConfig.
type Config struct {
	// Order is the degree N of the truncated solution polynomial; each
	// jet carries N+1 coefficients.
	Order int `yaml:"order"`
	// AbsTol is the absolute tolerance the step-size control holds the
	// predicted truncation magnitude to.
	AbsTol float64 `yaml:"abstol"`
	// MaxSteps caps the number of accepted steps; reaching it ends the
	// run with a well-formed prefix and a warning.
	MaxSteps int `yaml:"maxsteps"`
	// Specialize permits a pre-registered specialized jet builder to
	// replace the generic recursion for the run's field. Purely a
	// performance lever; coefficients are identical either way.
	Specialize bool `yaml:"specialize"`
	Log        struct {
		Results   bool   `yaml:"results"`
		FormatLen int    `yaml:"len"`
		Precision int    `yaml:"precision"`
		Separator string `yaml:"separator"`
	} `yaml:"log"`
}

// DefaultConfig returns the configuration Run methods assume when the
// user sets nothing else.
func DefaultConfig() Config {
	cfg := Config{
		Order:      20,
		AbsTol:     1e-16,
		MaxSteps:   500,
		Specialize: true,
	}
	cfg.Log.FormatLen = 12
	cfg.Log.Precision = -1
	cfg.Log.Separator = " "
	return cfg
}

// LoadConfig decodes a yaml document into a Config, starting from
// DefaultConfig for any omitted field.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrap(err, "config: decode")
	}
	return cfg, verifyConfig(cfg)
}

func verifyConfig(cfg Config) error {
	if cfg.Order < 1 {
		return errors.Errorf("config: order must be positive. got %d", cfg.Order)
	}
	if !(cfg.AbsTol > 0) || !isFinite(cfg.AbsTol) {
		return errors.Errorf("config: abstol must be positive and finite. got %v", cfg.AbsTol)
	}
	if cfg.MaxSteps < 1 {
		return errors.Errorf("config: maxsteps must be at least 1. got %d", cfg.MaxSteps)
	}
	return nil
}
