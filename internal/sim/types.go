package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/fluidsim/internal/particle"
)

var (
	ErrNonFinite = errors.New("sim: non-finite particle state")
	ErrNoSystem  = errors.New("sim: no particle system")
)

// Metric reduces the per-step state of a run to one number.
type Metric interface {
	Name() string
	Observe(sys *particle.System, t float64)
	Value() float64
	Reset()
}

// Sampler is implemented by metrics that also report their latest
// observation. The simulator records those samples as a series.
type Sampler interface {
	Sample() float64
}

type Observer interface {
	OnStep(sys *particle.System, step int, t float64)
}

type Config struct {
	Dt            float64
	Steps         int
	// ValidateState aborts the run once a position or velocity is NaN or Inf.
	ValidateState bool
}

type Result struct {
	StepsTaken int
	Times      []float64
	Series     map[string][]float64
	Metrics    map[string]float64
	Particles  int
	Groups     int
}

type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at t=%.4f: %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
