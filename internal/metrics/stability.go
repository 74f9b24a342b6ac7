package metrics

import (
	"github.com/san-kum/fluidsim/internal/particle"
)

// Stability is the fraction of steps in which no particle moved faster than
// the threshold. A zero threshold uses the solver's speed cap of one
// diameter per step, measured against the observed time step.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
	lastT      float64
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func NewStabilityThreshold(threshold float64) *Stability {
	return &Stability{name: "stability", threshold: threshold}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sys *particle.System, t float64) {
	limit := s.threshold
	if limit <= 0 {
		dt := t - s.lastT
		if dt <= 0 {
			s.lastT = t
			return
		}
		limit = sys.Diameter() / dt
	}
	s.lastT = t
	s.samples++

	limit2 := limit * limit
	for _, v := range sys.Velocities() {
		if v.Dot(v) > limit2*(1+1e-9) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.lastT = 0
}
