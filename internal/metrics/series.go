package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fluidsim/internal/sim"
)

// series keeps every observation of a run.
type series struct {
	values []float64
}

func (s *series) add(v float64) { s.values = append(s.values, v) }
func (s *series) reset()        { s.values = s.values[:0] }

func (s *series) last() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

func (s *series) mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return stat.Mean(s.values, nil)
}

func (s *series) max() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return floats.Max(s.values)
}

// Defaults returns the metrics attached to every scenario run.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewMomentum(),
		NewContacts(),
		NewCollisionEnergy(),
		NewParticleCount(),
		NewStability(),
	}
}

// Summary is the mean and max of a recorded series.
func Summary(values []float64) (avg, peak float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.Mean(values, nil), floats.Max(values)
}
