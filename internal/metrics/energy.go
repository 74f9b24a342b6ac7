package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fluidsim/internal/particle"
)

// KineticEnergy is ½·m·Σ|v|² over all particles, averaged across the run.
type KineticEnergy struct {
	name    string
	scratch []float64
	series
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(sys *particle.System, t float64) {
	e.scratch = e.scratch[:0]
	for _, v := range sys.Velocities() {
		e.scratch = append(e.scratch, v.Dot(v))
	}
	e.add(0.5 * sys.ParticleMass() * floats.Sum(e.scratch))
}

func (e *KineticEnergy) Value() float64  { return e.mean() }
func (e *KineticEnergy) Sample() float64 { return e.last() }
func (e *KineticEnergy) Reset()          { e.reset() }

// CollisionEnergy tracks the energy lost to inelastic particle contacts.
// Value is the largest per-step figure.
type CollisionEnergy struct {
	name string
	series
}

func NewCollisionEnergy() *CollisionEnergy {
	return &CollisionEnergy{name: "collision_energy"}
}

func (e *CollisionEnergy) Name() string { return e.name }

func (e *CollisionEnergy) Observe(sys *particle.System, t float64) {
	e.add(sys.ComputeCollisionEnergy())
}

func (e *CollisionEnergy) Value() float64  { return e.max() }
func (e *CollisionEnergy) Sample() float64 { return e.last() }
func (e *CollisionEnergy) Reset()          { e.reset() }
