package metrics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/fluidsim/internal/particle"
)

// Momentum is the magnitude of the total linear momentum of the particles.
type Momentum struct {
	name string
	series
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(sys *particle.System, t float64) {
	var sum mgl64.Vec2
	for _, v := range sys.Velocities() {
		sum = sum.Add(v)
	}
	m.add(sum.Mul(sys.ParticleMass()).Len())
}

func (m *Momentum) Value() float64  { return m.mean() }
func (m *Momentum) Sample() float64 { return m.last() }
func (m *Momentum) Reset()          { m.reset() }
