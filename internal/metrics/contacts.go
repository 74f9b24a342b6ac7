package metrics

import "github.com/san-kum/fluidsim/internal/particle"

// Contacts counts particle-particle and particle-body contacts per step.
type Contacts struct {
	name string
	series
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string { return c.name }

func (c *Contacts) Observe(sys *particle.System, t float64) {
	c.add(float64(len(sys.Contacts()) + len(sys.BodyContacts())))
}

func (c *Contacts) Value() float64  { return c.mean() }
func (c *Contacts) Sample() float64 { return c.last() }
func (c *Contacts) Reset()          { c.reset() }

// ParticleCount reports the live particle count at the end of the run.
type ParticleCount struct {
	name string
	series
}

func NewParticleCount() *ParticleCount {
	return &ParticleCount{name: "particles"}
}

func (p *ParticleCount) Name() string { return p.name }

func (p *ParticleCount) Observe(sys *particle.System, t float64) {
	p.add(float64(sys.ParticleCount()))
}

func (p *ParticleCount) Value() float64  { return p.last() }
func (p *ParticleCount) Sample() float64 { return p.last() }
func (p *ParticleCount) Reset()          { p.reset() }
