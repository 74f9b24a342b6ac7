package particle

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

type GroupDef struct {
	Flags           Flags
	GroupFlags      GroupFlags
	Position        mgl64.Vec2
	Angle           float64
	LinearVelocity  mgl64.Vec2
	AngularVelocity float64
	Color           *Color
	Strength        float64
	// Shape is rasterized on the stride lattice. A nil shape creates an
	// empty group.
	Shape           rigid.Shape
	// KeepWhenEmpty stops the group from being destroyed once its last
	// particle is removed.
	KeepWhenEmpty   bool
	UserData        any
}

func DefaultGroupDef() GroupDef {
	return GroupDef{Strength: 1}
}

// Group owns the contiguous particle range [first, last).
type Group struct {
	system *System
	first  int
	last   int
	valid  bool

	flags                GroupFlags
	strength             float64
	destroyAutomatically bool
	toBeDestroyed        bool
	userData             any
	prev, next           *Group

	timestamp       int
	mass            float64
	inertia         float64
	center          mgl64.Vec2
	linearVelocity  mgl64.Vec2
	angularVelocity float64
	transform       rigid.Transform
}

func (g *Group) Next() *Group               { return g.next }
func (g *Group) First() int                 { return g.first }
func (g *Group) Last() int                  { return g.last }
func (g *Group) ParticleCount() int         { return g.last - g.first }
func (g *Group) Contains(i int) bool        { return g.first <= i && i < g.last }
func (g *Group) Flags() GroupFlags          { return g.flags }
func (g *Group) SetFlags(f GroupFlags)      { g.flags = f }
func (g *Group) Strength() float64          { return g.strength }
func (g *Group) UserData() any              { return g.userData }
func (g *Group) SetUserData(v any)          { g.userData = v }
func (g *Group) Valid() bool                { return g.valid }
func (g *Group) Transform() rigid.Transform { return g.transform }
func (g *Group) Position() mgl64.Vec2       { return g.transform.P }
func (g *Group) Angle() float64             { return g.transform.Q.Angle() }

func (g *Group) Mass() float64 {
	g.updateStatistics()
	return g.mass
}

// Inertia is the rotational inertia about the center of mass.
func (g *Group) Inertia() float64 {
	g.updateStatistics()
	return g.inertia
}

func (g *Group) Center() mgl64.Vec2 {
	g.updateStatistics()
	return g.center
}

func (g *Group) LinearVelocity() mgl64.Vec2 {
	g.updateStatistics()
	return g.linearVelocity
}

func (g *Group) AngularVelocity() float64 {
	g.updateStatistics()
	return g.angularVelocity
}

// updateStatistics recomputes the mass properties once per step.
func (g *Group) updateStatistics() {
	s := g.system
	if s == nil || g.timestamp == s.timestamp {
		return
	}
	m := s.ParticleMass()
	g.mass = 0
	g.center = mgl64.Vec2{}
	g.linearVelocity = mgl64.Vec2{}
	for i := g.first; i < g.last; i++ {
		g.mass += m
		g.center = g.center.Add(s.positions[i].Mul(m))
		g.linearVelocity = g.linearVelocity.Add(s.velocities[i].Mul(m))
	}
	if g.mass > 0 {
		g.center = g.center.Mul(1 / g.mass)
		g.linearVelocity = g.linearVelocity.Mul(1 / g.mass)
	}
	g.inertia = 0
	g.angularVelocity = 0
	for i := g.first; i < g.last; i++ {
		p := s.positions[i].Sub(g.center)
		v := s.velocities[i].Sub(g.linearVelocity)
		g.inertia += m * p.Dot(p)
		g.angularVelocity += m * rigid.Cross(p, v)
	}
	if g.inertia > 0 {
		g.angularVelocity *= 1 / g.inertia
	}
	g.timestamp = s.timestamp
}

// solveRigid advances every rigid group's transform by its mean motion and
// replaces member velocities with the rigid motion field.
func (s *System) solveRigid(st step) {
	for g := s.groupList; g != nil; g = g.next {
		if !g.flags.Has(Rigid) {
			continue
		}
		g.updateStatistics()
		q := rigid.NewRot(st.dt * g.angularVelocity)
		t := g.linearVelocity.Mul(st.dt).Add(g.center).Sub(q.Apply(g.center))
		delta := rigid.Transform{P: t, Q: q}
		g.transform = delta.Mul(g.transform)

		vp := delta.P.Mul(st.invDt)
		vs := st.invDt * delta.Q.S
		vc := st.invDt * (delta.Q.C - 1)
		for i := g.first; i < g.last; i++ {
			p := s.positions[i]
			s.velocities[i] = mgl64.Vec2{vc*p[0] - vs*p[1] + vp[0], vs*p[0] + vc*p[1] + vp[1]}
		}
	}
}
