package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

func (s *System) applyGravity(st step) {
	var g mgl64.Vec2
	if s.world != nil {
		g = s.world.Gravity().Mul(st.dt * s.gravityScale)
	}
	crit2 := s.criticalVelocitySquared(st)
	for i := 0; i < s.count; i++ {
		v := s.velocities[i].Add(g)
		v2 := v.Dot(v)
		if v2 > crit2 {
			v = v.Mul(math.Sqrt(crit2 / v2))
		}
		s.velocities[i] = v
	}
}

func (s *System) solveWall() {
	for i := 0; i < s.count; i++ {
		if s.flags[i].Has(Wall) {
			s.velocities[i] = mgl64.Vec2{}
		}
	}
}

func (s *System) integrate(st step) {
	for i := 0; i < s.count; i++ {
		s.positions[i] = s.positions[i].Add(s.velocities[i].Mul(st.dt))
	}
}

func (s *System) solveViscous() {
	strength := s.viscousStrength
	invMass := s.ParticleInvMass()
	for _, c := range s.bodyContacts {
		a := c.Index
		if !s.flags[a].Has(Viscous) {
			continue
		}
		p := s.positions[a]
		v := rigid.VelocityAt(c.Body, p).Sub(s.velocities[a])
		f := v.Mul(strength * c.Mass * c.Weight)
		s.velocities[a] = s.velocities[a].Add(f.Mul(invMass))
		c.Body.ApplyLinearImpulse(f.Mul(-1), p)
	}
	for _, c := range s.contacts {
		if !c.Flags.Has(Viscous) {
			continue
		}
		a, b := c.IndexA, c.IndexB
		f := s.velocities[b].Sub(s.velocities[a]).Mul(strength * c.Weight)
		s.velocities[a] = s.velocities[a].Add(f)
		s.velocities[b] = s.velocities[b].Sub(f)
	}
}

func (s *System) solvePowder(st step) {
	strength := s.powderStrength * s.criticalVelocity(st)
	minW := 1.0 - stride
	invMass := s.ParticleInvMass()
	for _, c := range s.bodyContacts {
		a := c.Index
		if !s.flags[a].Has(Powder) || c.Weight <= minW {
			continue
		}
		p := s.positions[a]
		f := c.Normal.Mul(strength * c.Mass * (c.Weight - minW))
		s.velocities[a] = s.velocities[a].Sub(f.Mul(invMass))
		c.Body.ApplyLinearImpulse(f, p)
	}
	for _, c := range s.contacts {
		if !c.Flags.Has(Powder) || c.Weight <= minW {
			continue
		}
		f := c.Normal.Mul(strength * (c.Weight - minW))
		s.velocities[c.IndexA] = s.velocities[c.IndexA].Sub(f)
		s.velocities[c.IndexB] = s.velocities[c.IndexB].Add(f)
	}
}

func (s *System) solveTensile(st step) {
	for i := 0; i < s.count; i++ {
		s.accumulation[i] = 0
		s.accumulation2[i] = mgl64.Vec2{}
	}
	for _, c := range s.contacts {
		if !c.Flags.Has(Tensile) {
			continue
		}
		a, b := c.IndexA, c.IndexB
		s.accumulation[a] += c.Weight
		s.accumulation[b] += c.Weight
		pull := c.Normal.Mul((1 - c.Weight) * c.Weight)
		s.accumulation2[a] = s.accumulation2[a].Sub(pull)
		s.accumulation2[b] = s.accumulation2[b].Add(pull)
	}

	strengthA := s.surfaceTensionStrengthA * s.criticalVelocity(st)
	strengthB := s.surfaceTensionStrengthB * s.criticalVelocity(st)
	for _, c := range s.contacts {
		if !c.Flags.Has(Tensile) {
			continue
		}
		a, b := c.IndexA, c.IndexB
		h := s.accumulation[a] + s.accumulation[b]
		curvature := s.accumulation2[b].Sub(s.accumulation2[a]).Dot(c.Normal)
		fn := (strengthA*(h-2) + strengthB*curvature) * c.Weight
		f := c.Normal.Mul(fn)
		s.velocities[a] = s.velocities[a].Sub(f)
		s.velocities[b] = s.velocities[b].Add(f)
	}
}

// solveSolid pushes apart contacts between different groups in proportion
// to how deep both particles sit inside their groups.
func (s *System) solveSolid(st step) {
	s.requestDepths()
	strength := st.invDt * s.ejectionStrength
	for _, c := range s.contacts {
		a, b := c.IndexA, c.IndexB
		if s.groups[a] == s.groups[b] {
			continue
		}
		h := s.depths[a] + s.depths[b]
		f := c.Normal.Mul(strength * h * c.Weight)
		s.velocities[a] = s.velocities[a].Sub(f)
		s.velocities[b] = s.velocities[b].Add(f)
	}
}

func (s *System) solveColorMixing() {
	s.requestColors()
	strength := int(256 * s.colorMixingStrength)
	for _, c := range s.contacts {
		a, b := c.IndexA, c.IndexB
		if s.flags[a]&s.flags[b]&ColorMixing == 0 {
			continue
		}
		mix(&s.colors[a], &s.colors[b], strength)
	}
}

// solvePressure turns the summed contact weight of each particle into a
// pressure and applies it along every contact normal.
func (s *System) solvePressure(st step) {
	for i := 0; i < s.count; i++ {
		s.accumulation[i] = 0
	}
	for _, c := range s.bodyContacts {
		s.accumulation[c.Index] += c.Weight
	}
	for _, c := range s.contacts {
		s.accumulation[c.IndexA] += c.Weight
		s.accumulation[c.IndexB] += c.Weight
	}
	if s.allFlags.Has(noPressureFlags) {
		for i := 0; i < s.count; i++ {
			if s.flags[i].Has(noPressureFlags) {
				s.accumulation[i] = 0
			}
		}
	}

	pressurePerWeight := s.pressureStrength * s.criticalPressure(st)
	for i := 0; i < s.count; i++ {
		w := s.accumulation[i]
		s.accumulation[i] = pressurePerWeight * math.Max(0, math.Min(w, maxWeight)-minWeight)
	}

	velocityPerPressure := st.dt / (s.density * s.diameter)
	invMass := s.ParticleInvMass()
	for _, c := range s.bodyContacts {
		a := c.Index
		p := s.positions[a]
		h := s.accumulation[a] + pressurePerWeight*c.Weight
		f := c.Normal.Mul(velocityPerPressure * c.Weight * c.Mass * h)
		s.velocities[a] = s.velocities[a].Sub(f.Mul(invMass))
		c.Body.ApplyLinearImpulse(f, p)
	}
	for _, c := range s.contacts {
		a, b := c.IndexA, c.IndexB
		h := s.accumulation[a] + s.accumulation[b]
		f := c.Normal.Mul(velocityPerPressure * c.Weight * h)
		s.velocities[a] = s.velocities[a].Sub(f)
		s.velocities[b] = s.velocities[b].Add(f)
	}
}

// solveDamping removes part of the approaching normal velocity of every
// contact.
func (s *System) solveDamping() {
	damping := s.dampingStrength
	invMass := s.ParticleInvMass()
	for _, c := range s.bodyContacts {
		a := c.Index
		p := s.positions[a]
		v := rigid.VelocityAt(c.Body, p).Sub(s.velocities[a])
		vn := v.Dot(c.Normal)
		if vn >= 0 {
			continue
		}
		f := c.Normal.Mul(damping * c.Weight * c.Mass * vn)
		s.velocities[a] = s.velocities[a].Add(f.Mul(invMass))
		c.Body.ApplyLinearImpulse(f.Mul(-1), p)
	}
	for _, c := range s.contacts {
		a, b := c.IndexA, c.IndexB
		vn := s.velocities[b].Sub(s.velocities[a]).Dot(c.Normal)
		if vn >= 0 {
			continue
		}
		f := c.Normal.Mul(damping * c.Weight * vn)
		s.velocities[a] = s.velocities[a].Add(f)
		s.velocities[b] = s.velocities[b].Sub(f)
	}
}
