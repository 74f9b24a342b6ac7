package particle

import "github.com/san-kum/fluidsim/internal/rigid"

// solveCollision stops particles whose motion this step would cross a
// fixture surface and pushes the fixture's body with the momentum removed.
func (s *System) solveCollision(st step) {
	if s.world == nil {
		return
	}
	box := rigid.EmptyAABB()
	for i := 0; i < s.count; i++ {
		p1 := s.positions[i]
		p2 := p1.Add(s.velocities[i].Mul(st.dt))
		box = box.Include(p1).Include(p2)
	}
	s.world.QueryAABB(func(f rigid.Fixture) bool {
		if !f.IsSensor() {
			s.collideFixture(f, st)
		}
		return true
	}, box)
}

func (s *System) collideFixture(f rigid.Fixture, st step) {
	body := f.Body()
	xf := body.Transform()
	xf0 := body.PreviousTransform()
	mass := s.ParticleMass()

	for child := 0; child < f.ChildCount(); child++ {
		box := f.AABB(child).Expand(s.diameter)
		first, last := s.proxyRange(box)
		for k := first; k < last; k++ {
			a := s.proxies[k].index
			ap := s.positions[a]
			if !box.Contains(ap) {
				continue
			}
			av := s.velocities[a]
			in := rigid.RayCastInput{
				P1:          xf.Apply(xf0.ApplyT(ap)),
				P2:          ap.Add(av.Mul(st.dt)),
				MaxFraction: 1,
			}
			out, hit := f.RayCast(in, child)
			if !hit {
				continue
			}
			t := out.Fraction
			p := in.P1.Mul(1 - t).Add(in.P2.Mul(t)).Add(out.Normal.Mul(linearSlop))
			v := p.Sub(ap).Mul(st.invDt)
			s.velocities[a] = v

			fdn := av.Sub(v).Mul(mass).Dot(out.Normal)
			body.ApplyLinearImpulse(out.Normal.Mul(fdn), p)
		}
	}
}
