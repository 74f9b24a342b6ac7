package particle

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

// BodyContact is an overlap between a particle and a rigid fixture.
type BodyContact struct {
	Index  int
	Body   rigid.Body
	Weight float64
	// Normal points from the particle into the body.
	Normal mgl64.Vec2
	// Mass is the effective mass of the particle and body along Normal.
	Mass   float64
}

// particleBounds returns the box around all particle positions.
func (s *System) particleBounds() rigid.AABB {
	box := rigid.EmptyAABB()
	for i := 0; i < s.count; i++ {
		box = box.Include(s.positions[i])
	}
	return box
}

// proxyRange returns the sorted proxy interval that can hold particles
// inside box.
func (s *System) proxyRange(box rigid.AABB) (int, int) {
	first := s.lowerBound(s.tagAt(box.Lower[0], box.Lower[1]))
	last := s.upperBound(s.tagAt(box.Upper[0], box.Upper[1]))
	if last < first {
		last = first
	}
	return first, last
}

func (s *System) updateBodyContacts() {
	s.bodyContacts = s.bodyContacts[:0]
	if s.world == nil || s.count == 0 {
		return
	}
	box := s.particleBounds().Expand(s.diameter)
	s.world.QueryAABB(func(f rigid.Fixture) bool {
		if !f.IsSensor() {
			s.collectBodyContacts(f)
		}
		return true
	}, box)
}

func (s *System) collectBodyContacts(f rigid.Fixture) {
	b := f.Body()
	bp := b.WorldCenter()
	bm := b.Mass()
	lc := b.LocalCenter()
	bI := b.Inertia() - bm*lc.Dot(lc)
	invBm := 0.0
	if bm > 0 {
		invBm = 1 / bm
	}
	invBI := 0.0
	if bI > 0 {
		invBI = 1 / bI
	}

	for child := 0; child < f.ChildCount(); child++ {
		box := f.AABB(child).Expand(s.diameter)
		first, last := s.proxyRange(box)
		for k := first; k < last; k++ {
			a := s.proxies[k].index
			ap := s.positions[a]
			if !box.Contains(ap) {
				continue
			}
			d, n := f.ComputeDistance(ap, child)
			if d >= s.diameter {
				continue
			}
			invAm := s.ParticleInvMass()
			if s.flags[a].Has(Wall) {
				invAm = 0
			}
			rpn := rigid.Cross(ap.Sub(bp), n)
			s.bodyContacts = append(s.bodyContacts, BodyContact{
				Index:  a,
				Body:   b,
				Weight: 1 - d*s.invDiameter,
				Normal: n.Mul(-1),
				Mass:   1 / (invAm + invBm + invBI*rpn*rpn),
			})
		}
	}
}
