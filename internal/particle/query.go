package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

// QueryAABB calls fn for every particle strictly inside box until fn
// returns false.
func (s *System) QueryAABB(box rigid.AABB, fn func(index int) bool) {
	if len(s.proxies) == 0 {
		return
	}
	if s.proxiesDirty {
		s.sortProxies()
	}
	first, last := s.proxyRange(box)
	for k := first; k < last; k++ {
		i := s.proxies[k].index
		p := s.positions[i]
		if box.Lower[0] < p[0] && p[0] < box.Upper[0] && box.Lower[1] < p[1] && p[1] < box.Upper[1] {
			if !fn(i) {
				return
			}
		}
	}
}

// RaycastFunc receives a particle hit by a ray, the entry point and normal,
// and the fraction along the ray. It returns the new max fraction: 0 stops
// the cast, 1 leaves it unclipped.
type RaycastFunc func(index int, point, normal mgl64.Vec2, fraction float64) float64

// RayCast reports particles whose disc of one diameter the segment p1-p2
// enters.
func (s *System) RayCast(fn RaycastFunc, p1, p2 mgl64.Vec2) {
	if len(s.proxies) == 0 {
		return
	}
	if s.proxiesDirty {
		s.sortProxies()
	}
	first := s.lowerBound(computeTag(
		s.invDiameter*math.Min(p1[0], p2[0])-1,
		s.invDiameter*math.Min(p1[1], p2[1])-1))
	last := s.upperBound(computeTag(
		s.invDiameter*math.Max(p1[0], p2[0])+1,
		s.invDiameter*math.Max(p1[1], p2[1])+1))

	fraction := 1.0
	v := p2.Sub(p1)
	v2 := v.Dot(v)
	if v2 == 0 {
		v2 = math.MaxFloat32
	}
	for k := first; k < last; k++ {
		i := s.proxies[k].index
		p := p1.Sub(s.positions[i])
		pv := p.Dot(v)
		pp := p.Dot(p)
		det := pv*pv - v2*(pp-s.squaredDiameter)
		if det < 0 {
			continue
		}
		sq := math.Sqrt(det)
		t := (-pv - sq) / v2
		if t > fraction {
			continue
		}
		if t < 0 {
			t = (-pv + sq) / v2
			if t < 0 || t > fraction {
				continue
			}
		}
		n := p.Add(v.Mul(t)).Normalize()
		f := fn(i, p1.Add(v.Mul(t)), n, t)
		fraction = math.Min(fraction, f)
		if fraction <= 0 {
			return
		}
	}
}

// ComputeCollisionEnergy returns the kinetic energy of the approaching
// normal motion over all particle contacts.
func (s *System) ComputeCollisionEnergy() float64 {
	sum := 0.0
	for _, c := range s.contacts {
		vn := s.velocities[c.IndexB].Sub(s.velocities[c.IndexA]).Dot(c.Normal)
		if vn < 0 {
			sum += vn * vn
		}
	}
	return 0.5 * s.ParticleMass() * sum
}
