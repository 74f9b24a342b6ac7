package particle

import "math"

// computeDepth estimates how far each member of g sits from the group
// surface, in world units. Members with little neighbor weight are the
// surface. Depth spreads inward as a shortest path over the contact graph
// with edge length 1 - weight.
func (s *System) computeDepth(g *Group) {
	s.requestDepths()
	for i := g.first; i < g.last; i++ {
		s.accumulation[i] = 0
	}
	for _, c := range s.contacts {
		if g.Contains(c.IndexA) && g.Contains(c.IndexB) {
			s.accumulation[c.IndexA] += c.Weight
			s.accumulation[c.IndexB] += c.Weight
		}
	}
	for i := g.first; i < g.last; i++ {
		if s.accumulation[i] < surfaceWeight {
			s.depths[i] = 0
		} else {
			s.depths[i] = math.MaxFloat64
		}
	}

	iterations := g.ParticleCount()
	for t := 0; t < iterations; t++ {
		updated := false
		for _, c := range s.contacts {
			a, b := c.IndexA, c.IndexB
			if !g.Contains(a) || !g.Contains(b) {
				continue
			}
			r := 1 - c.Weight
			if d := s.depths[b] + r; s.depths[a] > d {
				s.depths[a] = d
				updated = true
			}
			if d := s.depths[a] + r; s.depths[b] > d {
				s.depths[b] = d
				updated = true
			}
		}
		if !updated {
			break
		}
	}

	for i := g.first; i < g.last; i++ {
		if s.depths[i] < math.MaxFloat64 {
			s.depths[i] *= s.diameter
		} else {
			s.depths[i] = 0
		}
	}
}
