package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

// Pair holds two spring particles at the distance they had when the pair
// was created.
type Pair struct {
	IndexA, IndexB int
	Flags          Flags
	Strength       float64
	Distance       float64
}

// Triad pulls three elastic particles back toward their rest shape.
type Triad struct {
	IndexA, IndexB, IndexC int
	Flags                  Flags
	Strength               float64
	// PA, PB and PC are rest offsets from the triad centroid.
	PA, PB, PC             mgl64.Vec2
	KA, KB, KC             float64
	S                      float64
}

func (s *System) newPair(a, b int, flags Flags, strength float64) Pair {
	return Pair{
		IndexA:   a,
		IndexB:   b,
		Flags:    flags,
		Strength: strength,
		Distance: s.positions[a].Sub(s.positions[b]).Len(),
	}
}

// triadFits reports whether every edge of the triangle is short enough
// for a triad.
func (s *System) triadFits(a, b, c int) bool {
	pa, pb, pc := s.positions[a], s.positions[b], s.positions[c]
	maxD2 := maxTriadDistanceSquared * s.squaredDiameter
	return pa.Sub(pb).LenSqr() < maxD2 &&
		pb.Sub(pc).LenSqr() < maxD2 &&
		pc.Sub(pa).LenSqr() < maxD2
}

func (s *System) newTriad(a, b, c int, strength float64) Triad {
	pa, pb, pc := s.positions[a], s.positions[b], s.positions[c]
	dab := pa.Sub(pb)
	dbc := pb.Sub(pc)
	dca := pc.Sub(pa)
	mid := pa.Add(pb).Add(pc).Mul(1.0 / 3)
	return Triad{
		IndexA:   a,
		IndexB:   b,
		IndexC:   c,
		Flags:    s.flags[a] | s.flags[b] | s.flags[c],
		Strength: strength,
		PA:       pa.Sub(mid),
		PB:       pb.Sub(mid),
		PC:       pc.Sub(mid),
		KA:       -dca.Dot(dab),
		KB:       -dab.Dot(dbc),
		KC:       -dbc.Dot(dca),
		S:        rigid.Cross(pa, pb) + rigid.Cross(pb, pc) + rigid.Cross(pc, pa),
	}
}

// solveElastic fits the rotation that best maps each triad's rest offsets
// onto its current positions and steers the particles toward the rotated
// rest shape.
func (s *System) solveElastic(st step) {
	elastic := st.invDt * s.elasticStrength
	for _, t := range s.triads {
		if !t.Flags.Has(Elastic) {
			continue
		}
		a, b, c := t.IndexA, t.IndexB, t.IndexC
		pa, pb, pc := s.positions[a], s.positions[b], s.positions[c]
		centroid := pa.Add(pb).Add(pc).Mul(1.0 / 3)

		rs := rigid.Cross(t.PA, pa) + rigid.Cross(t.PB, pb) + rigid.Cross(t.PC, pc)
		rc := t.PA.Dot(pa) + t.PB.Dot(pb) + t.PC.Dot(pc)
		r2 := rs*rs + rc*rc
		invR := maxInverseDistance
		if r2 != 0 {
			invR = math.Sqrt(1 / r2)
		}
		q := rigid.Rot{S: rs * invR, C: rc * invR}

		strength := elastic * t.Strength
		s.velocities[a] = s.velocities[a].Add(q.Apply(t.PA).Sub(pa.Sub(centroid)).Mul(strength))
		s.velocities[b] = s.velocities[b].Add(q.Apply(t.PB).Sub(pb.Sub(centroid)).Mul(strength))
		s.velocities[c] = s.velocities[c].Add(q.Apply(t.PC).Sub(pc.Sub(centroid)).Mul(strength))
	}
}

func (s *System) solveSpring(st step) {
	spring := st.invDt * s.springStrength
	for _, p := range s.pairs {
		if !p.Flags.Has(Spring) {
			continue
		}
		a, b := p.IndexA, p.IndexB
		d := s.positions[b].Sub(s.positions[a])
		r0 := p.Distance
		r1 := d.Len()
		if r1 == 0 {
			r1 = maxInverseDistance
		}
		f := d.Mul(spring * p.Strength * (r0 - r1) / r1)
		s.velocities[a] = s.velocities[a].Sub(f)
		s.velocities[b] = s.velocities[b].Add(f)
	}
}
