package particle

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
	"github.com/san-kum/fluidsim/internal/voronoi"
)

// CreateParticleGroup fills def.Shape with particles on the stride lattice
// and links a new group owning them at the head of the group list.
func (s *System) CreateParticleGroup(def GroupDef) *Group {
	st := s.Stride()
	identity := rigid.IdentityTransform()
	xf := rigid.NewTransform(def.Position, def.Angle)
	first := s.count

	if def.Shape != nil {
		pd := ParticleDef{Flags: def.Flags, Color: def.Color, UserData: def.UserData}
		box := rigid.EmptyAABB()
		for child := 0; child < def.Shape.ChildCount(); child++ {
			box = box.Combine(def.Shape.ComputeAABB(identity, child))
		}
	fill:
		for y := math.Floor(box.Lower[1]/st) * st; y < box.Upper[1]; y += st {
			for x := math.Floor(box.Lower[0]/st) * st; x < box.Upper[0]; x += st {
				p := mgl64.Vec2{x, y}
				if !def.Shape.TestPoint(identity, p) {
					continue
				}
				p = xf.Apply(p)
				pd.Position = p
				pd.Velocity = rigid.CrossSV(def.AngularVelocity, p.Sub(def.Position)).Add(def.LinearVelocity)
				if s.CreateParticle(pd) == InvalidIndex {
					break fill
				}
			}
		}
	}
	last := s.count

	g := &Group{
		system:               s,
		flags:                def.GroupFlags,
		strength:             def.Strength,
		userData:             def.UserData,
		transform:            xf,
		destroyAutomatically: !def.KeepWhenEmpty,
		timestamp:            -1,
	}
	g.next = s.groupList
	if s.groupList != nil {
		s.groupList.prev = g
	}
	s.groupList = g
	s.groupCount++
	s.setRange(g, first, last)

	s.updateContacts(true)
	if def.Flags.Has(pairFlags) {
		for _, c := range s.contacts {
			a, b := min(c.IndexA, c.IndexB), max(c.IndexA, c.IndexB)
			if first <= a && b < last {
				s.pairs = append(s.pairs, s.newPair(a, b, c.Flags, def.Strength))
			}
		}
	}
	if def.Flags.Has(triadFlags) {
		d := voronoi.New(last - first)
		for i := first; i < last; i++ {
			d.AddGenerator(s.positions[i], i)
		}
		d.Generate(st / 2)
		d.Nodes(func(a, b, c int) {
			if s.triadFits(a, b, c) {
				s.triads = append(s.triads, s.newTriad(a, b, c, def.Strength))
			}
		})
	}
	if def.GroupFlags.Has(Solid) {
		s.computeDepth(g)
	}
	return g
}

// JoinParticleGroups moves b's particles directly after a's and merges b
// into a. b is destroyed.
func (s *System) JoinParticleGroups(a, b *Group) error {
	if a == b {
		return ErrSameGroup
	}
	if !a.valid || !b.valid {
		return ErrGroupDestroyed
	}
	if b.ParticleCount() == 0 {
		a.flags |= b.flags
		s.destroyGroup(b)
		if a.flags.Has(Solid) {
			s.updateContacts(true)
			s.computeDepth(a)
		}
		return nil
	}
	s.rotateBuffer(b.first, b.last, s.count)
	if a.ParticleCount() == 0 {
		// an empty a has no place in the buffers, so it takes b's
		s.setRange(a, b.first, b.first)
	}
	s.rotateBuffer(a.first, a.last, b.first)

	var flags Flags
	for i := a.first; i < b.last; i++ {
		flags |= s.flags[i]
	}

	s.updateContacts(true)
	if flags.Has(pairFlags) {
		strength := math.Min(a.strength, b.strength)
		for _, c := range s.contacts {
			i, j := min(c.IndexA, c.IndexB), max(c.IndexA, c.IndexB)
			if a.Contains(i) && b.Contains(j) {
				s.pairs = append(s.pairs, s.newPair(i, j, c.Flags, strength))
			}
		}
	}
	if flags.Has(triadFlags) {
		d := voronoi.New(b.last - a.first)
		for i := a.first; i < b.last; i++ {
			if !s.flags[i].Has(Zombie) {
				d.AddGenerator(s.positions[i], i)
			}
		}
		d.Generate(s.Stride() / 2)
		strength := math.Min(a.strength, b.strength)
		d.Nodes(func(i, j, k int) {
			inA := btoi(i < b.first) + btoi(j < b.first) + btoi(k < b.first)
			if inA == 0 || inA == 3 {
				return
			}
			if s.flags[i]&s.flags[j]&s.flags[k]&triadFlags == 0 {
				return
			}
			if s.triadFits(i, j, k) {
				s.triads = append(s.triads, s.newTriad(i, j, k, strength))
			}
		})
	}

	a.flags |= b.flags
	first, last := a.first, b.last
	s.setRange(b, b.last, b.last)
	s.setRange(a, first, last)
	s.destroyGroup(b)

	if a.flags.Has(Solid) {
		s.computeDepth(a)
	}
	return nil
}

func btoi(v bool) int {
	if v {
		return 1
	}
	return 0
}

// destroyGroup notifies the listener, clears member references and
// unlinks g.
func (s *System) destroyGroup(g *Group) {
	if s.listener != nil {
		s.listener.GroupDestroyed(s, g)
	}
	for i := g.first; i < g.last; i++ {
		if s.groups[i] == g {
			s.groups[i] = nil
		}
	}
	if g.prev != nil {
		g.prev.next = g.next
	}
	if g.next != nil {
		g.next.prev = g.prev
	}
	if g == s.groupList {
		s.groupList = g.next
	}
	g.prev, g.next = nil, nil
	g.valid = false
	s.groupCount--
}

// DestroyParticlesInGroup marks every member of g for removal.
func (s *System) DestroyParticlesInGroup(g *Group, notify bool) error {
	if !g.valid {
		return ErrGroupDestroyed
	}
	for i := g.first; i < g.last; i++ {
		s.markZombie(i, notify)
	}
	return nil
}

// DestroyParticlesInShape marks every particle inside shape for removal and
// returns how many were marked. Members of rigid groups are skipped.
func (s *System) DestroyParticlesInShape(shape rigid.Shape, xf rigid.Transform, notify bool) int {
	box := rigid.EmptyAABB()
	for child := 0; child < shape.ChildCount(); child++ {
		box = box.Combine(shape.ComputeAABB(xf, child))
	}
	destroyed := 0
	s.QueryAABB(box, func(i int) bool {
		if s.flags[i].Has(Zombie) || !shape.TestPoint(xf, s.positions[i]) {
			return true
		}
		if g := s.groups[i]; g != nil && g.flags.Has(Rigid) {
			return true
		}
		s.markZombie(i, notify)
		destroyed++
		return true
	})
	return destroyed
}

// setRange is the only place group ranges change. It points every member
// at g and invalidates the cached statistics.
func (s *System) setRange(g *Group, first, last int) {
	g.first = first
	g.last = last
	g.valid = true
	g.timestamp = -1
	for i := first; i < last; i++ {
		s.groups[i] = g
	}
}

// checkGroups verifies that group ranges are in bounds, disjoint and that
// member references agree with them.
func (s *System) checkGroups() error {
	owner := make([]*Group, s.count)
	for g := s.groupList; g != nil; g = g.next {
		if g.first < 0 || g.last > s.count || g.first > g.last {
			return fmt.Errorf("%w: group range [%d,%d) outside [0,%d)", ErrInvariant, g.first, g.last, s.count)
		}
		for i := g.first; i < g.last; i++ {
			if owner[i] != nil {
				return fmt.Errorf("%w: particle %d in two groups", ErrInvariant, i)
			}
			owner[i] = g
		}
	}
	for i := 0; i < s.count; i++ {
		if s.groups[i] != owner[i] {
			return fmt.Errorf("%w: particle %d group reference does not match ranges", ErrInvariant, i)
		}
	}
	return nil
}

func (s *System) checkContacts() error {
	for _, c := range s.contacts {
		if c.IndexA == c.IndexB {
			return fmt.Errorf("%w: self contact on %d", ErrInvariant, c.IndexA)
		}
		if c.IndexA < 0 || c.IndexA >= s.count || c.IndexB < 0 || c.IndexB >= s.count {
			return fmt.Errorf("%w: contact (%d,%d) out of range", ErrInvariant, c.IndexA, c.IndexB)
		}
	}
	if len(s.proxies) != s.count {
		return fmt.Errorf("%w: %d proxies for %d particles", ErrInvariant, len(s.proxies), s.count)
	}
	return nil
}
