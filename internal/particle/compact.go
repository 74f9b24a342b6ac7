package particle

import "slices"

// remapFunc translates an old particle index to its new one. Removed
// particles map to InvalidIndex.
type remapFunc func(int) int

// remapIndices rewrites every stored particle index through remap and
// drops entries that reference a removed particle. Group ranges are
// handled by the callers, which know whether ranges shift or shrink.
func (s *System) remapIndices(remap remapFunc) {
	for k := range s.proxies {
		s.proxies[k].index = remap(s.proxies[k].index)
	}
	s.proxies = swapRemove(s.proxies, func(p proxy) bool { return p.index < 0 })

	for k := range s.contacts {
		c := &s.contacts[k]
		c.IndexA = remap(c.IndexA)
		c.IndexB = remap(c.IndexB)
	}
	s.contacts = swapRemove(s.contacts, func(c Contact) bool {
		return c.IndexA < 0 || c.IndexB < 0
	})

	for k := range s.bodyContacts {
		s.bodyContacts[k].Index = remap(s.bodyContacts[k].Index)
	}
	s.bodyContacts = swapRemove(s.bodyContacts, func(c BodyContact) bool { return c.Index < 0 })

	for k := range s.pairs {
		p := &s.pairs[k]
		p.IndexA = remap(p.IndexA)
		p.IndexB = remap(p.IndexB)
	}
	s.pairs = swapRemove(s.pairs, func(p Pair) bool { return p.IndexA < 0 || p.IndexB < 0 })

	for k := range s.triads {
		t := &s.triads[k]
		t.IndexA = remap(t.IndexA)
		t.IndexB = remap(t.IndexB)
		t.IndexC = remap(t.IndexC)
	}
	s.triads = swapRemove(s.triads, func(t Triad) bool {
		return t.IndexA < 0 || t.IndexB < 0 || t.IndexC < 0
	})
}

// solveZombie removes every zombie particle, compacting the buffers in
// place and remapping all stored indices.
func (s *System) solveZombie() {
	newIndices := make([]int, s.count)
	newCount := 0
	for i := 0; i < s.count; i++ {
		f := s.flags[i]
		if f.Has(Zombie) {
			if f.Has(NotifyDestroy) && s.listener != nil {
				s.listener.ParticleDestroyed(s, i)
			}
			newIndices[i] = InvalidIndex
			continue
		}
		newIndices[i] = newCount
		if i != newCount {
			s.flags[newCount] = s.flags[i]
			s.positions[newCount] = s.positions[i]
			s.velocities[newCount] = s.velocities[i]
			s.groups[newCount] = s.groups[i]
			if s.depths != nil {
				s.depths[newCount] = s.depths[i]
			}
			if s.colors != nil {
				s.colors[newCount] = s.colors[i]
			}
			if s.userData != nil {
				s.userData[newCount] = s.userData[i]
			}
		}
		newCount++
	}

	s.remapIndices(func(i int) int { return newIndices[i] })
	// swap removal leaves the proxies out of tag order
	s.proxiesDirty = true

	for g := s.groupList; g != nil; g = g.next {
		first, last := newCount, 0
		for i := g.first; i < g.last; i++ {
			if j := newIndices[i]; j >= 0 {
				first = min(first, j)
				last = max(last, j+1)
			}
		}
		if first < last {
			s.setRange(g, first, last)
		} else {
			s.setRange(g, 0, 0)
			if g.destroyAutomatically {
				g.toBeDestroyed = true
			}
		}
	}

	for i := newCount; i < s.count; i++ {
		s.groups[i] = nil
		if s.userData != nil {
			s.userData[i] = nil
		}
	}
	s.count = newCount

	for g := s.groupList; g != nil; {
		next := g.next
		if g.toBeDestroyed {
			s.destroyGroup(g)
		}
		g = next
	}
}

// rotateBuffer rotates particles [start, end) so that mid becomes start,
// carrying every stored index along. Ranges that are empty or out of order
// leave the buffers untouched.
func (s *System) rotateBuffer(start, mid, end int) {
	if start >= mid || mid >= end {
		return
	}
	remap := func(i int) int {
		switch {
		case i < start:
			return i
		case i < mid:
			return i + end - mid
		case i < end:
			return i + start - mid
		default:
			return i
		}
	}

	rotate(s.flags, start, mid, end)
	rotate(s.positions, start, mid, end)
	rotate(s.velocities, start, mid, end)
	rotate(s.groups, start, mid, end)
	if s.depths != nil {
		rotate(s.depths, start, mid, end)
	}
	if s.colors != nil {
		rotate(s.colors, start, mid, end)
	}
	if s.userData != nil {
		rotate(s.userData, start, mid, end)
	}

	s.remapIndices(remap)
	for g := s.groupList; g != nil; g = g.next {
		if g.first == g.last {
			continue
		}
		g.first = remap(g.first)
		g.last = remap(g.last-1) + 1
		g.timestamp = -1
	}
}

// rotate moves buf[mid:end] in front of buf[start:mid].
func rotate[T any](buf []T, start, mid, end int) {
	slices.Reverse(buf[start:mid])
	slices.Reverse(buf[mid:end])
	slices.Reverse(buf[start:end])
}
