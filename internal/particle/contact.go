package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact is an overlap between two particles closer than one diameter.
type Contact struct {
	IndexA, IndexB int
	Flags          Flags
	// Weight is 1 at zero separation and 0 at one diameter.
	Weight         float64
	// Normal points from A to B.
	Normal         mgl64.Vec2
}

// maxInverseDistance stands in for 1/d when two particles coincide.
const maxInverseDistance = math.MaxFloat32

func (s *System) addContact(a, b int) {
	pa := s.positions[a]
	pb := s.positions[b]
	dx := pb[0] - pa[0]
	dy := pb[1] - pa[1]
	d2 := dx*dx + dy*dy
	if d2 >= s.squaredDiameter {
		return
	}
	invD := maxInverseDistance
	if d2 != 0 {
		invD = math.Sqrt(1 / d2)
	}
	s.contacts = append(s.contacts, Contact{
		IndexA: a,
		IndexB: b,
		Flags:  s.flags[a] | s.flags[b],
		Weight: 1 - d2*invD*s.invDiameter,
		Normal: mgl64.Vec2{invD * dx, invD * dy},
	})
}

// updateContacts retags, sorts and rebuilds the contact list.
func (s *System) updateContacts(exceptZombie bool) {
	s.sortProxies()
	s.findContacts(exceptZombie)
}

// findContacts scans the sorted proxies. For each proxy it visits the rest
// of its own row up to one cell right, then the row below from one cell
// left to one cell right. cIndex only moves forward since the row-below
// window of consecutive proxies never moves back.
func (s *System) findContacts(exceptZombie bool) {
	s.contacts = s.contacts[:0]
	n := len(s.proxies)
	cIndex := 0
	for i := 0; i < n; i++ {
		a := s.proxies[i]
		rightTag := relativeTag(a.tag, 1, 0)
		for j := i + 1; j < n; j++ {
			b := s.proxies[j]
			if rightTag < b.tag {
				break
			}
			s.addContact(a.index, b.index)
		}

		bottomLeftTag := relativeTag(a.tag, -1, 1)
		for ; cIndex < n; cIndex++ {
			if bottomLeftTag <= s.proxies[cIndex].tag {
				break
			}
		}
		bottomRightTag := relativeTag(a.tag, 1, 1)
		for j := cIndex; j < n; j++ {
			b := s.proxies[j]
			if bottomRightTag < b.tag {
				break
			}
			s.addContact(a.index, b.index)
		}
	}

	if exceptZombie {
		s.contacts = swapRemove(s.contacts, func(c Contact) bool {
			return c.Flags.Has(Zombie)
		})
	}
}

// swapRemove drops every element matching drop by swapping it with the
// last kept element. Order is not preserved.
func swapRemove[T any](items []T, drop func(T) bool) []T {
	j := len(items)
	for i := 0; i < j; i++ {
		if drop(items[i]) {
			j--
			items[i], items[j] = items[j], items[i]
			i--
		}
	}
	return items[:j]
}
