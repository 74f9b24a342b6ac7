package particle

import (
	"cmp"
	"slices"
	"sort"
)

// Tags pack a quantized cell (x, y) into 31 bits so that sorting by tag
// orders cells row by row.
const (
	xTruncBits = 12
	yTruncBits = 12
	tagBits    = 31
	yOffset    = 1 << (yTruncBits - 1)
	yShift     = tagBits - yTruncBits
	xShift     = tagBits - yTruncBits - xTruncBits
	xScale     = 1 << xShift
	xOffset    = xScale * (1 << (xTruncBits - 1))
)

type proxy struct {
	index int
	tag   int64
}

// computeTag takes coordinates already scaled by the inverse diameter.
func computeTag(x, y float64) int64 {
	return (int64(y+yOffset) << yShift) + (int64(xScale*x) + xOffset)
}

func relativeTag(tag int64, x, y int64) int64 {
	return tag + (y << yShift) + (x << xShift)
}

func (s *System) tagAt(x, y float64) int64 {
	return computeTag(s.invDiameter*x, s.invDiameter*y)
}

// sortProxies retags every proxy from the current positions and sorts them.
func (s *System) sortProxies() {
	for k := range s.proxies {
		p := s.positions[s.proxies[k].index]
		s.proxies[k].tag = s.tagAt(p[0], p[1])
	}
	slices.SortStableFunc(s.proxies, func(a, b proxy) int {
		return cmp.Compare(a.tag, b.tag)
	})
	s.proxiesDirty = false
}

// lowerBound returns the first proxy whose tag is not below tag.
func (s *System) lowerBound(tag int64) int {
	return sort.Search(len(s.proxies), func(i int) bool { return s.proxies[i].tag >= tag })
}

// upperBound returns the first proxy whose tag is above tag.
func (s *System) upperBound(tag int64) int {
	return sort.Search(len(s.proxies), func(i int) bool { return s.proxies[i].tag > tag })
}
