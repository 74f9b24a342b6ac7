package particle

import "strings"

// Flags is a bitmask of particle material behaviors.
type Flags uint32

const (
	Water  Flags = 0
	Zombie Flags = 1 << 1
	// Wall particles never move.
	Wall        Flags = 1 << 2
	Spring      Flags = 1 << 3
	Elastic     Flags = 1 << 4
	Viscous     Flags = 1 << 5
	Powder      Flags = 1 << 6
	Tensile     Flags = 1 << 7
	ColorMixing Flags = 1 << 8
	// NotifyDestroy makes destruction of the particle reach the
	// DestructionListener.
	NotifyDestroy Flags = 1 << 9
)

const (
	pairFlags       = Spring
	triadFlags      = Elastic
	noPressureFlags = Powder
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Zombie, "zombie"},
	{Wall, "wall"},
	{Spring, "spring"},
	{Elastic, "elastic"},
	{Viscous, "viscous"},
	{Powder, "powder"},
	{Tensile, "tensile"},
	{ColorMixing, "color_mixing"},
	{NotifyDestroy, "notify_destroy"},
}

func (f Flags) Has(mask Flags) bool { return f&mask != 0 }

func (f Flags) String() string {
	if f == Water {
		return "water"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlags parses a list of flag names as produced by String.
func ParseFlags(names []string) (Flags, bool) {
	var f Flags
	for _, n := range names {
		n = strings.TrimSpace(strings.ToLower(n))
		if n == "" || n == "water" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == n {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return f, true
}

// GroupFlags is a bitmask of group behaviors.
type GroupFlags uint32

const (
	// Solid groups resist penetration by other groups using particle depth.
	Solid GroupFlags = 1 << 0
	// Rigid groups move as a single rigid body.
	Rigid GroupFlags = 1 << 1
)

func (f GroupFlags) Has(mask GroupFlags) bool { return f&mask != 0 }

func (f GroupFlags) String() string {
	var parts []string
	if f&Solid != 0 {
		parts = append(parts, "solid")
	}
	if f&Rigid != 0 {
		parts = append(parts, "rigid")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
