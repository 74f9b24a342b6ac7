package particle

// Color is an 8-bit RGBA particle color.
type Color struct {
	R, G, B, A uint8
}

// DefaultColor is assigned to particles created before the color buffer
// existed.
var DefaultColor = Color{R: 127, G: 127, B: 127, A: 50}

// mix moves a and b toward each other by strength/256 of their difference.
func mix(a, b *Color, strength int) {
	mixChannel(&a.R, &b.R, strength)
	mixChannel(&a.G, &b.G, strength)
	mixChannel(&a.B, &b.B, strength)
	mixChannel(&a.A, &b.A, strength)
}

func mixChannel(a, b *uint8, strength int) {
	d := (strength * (int(*b) - int(*a))) >> 8
	*a = clampByte(int(*a) + d)
	*b = clampByte(int(*b) - d)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
