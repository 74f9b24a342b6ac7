package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cross returns the z component of a × b.
func Cross(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossSV returns s × v for a scalar angular quantity s.
func CrossSV(s float64, v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-s * v[1], s * v[0]}
}

type Rot struct {
	S, C float64
}

func NewRot(angle float64) Rot {
	return Rot{S: math.Sin(angle), C: math.Cos(angle)}
}

func IdentityRot() Rot { return Rot{S: 0, C: 1} }

func (q Rot) Angle() float64 { return math.Atan2(q.S, q.C) }

func (q Rot) Apply(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{q.C*v[0] - q.S*v[1], q.S*v[0] + q.C*v[1]}
}

func (q Rot) ApplyT(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{q.C*v[0] + q.S*v[1], -q.S*v[0] + q.C*v[1]}
}

// Mul returns q * r.
func (q Rot) Mul(r Rot) Rot {
	return Rot{S: q.S*r.C + q.C*r.S, C: q.C*r.C - q.S*r.S}
}

// MulT returns transpose(q) * r.
func (q Rot) MulT(r Rot) Rot {
	return Rot{S: q.C*r.S - q.S*r.C, C: q.C*r.C + q.S*r.S}
}

type Transform struct {
	P mgl64.Vec2
	Q Rot
}

func IdentityTransform() Transform {
	return Transform{Q: IdentityRot()}
}

func NewTransform(p mgl64.Vec2, angle float64) Transform {
	return Transform{P: p, Q: NewRot(angle)}
}

func (xf Transform) Apply(v mgl64.Vec2) mgl64.Vec2 {
	return xf.Q.Apply(v).Add(xf.P)
}

func (xf Transform) ApplyT(v mgl64.Vec2) mgl64.Vec2 {
	return xf.Q.ApplyT(v.Sub(xf.P))
}

// Mul returns the composition xf * b (b applied first).
func (xf Transform) Mul(b Transform) Transform {
	return Transform{P: xf.Q.Apply(b.P).Add(xf.P), Q: xf.Q.Mul(b.Q)}
}

// MulT returns inverse(xf) * b.
func (xf Transform) MulT(b Transform) Transform {
	return Transform{P: xf.Q.ApplyT(b.P.Sub(xf.P)), Q: xf.Q.MulT(b.Q)}
}

func (xf Transform) Inverse() Transform {
	return xf.MulT(IdentityTransform())
}

type AABB struct {
	Lower mgl64.Vec2
	Upper mgl64.Vec2
}

// EmptyAABB returns an inverted box that any Include call replaces.
func EmptyAABB() AABB {
	return AABB{
		Lower: mgl64.Vec2{math.MaxFloat64, math.MaxFloat64},
		Upper: mgl64.Vec2{-math.MaxFloat64, -math.MaxFloat64},
	}
}

func (a AABB) Include(p mgl64.Vec2) AABB {
	return AABB{
		Lower: mgl64.Vec2{math.Min(a.Lower[0], p[0]), math.Min(a.Lower[1], p[1])},
		Upper: mgl64.Vec2{math.Max(a.Upper[0], p[0]), math.Max(a.Upper[1], p[1])},
	}
}

func (a AABB) Combine(b AABB) AABB {
	return a.Include(b.Lower).Include(b.Upper)
}

func (a AABB) Expand(r float64) AABB {
	return AABB{
		Lower: mgl64.Vec2{a.Lower[0] - r, a.Lower[1] - r},
		Upper: mgl64.Vec2{a.Upper[0] + r, a.Upper[1] + r},
	}
}

func (a AABB) Contains(p mgl64.Vec2) bool {
	return a.Lower[0] <= p[0] && p[0] <= a.Upper[0] &&
		a.Lower[1] <= p[1] && p[1] <= a.Upper[1]
}

func (a AABB) IsValid() bool {
	return a.Lower[0] <= a.Upper[0] && a.Lower[1] <= a.Upper[1]
}

type RayCastInput struct {
	P1, P2      mgl64.Vec2
	MaxFraction float64
}

type RayCastOutput struct {
	Normal   mgl64.Vec2
	Fraction float64
}
