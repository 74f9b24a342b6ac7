package b2world

import (
	"math"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

// Body adapts a box2d body. The zero value is not usable.
type Body struct {
	b *box2d.B2Body
}

func (b Body) Mass() float64              { return b.b.GetMass() }
func (b Body) Inertia() float64           { return b.b.GetInertia() }
func (b Body) LocalCenter() mgl64.Vec2    { return fromVec(b.b.GetLocalCenter()) }
func (b Body) WorldCenter() mgl64.Vec2    { return fromVec(b.b.GetWorldCenter()) }
func (b Body) LinearVelocity() mgl64.Vec2 { return fromVec(b.b.GetLinearVelocity()) }
func (b Body) AngularVelocity() float64   { return b.b.GetAngularVelocity() }
func (b Body) Transform() rigid.Transform { return fromTransform(b.b.GetTransform()) }
func (b Body) Position() mgl64.Vec2       { return fromVec(b.b.GetPosition()) }
func (b Body) Angle() float64             { return b.b.GetAngle() }
func (b Body) Dynamic() bool              { return b.b.GetType() == box2d.B2BodyType.B2_dynamicBody }
func (b Body) Box2D() *box2d.B2Body       { return b.b }
func (b Body) UserData() any              { return b.b.GetUserData() }
func (b Body) SetUserData(v any)          { b.b.SetUserData(v) }

// PreviousTransform is the transform at the start of the last world step.
func (b Body) PreviousTransform() rigid.Transform {
	var xf box2d.B2Transform
	b.b.M_sweep.GetTransform(&xf, 0)
	return fromTransform(xf)
}

// ApplyLinearImpulse wakes the body. Static bodies ignore it.
func (b Body) ApplyLinearImpulse(impulse, point mgl64.Vec2) {
	b.b.ApplyLinearImpulse(vec(impulse), vec(point), true)
}

func (b Body) SetLinearVelocity(v mgl64.Vec2) { b.b.SetLinearVelocity(vec(v)) }

// SetSensor toggles sensor mode on every fixture of the body.
func (b Body) SetSensor(on bool) {
	for f := b.b.GetFixtureList(); f != nil; f = f.GetNext() {
		f.SetSensor(on)
	}
}

func (b Body) Fixtures() []Fixture {
	var out []Fixture
	for f := b.b.GetFixtureList(); f != nil; f = f.GetNext() {
		out = append(out, Fixture{f: f})
	}
	return out
}

// Outlines returns the world space outline of every fixture child. Circles
// are approximated with circleSegments points.
func (b Body) Outlines() [][]mgl64.Vec2 {
	xf := b.Transform()
	var out [][]mgl64.Vec2
	for f := b.b.GetFixtureList(); f != nil; f = f.GetNext() {
		switch s := f.GetShape().(type) {
		case *box2d.B2CircleShape:
			c := xf.Apply(fromVec(s.M_p))
			pts := make([]mgl64.Vec2, 0, circleSegments+1)
			for i := 0; i <= circleSegments; i++ {
				a := 2 * math.Pi * float64(i) / circleSegments
				pts = append(pts, c.Add(mgl64.Vec2{math.Cos(a), math.Sin(a)}.Mul(s.M_radius)))
			}
			out = append(out, pts)
		case *box2d.B2PolygonShape:
			pts := make([]mgl64.Vec2, 0, s.M_count+1)
			for i := 0; i < s.M_count; i++ {
				pts = append(pts, xf.Apply(fromVec(s.M_vertices[i])))
			}
			out = append(out, append(pts, pts[0]))
		case *box2d.B2EdgeShape:
			out = append(out, []mgl64.Vec2{xf.Apply(fromVec(s.M_vertex1)), xf.Apply(fromVec(s.M_vertex2))})
		case *box2d.B2ChainShape:
			pts := make([]mgl64.Vec2, 0, s.M_count)
			for i := 0; i < s.M_count; i++ {
				pts = append(pts, xf.Apply(fromVec(s.M_vertices[i])))
			}
			out = append(out, pts)
		}
	}
	return out
}

const circleSegments = 16

// Fixture adapts a box2d fixture.
type Fixture struct {
	f *box2d.B2Fixture
}

func (f Fixture) Body() rigid.Body { return Body{b: f.f.GetBody()} }
func (f Fixture) IsSensor() bool   { return f.f.IsSensor() }
func (f Fixture) ChildCount() int  { return f.f.GetShape().GetChildCount() }

// AABB is the tight bound of child at the current body transform.
func (f Fixture) AABB(child int) rigid.AABB {
	var box box2d.B2AABB
	f.f.GetShape().ComputeAABB(&box, f.f.GetBody().GetTransform(), child)
	return fromAABB(box)
}

func (f Fixture) ComputeDistance(p mgl64.Vec2, child int) (float64, mgl64.Vec2) {
	return distance(f.f.GetShape(), fromTransform(f.f.GetBody().GetTransform()), p, child)
}

func (f Fixture) RayCast(in rigid.RayCastInput, child int) (rigid.RayCastOutput, bool) {
	var out box2d.B2RayCastOutput
	hit := f.f.RayCast(&out, box2d.B2RayCastInput{P1: vec(in.P1), P2: vec(in.P2), MaxFraction: in.MaxFraction}, child)
	return rigid.RayCastOutput{Normal: fromVec(out.Normal), Fraction: out.Fraction}, hit
}
