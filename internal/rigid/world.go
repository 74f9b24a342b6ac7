package rigid

import "github.com/go-gl/mathgl/mgl64"

type Shape interface {
	ChildCount() int
	ComputeAABB(xf Transform, child int) AABB
	TestPoint(xf Transform, p mgl64.Vec2) bool
}

// Body is the subset of rigid body state the solver reads and the one
// mutation it performs. Implementations must be comparable so the solver
// can tell contacts on the same body apart from contacts on another.
type Body interface {
	Mass() float64
	// Inertia is the rotational inertia about the body origin.
	Inertia() float64
	LocalCenter() mgl64.Vec2
	WorldCenter() mgl64.Vec2
	LinearVelocity() mgl64.Vec2
	AngularVelocity() float64
	Transform() Transform
	// PreviousTransform is the transform at the start of the last world step.
	PreviousTransform() Transform
	ApplyLinearImpulse(impulse, point mgl64.Vec2)
}

type Fixture interface {
	Body() Body
	IsSensor() bool
	ChildCount() int
	AABB(child int) AABB
	// ComputeDistance returns the signed distance from p to the child
	// surface and the outward unit normal at the closest point.
	ComputeDistance(p mgl64.Vec2, child int) (float64, mgl64.Vec2)
	RayCast(in RayCastInput, child int) (RayCastOutput, bool)
}

type World interface {
	Gravity() mgl64.Vec2
	// QueryAABB calls fn for every fixture whose bounds overlap aabb until
	// fn returns false.
	QueryAABB(fn func(Fixture) bool, aabb AABB)
}

// VelocityAt returns the velocity of the body at a world point.
func VelocityAt(b Body, p mgl64.Vec2) mgl64.Vec2 {
	return CrossSV(b.AngularVelocity(), p.Sub(b.WorldCenter())).Add(b.LinearVelocity())
}
