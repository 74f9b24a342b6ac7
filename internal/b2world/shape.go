package b2world

import (
	"errors"
	"fmt"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

var (
	ErrPolygonVertices = errors.New("b2world: polygon needs 3 to 8 vertices")
	ErrChainVertices   = errors.New("b2world: chain needs at least 2 vertices")
)

// Shape adapts a box2d shape for particle group filling and fixture
// creation.
type Shape struct {
	s box2d.B2ShapeInterface
}

// Box returns an axis aligned box with the given half extents centered on
// the origin.
func Box(hx, hy float64) Shape {
	p := box2d.NewB2PolygonShape()
	p.SetAsBox(hx, hy)
	return Shape{s: p}
}

// OffsetBox returns a box centered at center and rotated by angle.
func OffsetBox(hx, hy float64, center mgl64.Vec2, angle float64) Shape {
	p := box2d.NewB2PolygonShape()
	p.SetAsBoxFromCenterAndAngle(hx, hy, vec(center), angle)
	return Shape{s: p}
}

func Circle(center mgl64.Vec2, radius float64) Shape {
	c := box2d.NewB2CircleShape()
	c.M_p = vec(center)
	c.M_radius = radius
	return Shape{s: c}
}

// Polygon returns the convex hull of vertices.
func Polygon(vertices []mgl64.Vec2) (Shape, error) {
	if len(vertices) < 3 || len(vertices) > box2d.B2_maxPolygonVertices {
		return Shape{}, fmt.Errorf("%w: got %d", ErrPolygonVertices, len(vertices))
	}
	vs := make([]box2d.B2Vec2, len(vertices))
	for i, v := range vertices {
		vs[i] = vec(v)
	}
	p := box2d.NewB2PolygonShape()
	p.Set(vs, len(vs))
	return Shape{s: p}, nil
}

func Edge(v1, v2 mgl64.Vec2) Shape {
	e := box2d.NewB2EdgeShape()
	e.Set(vec(v1), vec(v2))
	return Shape{s: e}
}

// Chain returns a polyline through vertices, closed into a loop when loop
// is set.
func Chain(vertices []mgl64.Vec2, loop bool) (Shape, error) {
	if len(vertices) < 2 || (loop && len(vertices) < 3) {
		return Shape{}, fmt.Errorf("%w: got %d", ErrChainVertices, len(vertices))
	}
	vs := make([]box2d.B2Vec2, len(vertices))
	for i, v := range vertices {
		vs[i] = vec(v)
	}
	c := box2d.MakeB2ChainShape()
	if loop {
		c.CreateLoop(vs, len(vs))
	} else {
		c.CreateChain(vs, len(vs))
	}
	return Shape{s: &c}, nil
}

func (s Shape) ChildCount() int { return s.s.GetChildCount() }

func (s Shape) ComputeAABB(xf rigid.Transform, child int) rigid.AABB {
	var box box2d.B2AABB
	s.s.ComputeAABB(&box, toTransform(xf), child)
	return fromAABB(box)
}

// TestPoint reports containment. Edges and chains contain nothing.
func (s Shape) TestPoint(xf rigid.Transform, p mgl64.Vec2) bool {
	return s.s.TestPoint(toTransform(xf), vec(p))
}

func (s Shape) Box2D() box2d.B2ShapeInterface { return s.s }
