package b2world

import (
	"math"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

// distance returns the signed distance from the world point p to child of
// shape placed at xf, and the outward unit normal. Circle and polygon
// distances are negative inside.
func distance(shape box2d.B2ShapeInterface, xf rigid.Transform, p mgl64.Vec2, child int) (float64, mgl64.Vec2) {
	switch s := shape.(type) {
	case *box2d.B2CircleShape:
		return circleDistance(s, xf, p)
	case *box2d.B2PolygonShape:
		return polygonDistance(s, xf, p)
	case *box2d.B2EdgeShape:
		return segmentDistance(xf.Apply(fromVec(s.M_vertex1)), xf.Apply(fromVec(s.M_vertex2)), p)
	case *box2d.B2ChainShape:
		var e box2d.B2EdgeShape
		s.GetChildEdge(&e, child)
		return segmentDistance(xf.Apply(fromVec(e.M_vertex1)), xf.Apply(fromVec(e.M_vertex2)), p)
	}
	return math.MaxFloat64, mgl64.Vec2{}
}

func circleDistance(s *box2d.B2CircleShape, xf rigid.Transform, p mgl64.Vec2) (float64, mgl64.Vec2) {
	d := p.Sub(xf.Apply(fromVec(s.M_p)))
	l := d.Len()
	return l - s.M_radius, normalize(d, l)
}

func polygonDistance(s *box2d.B2PolygonShape, xf rigid.Transform, p mgl64.Vec2) (float64, mgl64.Vec2) {
	local := xf.Q.ApplyT(p.Sub(xf.P))
	maxDistance := -math.MaxFloat64
	normalForMax := local
	for i := 0; i < s.M_count; i++ {
		n := fromVec(s.M_normals[i])
		if dot := n.Dot(local.Sub(fromVec(s.M_vertices[i]))); dot > maxDistance {
			maxDistance = dot
			normalForMax = n
		}
	}
	if maxDistance <= 0 {
		return maxDistance, xf.Q.Apply(normalForMax)
	}

	// Outside, the nearest feature is a point on one of the edges.
	minDistance := math.MaxFloat64
	var n mgl64.Vec2
	for i := 0; i < s.M_count; i++ {
		v1 := fromVec(s.M_vertices[i])
		v2 := fromVec(s.M_vertices[(i+1)%s.M_count])
		if d, en := segmentDistance(v1, v2, local); d < minDistance {
			minDistance = d
			n = en
		}
	}
	return minDistance, xf.Q.Apply(n)
}

func segmentDistance(v1, v2, p mgl64.Vec2) (float64, mgl64.Vec2) {
	d := p.Sub(v1)
	s := v2.Sub(v1)
	if ds := d.Dot(s); ds > 0 {
		if s2 := s.Dot(s); ds > s2 {
			d = p.Sub(v2)
		} else {
			d = d.Sub(s.Mul(ds / s2))
		}
	}
	l := d.Len()
	return l, normalize(d, l)
}

func normalize(v mgl64.Vec2, l float64) mgl64.Vec2 {
	if l < epsilon {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}

const epsilon = 1e-12
