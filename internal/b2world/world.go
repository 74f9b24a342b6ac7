// Package b2world couples the particle solver to a box2d rigid-body world.
package b2world

import (
	"sync"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

const (
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3
)

// World owns a box2d world and implements rigid.World.
type World struct {
	b2                 *box2d.B2World
	VelocityIterations int
	PositionIterations int
}

func New(gravity mgl64.Vec2) *World {
	w := box2d.MakeB2World(vec(gravity))
	return &World{
		b2:                 &w,
		VelocityIterations: DefaultVelocityIterations,
		PositionIterations: DefaultPositionIterations,
	}
}

func (w *World) Gravity() mgl64.Vec2     { return fromVec(w.b2.GetGravity()) }
func (w *World) SetGravity(g mgl64.Vec2) { w.b2.SetGravity(vec(g)) }
func (w *World) Box2D() *box2d.B2World   { return w.b2 }
func (w *World) BodyCount() int          { return w.b2.GetBodyCount() }

// QueryAABB reports each fixture once, even when several of its children
// overlap aabb.
func (w *World) QueryAABB(fn func(rigid.Fixture) bool, aabb rigid.AABB) {
	seen := make(map[*box2d.B2Fixture]struct{})
	w.b2.QueryAABB(func(f *box2d.B2Fixture) bool {
		if _, ok := seen[f]; ok {
			return true
		}
		seen[f] = struct{}{}
		return fn(Fixture{f: f})
	}, toAABB(aabb))
}

func (w *World) Bodies() []Body {
	out := make([]Body, 0, w.b2.GetBodyCount())
	for b := w.b2.GetBodyList(); b != nil; b = b.GetNext() {
		out = append(out, Body{b: b})
	}
	return out
}

// box2d keeps package-level contact tables and profiling counters, so steps
// of different worlds must not overlap.
var stepMu sync.Mutex

func (w *World) Step(dt float64) {
	stepMu.Lock()
	defer stepMu.Unlock()
	w.b2.Step(dt, w.VelocityIterations, w.PositionIterations)
}

// BodyDef places a new body.
type BodyDef struct {
	Position mgl64.Vec2
	Angle    float64
	Dynamic  bool
	// Density applies to every fixture. Static bodies ignore it.
	Density  float64
	Friction float64
}

// CreateBody adds a body with one fixture per shape.
func (w *World) CreateBody(def BodyDef, shapes ...Shape) Body {
	bd := box2d.MakeB2BodyDef()
	bd.Position = vec(def.Position)
	bd.Angle = def.Angle
	if def.Dynamic {
		bd.Type = box2d.B2BodyType.B2_dynamicBody
	}
	b := w.b2.CreateBody(&bd)
	for _, s := range shapes {
		fd := box2d.MakeB2FixtureDef()
		fd.Shape = s.s
		fd.Density = def.Density
		if def.Friction > 0 {
			fd.Friction = def.Friction
		}
		b.CreateFixtureFromDef(&fd)
	}
	return Body{b: b}
}

func (w *World) DestroyBody(b Body) { w.b2.DestroyBody(b.b) }

// Container adds a static open box: a floor and two side walls enclosing
// the region [-hx, hx] x [0, height] around center.
func (w *World) Container(center mgl64.Vec2, hx, height, thickness float64) Body {
	t := thickness / 2
	return w.CreateBody(BodyDef{Position: center},
		OffsetBox(hx+thickness, t, mgl64.Vec2{0, -t}, 0),
		OffsetBox(t, height/2, mgl64.Vec2{-hx - t, height / 2}, 0),
		OffsetBox(t, height/2, mgl64.Vec2{hx + t, height / 2}, 0),
	)
}
