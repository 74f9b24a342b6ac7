package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

const tolerance = 1e-9

type testBox struct {
	hx, hy float64
}

func (b testBox) ChildCount() int { return 1 }

func (b testBox) ComputeAABB(xf rigid.Transform, child int) rigid.AABB {
	box := rigid.EmptyAABB()
	for _, c := range []mgl64.Vec2{{-b.hx, -b.hy}, {b.hx, -b.hy}, {b.hx, b.hy}, {-b.hx, b.hy}} {
		box = box.Include(xf.Apply(c))
	}
	return box
}

func (b testBox) TestPoint(xf rigid.Transform, p mgl64.Vec2) bool {
	l := xf.ApplyT(p)
	return math.Abs(l[0]) <= b.hx && math.Abs(l[1]) <= b.hy
}

type gravityWorld struct {
	gravity mgl64.Vec2
}

func (w gravityWorld) Gravity() mgl64.Vec2 { return w.gravity }
func (w gravityWorld) QueryAABB(fn func(rigid.Fixture) bool, _ rigid.AABB) {}

type recordingListener struct {
	particles []int
	groups    []*Group
}

func (l *recordingListener) ParticleDestroyed(_ *System, i int) {
	l.particles = append(l.particles, i)
}

func (l *recordingListener) GroupDestroyed(_ *System, g *Group) {
	l.groups = append(l.groups, g)
}

func newTestSystem() *System {
	def := DefaultDef()
	def.Debug = true
	return NewSystem(def, nil)
}

func vecNear(a, b mgl64.Vec2, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps && math.Abs(a[1]-b[1]) <= eps
}

func momentum(s *System) mgl64.Vec2 {
	var p mgl64.Vec2
	for _, v := range s.Velocities() {
		p = p.Add(v)
	}
	return p
}
