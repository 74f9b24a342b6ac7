package scenario

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/fluidsim/internal/b2world"
	"github.com/san-kum/fluidsim/internal/particle"
	"github.com/san-kum/fluidsim/internal/rigid"
)

var (
	red  = particle.Color{R: 230, G: 40, B: 40, A: 255}
	blue = particle.Color{R: 40, G: 80, B: 230, A: 255}
	sand = particle.Color{R: 210, G: 180, B: 120, A: 255}
)

func bounds(x0, y0, x1, y1 float64) rigid.AABB {
	return rigid.AABB{Lower: mgl64.Vec2{x0, y0}, Upper: mgl64.Vec2{x1, y1}}
}

func group(shape b2world.Shape, pos mgl64.Vec2, flags particle.Flags) particle.GroupDef {
	def := particle.DefaultGroupDef()
	def.Shape = shape
	def.Position = pos
	def.Flags = flags
	return def
}

func damBreak(sc *Scene, _ *rand.Rand) error {
	sc.World.Container(mgl64.Vec2{}, 20, 15, 1)
	sc.World.CreateBody(b2world.BodyDef{
		Position: mgl64.Vec2{6, 1.5},
		Dynamic:  true,
		Density:  0.5,
	}, b2world.Box(1, 1))

	sc.System.CreateParticleGroup(group(b2world.Box(5, 6), mgl64.Vec2{-14.5, 6.5}, particle.Water))
	sc.Bounds = bounds(-21, -1, 21, 16)
	return nil
}

func elasticDrop(sc *Scene, _ *rand.Rand) error {
	sc.World.CreateBody(b2world.BodyDef{}, b2world.OffsetBox(15, 0.5, mgl64.Vec2{0, 0}, -0.15))
	sc.World.Container(mgl64.Vec2{0, -4}, 16, 4, 1)

	sc.System.CreateParticleGroup(group(b2world.Box(2, 2), mgl64.Vec2{0, 8}, particle.Elastic))
	sc.Bounds = bounds(-17, -5, 17, 12)
	return nil
}

func springChain(sc *Scene, _ *rand.Rand) error {
	sc.World.Container(mgl64.Vec2{}, 12, 14, 1)

	g := sc.System.CreateParticleGroup(group(b2world.Box(6, 0.8), mgl64.Vec2{-4, 10}, particle.Spring))
	minX := sc.System.Position(g.First())[0]
	for i := g.First(); i < g.Last(); i++ {
		minX = min(minX, sc.System.Position(i)[0])
	}
	anchor := minX + sc.System.Stride()/2
	for i := g.First(); i < g.Last(); i++ {
		if sc.System.Position(i)[0] < anchor {
			sc.System.SetFlags(i, particle.Spring|particle.Wall)
		}
	}
	sc.Bounds = bounds(-13, -1, 13, 15)
	return nil
}

func powderPile(sc *Scene, rng *rand.Rand) error {
	sc.World.Container(mgl64.Vec2{}, 12, 20, 1)

	const columns = 6
	st := sc.System.Stride()
	color := sand
	for k := 0; k < 240; k++ {
		x := (float64(k%columns)-columns/2)*st + (rng.Float64()-0.5)*0.1*st
		y := 4 + float64(k/columns)*st
		sc.System.CreateParticle(particle.ParticleDef{
			Flags:    particle.Powder,
			Position: mgl64.Vec2{x, y},
			Color:    &color,
		})
	}
	sc.Bounds = bounds(-13, -1, 13, 36)
	return nil
}

func rigidBlobs(sc *Scene, _ *rand.Rand) error {
	sc.World.Container(mgl64.Vec2{}, 15, 20, 1)
	sc.World.CreateBody(b2world.BodyDef{Position: mgl64.Vec2{0, 4}}, b2world.Circle(mgl64.Vec2{}, 2.5))

	box := group(b2world.Box(1.5, 1.5), mgl64.Vec2{-1, 12}, particle.Water)
	box.Angle = 0.3
	box.GroupFlags = particle.Rigid
	sc.System.CreateParticleGroup(box)

	ball := group(b2world.Circle(mgl64.Vec2{}, 1.5), mgl64.Vec2{1.5, 17}, particle.Water)
	ball.GroupFlags = particle.Rigid
	sc.System.CreateParticleGroup(ball)

	sc.Bounds = bounds(-16, -1, 16, 20)
	return nil
}

func tensileDrop(sc *Scene, _ *rand.Rand) error {
	sc.World.Container(mgl64.Vec2{}, 10, 15, 1)
	sc.System.CreateParticleGroup(group(b2world.Circle(mgl64.Vec2{}, 3), mgl64.Vec2{0, 8}, particle.Tensile))
	sc.Bounds = bounds(-11, -1, 11, 15)
	return nil
}

func colorMix(sc *Scene, _ *rand.Rand) error {
	sc.World.Container(mgl64.Vec2{}, 12, 15, 1)

	left := group(b2world.Box(4, 4), mgl64.Vec2{-4, 4.5}, particle.ColorMixing)
	left.Color = &red
	sc.System.CreateParticleGroup(left)

	right := group(b2world.Box(4, 4), mgl64.Vec2{4, 4.5}, particle.ColorMixing)
	right.Color = &blue
	sc.System.CreateParticleGroup(right)

	sc.Bounds = bounds(-13, -1, 13, 15)
	return nil
}

func solidMerge(sc *Scene, _ *rand.Rand) error {
	sc.World.Container(mgl64.Vec2{}, 12, 12, 1)

	left := group(b2world.Box(2, 2), mgl64.Vec2{-2.4, 2.6}, particle.Water)
	left.GroupFlags = particle.Solid
	left.LinearVelocity = mgl64.Vec2{1, 0}
	a := sc.System.CreateParticleGroup(left)

	right := group(b2world.Box(2, 2), mgl64.Vec2{2.4, 2.6}, particle.Water)
	right.GroupFlags = particle.Solid
	right.LinearVelocity = mgl64.Vec2{-1, 0}
	b := sc.System.CreateParticleGroup(right)

	if err := sc.System.JoinParticleGroups(a, b); err != nil {
		return err
	}
	sc.Bounds = bounds(-13, -1, 13, 12)
	return nil
}
