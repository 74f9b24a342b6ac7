package particle

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const dt = 1.0 / 60

func TestSolveInvalidTimeStep(t *testing.T) {
	s := newTestSystem()
	for _, step := range []float64{0, -dt} {
		if err := s.Solve(step); !errors.Is(err, ErrInvalidTimeStep) {
			t.Errorf("dt %v: expected ErrInvalidTimeStep, got %v", step, err)
		}
	}
}

func TestSolveEmpty(t *testing.T) {
	s := newTestSystem()
	if err := s.Solve(dt); err != nil {
		t.Fatal(err)
	}
	if s.Timestamp() != 1 {
		t.Errorf("expected timestamp 1, got %d", s.Timestamp())
	}
}

func TestSolveSingleParticleAtRest(t *testing.T) {
	s := newTestSystem()
	p := mgl64.Vec2{0.3, -1.7}
	s.CreateParticle(ParticleDef{Position: p})

	for i := 0; i < 10; i++ {
		if err := s.Solve(dt); err != nil {
			t.Fatal(err)
		}
	}
	if s.Position(0) != p {
		t.Errorf("expected %v, got %v", p, s.Position(0))
	}
	if s.Velocity(0) != (mgl64.Vec2{}) {
		t.Errorf("expected zero velocity, got %v", s.Velocity(0))
	}
}

// Pressure only counts weight above minWeight, so an isolated pair at half
// a diameter stays at rest after one step. Damping sees no approach either.
func TestSolveLonePairBelowMinWeight(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{0, 0}})
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{0.5, 0}})
	if err := s.Solve(dt); err != nil {
		t.Fatal(err)
	}

	contacts := s.Contacts()
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	if math.Abs(contacts[0].Weight-0.5) > tolerance {
		t.Errorf("expected weight 0.5, got %f", contacts[0].Weight)
	}
	for i, v := range s.Velocities() {
		if v != (mgl64.Vec2{}) {
			t.Errorf("particle %d: expected zero velocity, got %v", i, v)
		}
	}
}

func TestSolvePressure(t *testing.T) {
	s := newTestSystem()
	for _, x := range []float64{0, 0.25, 0.5} {
		s.CreateParticle(ParticleDef{Position: mgl64.Vec2{x, 0}})
	}
	if err := s.Solve(dt); err != nil {
		t.Fatal(err)
	}

	v := s.Velocities()
	if math.Abs(v[0][0]+2.4375) > 1e-9 {
		t.Errorf("expected left velocity -2.4375, got %f", v[0][0])
	}
	if math.Abs(v[2][0]-2.4375) > 1e-9 {
		t.Errorf("expected right velocity 2.4375, got %f", v[2][0])
	}
	if math.Abs(v[1][0]) > 1e-9 {
		t.Errorf("expected middle at rest, got %f", v[1][0])
	}
	if !vecNear(momentum(s), mgl64.Vec2{}, 1e-9) {
		t.Errorf("expected zero momentum, got %v", momentum(s))
	}
}

func TestSolveDamping(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{0, 0}, Velocity: mgl64.Vec2{1, 0}})
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{0.5, 0}, Velocity: mgl64.Vec2{-1, 0}})
	if err := s.Solve(dt); err != nil {
		t.Fatal(err)
	}

	v := s.Velocities()
	if v[0][0] >= 1 || v[1][0] <= -1 {
		t.Errorf("expected approach slowed, got %v %v", v[0], v[1])
	}
	if !vecNear(momentum(s), mgl64.Vec2{}, 1e-9) {
		t.Errorf("expected equal and opposite velocities, got %v %v", v[0], v[1])
	}
}

func TestSolveGravity(t *testing.T) {
	s := NewSystem(DefaultDef(), gravityWorld{gravity: mgl64.Vec2{0, -10}})
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{0, 0}})
	s.CreateParticle(ParticleDef{Flags: Wall, Position: mgl64.Vec2{5, 0}})
	if err := s.Solve(dt); err != nil {
		t.Fatal(err)
	}

	if math.Abs(s.Velocity(0)[1]+10*dt) > 1e-12 {
		t.Errorf("expected vy %f, got %f", -10*dt, s.Velocity(0)[1])
	}
	if s.Position(1) != (mgl64.Vec2{5, 0}) || s.Velocity(1) != (mgl64.Vec2{}) {
		t.Errorf("expected wall particle fixed, got %v %v", s.Position(1), s.Velocity(1))
	}
}

func TestSolveGravityScale(t *testing.T) {
	def := DefaultDef()
	def.GravityScale = 0.5
	s := NewSystem(def, gravityWorld{gravity: mgl64.Vec2{0, -10}})
	s.CreateParticle(ParticleDef{})
	_ = s.Solve(dt)
	if math.Abs(s.Velocity(0)[1]+5*dt) > 1e-12 {
		t.Errorf("expected vy %f, got %f", -5*dt, s.Velocity(0)[1])
	}
}

func TestSolveVelocityClamp(t *testing.T) {
	s := NewSystem(DefaultDef(), gravityWorld{gravity: mgl64.Vec2{0, -1e6}})
	s.CreateParticle(ParticleDef{Velocity: mgl64.Vec2{1e4, 0}})
	_ = s.Solve(dt)

	crit := s.Diameter() / dt
	if got := s.Velocity(0).Len(); got > crit*(1+1e-9) {
		t.Errorf("expected speed at most %f, got %f", crit, got)
	}
}

func TestSolvePowder(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{Flags: Powder, Position: mgl64.Vec2{0, 0}})
	s.CreateParticle(ParticleDef{Flags: Powder, Position: mgl64.Vec2{0.1, 0}})
	_ = s.Solve(dt)

	v := s.Velocities()
	if v[0][0] >= 0 || v[1][0] <= 0 {
		t.Errorf("expected powder pushed apart, got %v %v", v[0], v[1])
	}
	if !vecNear(momentum(s), mgl64.Vec2{}, 1e-9) {
		t.Errorf("expected zero momentum, got %v", momentum(s))
	}
}

func TestSolveViscous(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{Flags: Viscous, Position: mgl64.Vec2{0, 0}, Velocity: mgl64.Vec2{0, 1}})
	s.CreateParticle(ParticleDef{Flags: Viscous, Position: mgl64.Vec2{0.5, 0}, Velocity: mgl64.Vec2{0, -1}})
	_ = s.Solve(dt)

	v := s.Velocities()
	if rel := v[1].Sub(v[0]).Len(); rel >= 2 {
		t.Errorf("expected relative speed below 2, got %f", rel)
	}
	if !vecNear(momentum(s), mgl64.Vec2{}, 1e-9) {
		t.Errorf("expected zero momentum, got %v", momentum(s))
	}
}

func TestSolveTensileConservesMomentum(t *testing.T) {
	s := newTestSystem()
	for _, p := range []mgl64.Vec2{{0, 0}, {0.4, 0}, {0.2, 0.3}, {0.9, 0.1}} {
		s.CreateParticle(ParticleDef{Flags: Tensile, Position: p})
	}
	_ = s.Solve(dt)
	if !vecNear(momentum(s), mgl64.Vec2{}, 1e-9) {
		t.Errorf("expected zero momentum, got %v", momentum(s))
	}
}

func TestSolveColorMixing(t *testing.T) {
	s := newTestSystem()
	a := Color{R: 0, G: 0, B: 0, A: 255}
	b := Color{R: 200, G: 0, B: 0, A: 255}
	s.CreateParticle(ParticleDef{Flags: ColorMixing, Position: mgl64.Vec2{0, 0}, Color: &a})
	s.CreateParticle(ParticleDef{Flags: ColorMixing, Position: mgl64.Vec2{0.5, 0}, Color: &b})
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{0.25, 0.25}, Color: &b})
	_ = s.Solve(dt)

	c := s.Colors()
	if c[0].R != 100 || c[1].R != 100 {
		t.Errorf("expected mixed red 100, got %d %d", c[0].R, c[1].R)
	}
	if c[2].R != 200 {
		t.Errorf("expected non mixing particle unchanged, got %d", c[2].R)
	}
}

func TestSolveSolidEjection(t *testing.T) {
	s := newTestSystem()
	def := DefaultGroupDef()
	def.GroupFlags = Solid
	def.Shape = testBox{hx: 0.1, hy: 0.1}
	ga := s.CreateParticleGroup(def)
	def.Position = mgl64.Vec2{0.5, 0}
	gb := s.CreateParticleGroup(def)
	if ga.ParticleCount() != 1 || gb.ParticleCount() != 1 {
		t.Fatalf("expected single particle groups, got %d %d", ga.ParticleCount(), gb.ParticleCount())
	}
	if d := s.Depths(); d[0] != 0 || d[1] != 0 {
		t.Fatalf("expected isolated depth 0, got %v", d)
	}

	s.depths[0] = 0.5
	s.depths[1] = 0.5
	s.updateContacts(false)
	s.solveSolid(step{dt: dt, invDt: 1 / dt})

	v := s.Velocities()
	if v[0][0] >= 0 || v[1][0] <= 0 {
		t.Errorf("expected groups pushed apart, got %v %v", v[0], v[1])
	}
}

func TestCollisionEnergy(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{0, 0}, Velocity: mgl64.Vec2{1, 0}})
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{0.5, 0}, Velocity: mgl64.Vec2{-1, 0}})
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{5, 0}, Velocity: mgl64.Vec2{3, 0}})
	s.updateContacts(false)

	want := 0.5 * s.ParticleMass() * 4
	if got := s.ComputeCollisionEnergy(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}

	s.SetVelocity(0, mgl64.Vec2{-1, 0})
	s.SetVelocity(1, mgl64.Vec2{1, 0})
	if got := s.ComputeCollisionEnergy(); got != 0 {
		t.Errorf("expected 0 for separating particles, got %f", got)
	}
}
