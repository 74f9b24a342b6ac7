package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/fluidsim/internal/particle"
)

func twoParticles() *particle.System {
	s := particle.NewSystem(particle.DefaultDef(), nil)
	s.CreateParticle(particle.ParticleDef{Velocity: mgl64.Vec2{1, 0}})
	s.CreateParticle(particle.ParticleDef{Position: mgl64.Vec2{5, 0}, Velocity: mgl64.Vec2{0, 2}})
	return s
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	sys := twoParticles()

	m.Observe(sys, 0)
	expected := 0.5 * 0.5625 * 5
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
	if m.Sample() != m.Value() {
		t.Errorf("expected sample %f, got %f", m.Value(), m.Sample())
	}

	sys.SetVelocity(1, mgl64.Vec2{})
	m.Observe(sys, 1)
	if math.Abs(m.Sample()-0.5*0.5625) > 1e-9 {
		t.Errorf("expected sample %f, got %f", 0.5*0.5625, m.Sample())
	}
	if math.Abs(m.Value()-(expected+0.5*0.5625)/2) > 1e-9 {
		t.Errorf("expected mean %f, got %f", (expected+0.5*0.5625)/2, m.Value())
	}
}

func TestKineticEnergyReset(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe(twoParticles(), 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestKineticEnergyEmpty(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe(particle.NewSystem(particle.DefaultDef(), nil), 0)
	if m.Value() != 0 {
		t.Errorf("expected zero energy, got %f", m.Value())
	}
}

func TestMomentum(t *testing.T) {
	m := NewMomentum()
	m.Observe(twoParticles(), 0)

	expected := 0.5625 * math.Sqrt(5)
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected momentum %f, got %f", expected, m.Value())
	}
}

func TestContacts(t *testing.T) {
	s := particle.NewSystem(particle.DefaultDef(), nil)
	s.CreateParticle(particle.ParticleDef{})
	s.CreateParticle(particle.ParticleDef{Position: mgl64.Vec2{0.5, 0}})

	m := NewContacts()
	m.Observe(s, 0)
	if m.Sample() != 0 {
		t.Errorf("expected no contacts before solve, got %f", m.Sample())
	}

	if err := s.Solve(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	m.Observe(s, 1.0/60)
	if m.Sample() != 1 {
		t.Errorf("expected 1 contact, got %f", m.Sample())
	}
	if m.Value() != 0.5 {
		t.Errorf("expected mean 0.5, got %f", m.Value())
	}
}

func TestCollisionEnergyKeepsPeak(t *testing.T) {
	s := particle.NewSystem(particle.DefaultDef(), nil)
	s.CreateParticle(particle.ParticleDef{Velocity: mgl64.Vec2{1, 0}})
	s.CreateParticle(particle.ParticleDef{Position: mgl64.Vec2{0.5, 0}, Velocity: mgl64.Vec2{-1, 0}})
	if err := s.Solve(1.0 / 60); err != nil {
		t.Fatal(err)
	}

	m := NewCollisionEnergy()
	m.Observe(s, 0)
	peak := m.Value()
	if peak != s.ComputeCollisionEnergy() {
		t.Errorf("expected %f, got %f", s.ComputeCollisionEnergy(), peak)
	}

	s.SetVelocity(0, mgl64.Vec2{})
	s.SetVelocity(1, mgl64.Vec2{})
	m.Observe(s, 1)
	if m.Sample() != 0 {
		t.Errorf("expected zero sample at rest, got %f", m.Sample())
	}
	if m.Value() != peak {
		t.Errorf("expected peak %f kept, got %f", peak, m.Value())
	}
}

func TestParticleCount(t *testing.T) {
	s := twoParticles()
	m := NewParticleCount()
	m.Observe(s, 0)
	if m.Value() != 2 {
		t.Errorf("expected 2 particles, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	s := twoParticles()

	m := NewStabilityThreshold(1.5)
	m.Observe(s, 0.1)
	if m.Value() != 0 {
		t.Errorf("expected stability 0, got %f", m.Value())
	}

	s.SetVelocity(1, mgl64.Vec2{0, 1})
	m.Observe(s, 0.2)
	if m.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1 {
		t.Errorf("expected stability 1 after reset, got %f", m.Value())
	}
}

func TestStabilityDefaultLimit(t *testing.T) {
	s := twoParticles()
	m := NewStability()

	// One diameter per 0.25 s is 4 units/s.
	m.Observe(s, 0.25)
	if m.Value() != 1 {
		t.Errorf("expected stability 1, got %f", m.Value())
	}

	s.SetVelocity(0, mgl64.Vec2{10, 0})
	m.Observe(s, 0.5)
	if m.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestSummary(t *testing.T) {
	avg, peak := Summary([]float64{1, 3, 2})
	if avg != 2 || peak != 3 {
		t.Errorf("expected (2, 3), got (%f, %f)", avg, peak)
	}

	avg, peak = Summary(nil)
	if avg != 0 || peak != 0 {
		t.Errorf("expected zeros, got (%f, %f)", avg, peak)
	}
}

func TestDefaultsNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 metrics, got %d", len(seen))
	}
}
