package particle

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCreateParticleGrowth(t *testing.T) {
	s := newTestSystem()
	if s.Capacity() != 0 {
		t.Fatalf("expected zero capacity before first particle, got %d", s.Capacity())
	}
	for i := 0; i < minBufferCapacity; i++ {
		if got := s.CreateParticle(ParticleDef{Position: mgl64.Vec2{float64(i), 0}}); got != i {
			t.Fatalf("expected index %d, got %d", i, got)
		}
	}
	if s.Capacity() != minBufferCapacity {
		t.Errorf("expected capacity %d, got %d", minBufferCapacity, s.Capacity())
	}
	s.CreateParticle(ParticleDef{})
	if s.Capacity() != 2*minBufferCapacity {
		t.Errorf("expected capacity %d, got %d", 2*minBufferCapacity, s.Capacity())
	}
	if s.Position(10) != (mgl64.Vec2{10, 0}) {
		t.Errorf("expected position kept across growth, got %v", s.Position(10))
	}
}

func TestCreateParticleMaxCount(t *testing.T) {
	def := DefaultDef()
	def.MaxCount = 3
	s := NewSystem(def, nil)

	for i := 0; i < 3; i++ {
		if s.CreateParticle(ParticleDef{}) == InvalidIndex {
			t.Fatalf("particle %d rejected", i)
		}
	}
	if got := s.CreateParticle(ParticleDef{}); got != InvalidIndex {
		t.Errorf("expected InvalidIndex, got %d", got)
	}
	if s.ParticleCount() != 3 {
		t.Errorf("expected 3 particles, got %d", s.ParticleCount())
	}
	if s.Capacity() != 3 {
		t.Errorf("expected capacity 3, got %d", s.Capacity())
	}
}

func TestSetMaxCount(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{})
	s.CreateParticle(ParticleDef{})

	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"unbounded", 0, false},
		{"above count", 10, false},
		{"at count", 2, false},
		{"below count", 1, true},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetMaxCount(tt.n)
			if tt.wantErr && !errors.Is(err, ErrMaxCount) {
				t.Errorf("expected ErrMaxCount, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOptionalBuffersBackfill(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{})
	s.CreateParticle(ParticleDef{})
	red := Color{R: 255, A: 255}
	s.CreateParticle(ParticleDef{Color: &red, UserData: "third"})
	s.CreateParticle(ParticleDef{})

	colors := s.Colors()
	if colors[0] != DefaultColor || colors[1] != DefaultColor {
		t.Errorf("expected default color backfill, got %v %v", colors[0], colors[1])
	}
	if colors[2] != red {
		t.Errorf("expected %v, got %v", red, colors[2])
	}
	if colors[3] != DefaultColor {
		t.Errorf("expected default color for later particle, got %v", colors[3])
	}

	ud := s.UserData()
	if ud[0] != nil || ud[2] != "third" || ud[3] != nil {
		t.Errorf("unexpected user data %v", ud)
	}
}

func TestDepthsNilWithoutSolidGroup(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{})
	if s.Depths() != nil {
		t.Error("expected nil depths")
	}
}

func TestDestroyParticleOutOfRange(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{})

	for _, i := range []int{-1, 1, 5} {
		if err := s.DestroyParticle(i, false); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestDestroyParticleDeferred(t *testing.T) {
	s := newTestSystem()
	s.CreateParticle(ParticleDef{})
	s.CreateParticle(ParticleDef{Position: mgl64.Vec2{5, 0}})

	if err := s.DestroyParticle(0, false); err != nil {
		t.Fatal(err)
	}
	if s.ParticleCount() != 2 {
		t.Errorf("expected removal deferred, got count %d", s.ParticleCount())
	}
	if !s.Flags()[0].Has(Zombie) {
		t.Error("expected zombie flag")
	}
	if err := s.Solve(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	if s.ParticleCount() != 1 {
		t.Errorf("expected 1 particle, got %d", s.ParticleCount())
	}
	if s.Position(0) != (mgl64.Vec2{5, 0}) {
		t.Errorf("expected survivor moved to index 0, got %v", s.Position(0))
	}
}

func TestSetFlagsKeepsZombie(t *testing.T) {
	s := newTestSystem()
	i := s.CreateParticle(ParticleDef{})
	_ = s.DestroyParticle(i, false)
	s.SetFlags(i, Viscous)
	if !s.Flags()[i].Has(Zombie) || !s.Flags()[i].Has(Viscous) {
		t.Errorf("expected zombie|viscous, got %v", s.Flags()[i])
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		names []string
		want  Flags
		ok    bool
	}{
		{nil, Water, true},
		{[]string{"water"}, Water, true},
		{[]string{"Spring", " elastic "}, Spring | Elastic, true},
		{[]string{"powder", "color_mixing"}, Powder | ColorMixing, true},
		{[]string{"lava"}, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseFlags(tt.names)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseFlags(%v): expected %v/%v, got %v/%v", tt.names, tt.want, tt.ok, got, ok)
		}
	}
	if s := (Spring | Tensile).String(); s != "spring|tensile" {
		t.Errorf("expected spring|tensile, got %s", s)
	}
}
