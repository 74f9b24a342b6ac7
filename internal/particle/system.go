package particle

import (
	"io"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/rigid"
)

// DestructionListener is notified when particles and groups go away.
type DestructionListener interface {
	// ParticleDestroyed is called during compaction for particles destroyed
	// with notification. The index is the one the particle had before
	// compaction.
	ParticleDestroyed(s *System, index int)
	// GroupDestroyed is called before the group is unlinked.
	GroupDestroyed(s *System, g *Group)
}

type System struct {
	world    rigid.World
	listener DestructionListener
	logger   *slog.Logger

	timestamp     int
	allFlags      Flags
	allGroupFlags GroupFlags

	density         float64
	invDensity      float64
	gravityScale    float64
	diameter        float64
	invDiameter     float64
	squaredDiameter float64

	pressureStrength        float64
	dampingStrength         float64
	elasticStrength         float64
	springStrength          float64
	viscousStrength         float64
	surfaceTensionStrengthA float64
	surfaceTensionStrengthB float64
	powderStrength          float64
	ejectionStrength        float64
	colorMixingStrength     float64

	debug bool

	count    int
	capacity int
	maxCount int

	flags         []Flags
	positions     []mgl64.Vec2
	velocities    []mgl64.Vec2
	groups        []*Group
	accumulation  []float64
	accumulation2 []mgl64.Vec2
	depths        []float64
	colors        []Color
	userData      []any

	proxies      []proxy
	proxiesDirty bool
	contacts     []Contact
	bodyContacts []BodyContact
	pairs        []Pair
	triads       []Triad

	groupList  *Group
	groupCount int
}

// NewSystem creates an empty particle system. world may be nil, in which
// case there is no gravity and no body coupling.
func NewSystem(def Def, world rigid.World) *System {
	s := &System{
		world:               world,
		logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		gravityScale:        def.GravityScale,
		pressureStrength:    def.PressureStrength,
		dampingStrength:     def.DampingStrength,
		elasticStrength:     def.ElasticStrength,
		springStrength:      def.SpringStrength,
		viscousStrength:     def.ViscousStrength,
		powderStrength:      def.PowderStrength,
		ejectionStrength:    def.EjectionStrength,
		colorMixingStrength: def.ColorMixingStrength,
		maxCount:            def.MaxCount,
		debug:               def.Debug,
	}
	s.surfaceTensionStrengthA = def.SurfaceTensionStrengthA
	s.surfaceTensionStrengthB = def.SurfaceTensionStrengthB
	s.SetRadius(def.Radius)
	s.SetDensity(def.Density)
	return s
}

func (s *System) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *System) SetDestructionListener(l DestructionListener) { s.listener = l }

func (s *System) World() rigid.World { return s.world }

func (s *System) SetRadius(radius float64) {
	s.diameter = 2 * radius
	s.squaredDiameter = s.diameter * s.diameter
	s.invDiameter = 1 / s.diameter
}

func (s *System) Radius() float64   { return s.diameter / 2 }
func (s *System) Diameter() float64 { return s.diameter }

func (s *System) SetDensity(density float64) {
	s.density = density
	s.invDensity = 1 / density
}

func (s *System) Density() float64 { return s.density }

func (s *System) SetGravityScale(scale float64) { s.gravityScale = scale }
func (s *System) GravityScale() float64         { return s.gravityScale }

func (s *System) SetDamping(damping float64) { s.dampingStrength = damping }
func (s *System) Damping() float64           { return s.dampingStrength }

func (s *System) SetDebug(on bool) { s.debug = on }

// Stride is the spacing of particles spawned by CreateParticleGroup.
func (s *System) Stride() float64 { return stride * s.diameter }

func (s *System) ParticleMass() float64 {
	st := s.Stride()
	return s.density * st * st
}

func (s *System) ParticleInvMass() float64 {
	return invMassFactor * s.invDensity * s.invDiameter * s.invDiameter
}

func (s *System) criticalVelocity(st step) float64 { return s.diameter * st.invDt }

func (s *System) criticalVelocitySquared(st step) float64 {
	v := s.criticalVelocity(st)
	return v * v
}

func (s *System) criticalPressure(st step) float64 {
	return s.density * s.criticalVelocitySquared(st)
}

// Timestamp counts Solve calls.
func (s *System) Timestamp() int { return s.timestamp }

func (s *System) ParticleCount() int { return s.count }
func (s *System) MaxCount() int      { return s.maxCount }
func (s *System) Capacity() int      { return s.capacity }

func (s *System) Flags() []Flags              { return s.flags[:s.count] }
func (s *System) Positions() []mgl64.Vec2     { return s.positions[:s.count] }
func (s *System) Velocities() []mgl64.Vec2    { return s.velocities[:s.count] }
func (s *System) ParticleGroups() []*Group    { return s.groups[:s.count] }
func (s *System) Contacts() []Contact         { return s.contacts }
func (s *System) BodyContacts() []BodyContact { return s.bodyContacts }
func (s *System) Pairs() []Pair               { return s.pairs }
func (s *System) Triads() []Triad             { return s.triads }
func (s *System) GroupList() *Group           { return s.groupList }
func (s *System) GroupCount() int             { return s.groupCount }
func (s *System) ParticleGroup(i int) *Group  { return s.groups[i] }
func (s *System) Position(i int) mgl64.Vec2   { return s.positions[i] }
func (s *System) Velocity(i int) mgl64.Vec2   { return s.velocities[i] }

func (s *System) SetVelocity(i int, v mgl64.Vec2) { s.velocities[i] = v }

// Colors returns the color buffer, allocating it on first use.
func (s *System) Colors() []Color {
	s.requestColors()
	return s.colors[:s.count]
}

// UserData returns the user data buffer, allocating it on first use.
func (s *System) UserData() []any {
	s.requestUserData()
	return s.userData[:s.count]
}

// Depths returns the depth buffer, or nil when no solid group was created.
func (s *System) Depths() []float64 {
	if s.depths == nil {
		return nil
	}
	return s.depths[:s.count]
}

// SetFlags replaces the flags of particle i. The zombie bit is kept.
func (s *System) SetFlags(i int, f Flags) {
	s.flags[i] = f | (s.flags[i] & Zombie)
}

// Groups returns the live groups in list order.
func (s *System) Groups() []*Group {
	out := make([]*Group, 0, s.groupCount)
	for g := s.groupList; g != nil; g = g.next {
		out = append(out, g)
	}
	return out
}
