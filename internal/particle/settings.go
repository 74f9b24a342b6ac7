package particle

// InvalidIndex is returned by CreateParticle when the buffers are full.
const InvalidIndex = -1

const (
	minBufferCapacity = 256

	// stride is the lattice spacing of spawned particles relative to the
	// diameter.
	stride = 0.75

	minWeight = 1.0
	maxWeight = 5.0

	// maxTriadDistanceSquared bounds triad edges, in squared diameters.
	maxTriadDistanceSquared = 4.0

	linearSlop = 0.005

	// invMassFactor is 1/stride².
	invMassFactor = 1.777777

	surfaceWeight = 0.8
)

// Def configures a System.
type Def struct {
	Radius                  float64 `yaml:"radius"`
	Density                 float64 `yaml:"density"`
	GravityScale            float64 `yaml:"gravity_scale"`
	PressureStrength        float64 `yaml:"pressure_strength"`
	DampingStrength         float64 `yaml:"damping_strength"`
	ElasticStrength         float64 `yaml:"elastic_strength"`
	SpringStrength          float64 `yaml:"spring_strength"`
	ViscousStrength         float64 `yaml:"viscous_strength"`
	SurfaceTensionStrengthA float64 `yaml:"surface_tension_a"`
	SurfaceTensionStrengthB float64 `yaml:"surface_tension_b"`
	PowderStrength          float64 `yaml:"powder_strength"`
	EjectionStrength        float64 `yaml:"ejection_strength"`
	ColorMixingStrength     float64 `yaml:"color_mixing_strength"`
	// MaxCount caps the buffer capacity. Zero means unbounded.
	MaxCount                int     `yaml:"max_count"`
	// Debug enables per-step consistency checks.
	Debug                   bool    `yaml:"debug"`
}

func DefaultDef() Def {
	return Def{
		Radius:                  0.5,
		Density:                 1,
		GravityScale:            1,
		PressureStrength:        0.05,
		DampingStrength:         1.0,
		ElasticStrength:         0.25,
		SpringStrength:          0.25,
		ViscousStrength:         0.25,
		SurfaceTensionStrengthA: 0.1,
		SurfaceTensionStrengthB: 0.2,
		PowderStrength:          0.5,
		EjectionStrength:        0.5,
		ColorMixingStrength:     0.5,
	}
}

type step struct {
	dt    float64
	invDt float64
}
