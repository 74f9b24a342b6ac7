package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/fluidsim/internal/particle"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario           = "dam_break"
	DefaultDt                 = 1.0 / 60
	DefaultSteps              = 300
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3
	DefaultGravityY           = -10.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Scenario string       `yaml:"scenario"`
	Dt       float64      `yaml:"dt"`
	Steps    int          `yaml:"steps"`
	Seed     int64        `yaml:"seed"`
	World    WorldConfig  `yaml:"world"`
	Particle particle.Def `yaml:"particle"`
}

type WorldConfig struct {
	Gravity            Vec `yaml:"gravity"`
	VelocityIterations int `yaml:"velocity_iterations"`
	PositionIterations int `yaml:"position_iterations"`
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) Vec2() mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Dt:       DefaultDt,
		Steps:    DefaultSteps,
		World: WorldConfig{
			Gravity:            Vec{Y: DefaultGravityY},
			VelocityIterations: DefaultVelocityIterations,
			PositionIterations: DefaultPositionIterations,
		},
		Particle: particle.DefaultDef(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting the solver cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Scenario == "":
		return fmt.Errorf("%w: empty scenario", ErrInvalid)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	case c.Steps <= 0:
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalid, c.Steps)
	case c.World.VelocityIterations <= 0 || c.World.PositionIterations <= 0:
		return fmt.Errorf("%w: solver iterations must be positive", ErrInvalid)
	case c.Particle.Radius <= 0:
		return fmt.Errorf("%w: particle radius must be positive, got %g", ErrInvalid, c.Particle.Radius)
	case c.Particle.Density <= 0:
		return fmt.Errorf("%w: particle density must be positive, got %g", ErrInvalid, c.Particle.Density)
	case c.Particle.MaxCount < 0:
		return fmt.Errorf("%w: max count must not be negative, got %d", ErrInvalid, c.Particle.MaxCount)
	}
	return nil
}

// Duration is the simulated time covered by a run.
func (c *Config) Duration() float64 { return c.Dt * float64(c.Steps) }
