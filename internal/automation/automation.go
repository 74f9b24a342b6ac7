// Package automation runs scripted batches and parameter sweeps of scenes.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/scenario"
	"github.com/san-kum/fluidsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Script is a named sequence of runs loaded from YAML.
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []ScriptStep `yaml:"steps"`
}

// ScriptStep is one run of a script. Zero fields keep the preset or
// default value.
type ScriptStep struct {
	Scenario string             `yaml:"scenario"`
	Preset   string             `yaml:"preset"`
	Steps    int                `yaml:"steps"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult pairs a finished run with the config that produced it.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script %s has no steps", path)
	}
	return &script, nil
}

// StepConfig resolves a script step into a validated config.
func StepConfig(step ScriptStep) (*config.Config, error) {
	name := step.Scenario
	if name == "" {
		name = config.DefaultScenario
	}
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(name, step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", name, step.Preset)
		}
	}
	cfg.Scenario = name
	if step.Steps > 0 {
		cfg.Steps = step.Steps
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	for _, k := range sortedKeys(step.Params) {
		if err := SetParam(cfg, k, step.Params[k]); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScript executes every step in order and stops at the first failure,
// returning the runs finished so far.
func RunScript(ctx context.Context, script *Script, registry *scenario.Registry, logger *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Info("script step", "step", i+1, "of", len(script.Steps), "scenario", cfg.Scenario, "preset", step.Preset)

		exp, err := registry.Setup(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-%d", cfg.Scenario, i+1)
		}
		results = append(results, StepResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}

// Sweep varies one parameter linearly across Points runs of a base config.
type Sweep struct {
	Base   *config.Config
	Param  string
	Min    float64
	Max    float64
	Points int
}

// SweepResult holds the run metrics for one parameter value.
type SweepResult struct {
	Value     float64
	Metrics   map[string]float64
	Particles int
	Stable    bool
}

func RunSweep(ctx context.Context, sweep *Sweep, registry *scenario.Registry, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.Points < 1 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d", sweep.Points)
	}
	if err := SetParam(config.DefaultConfig(), sweep.Param, sweep.Min); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.Points)
	for i := 0; i < sweep.Points; i++ {
		value := sweep.Min
		if sweep.Points > 1 {
			value += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.Points-1)
		}

		cfg := *sweep.Base
		if err := SetParam(&cfg, sweep.Param, value); err != nil {
			return nil, err
		}
		exp, err := registry.Setup(&cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, value, err)
		}

		r := SweepResult{Value: value, Stable: true}
		result, err := exp.Run(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return results, ctx.Err()
		default:
			// a diverged run is a data point, not a sweep failure
			logger.Warn("sweep point diverged", sweep.Param, value, "err", err)
			r.Stable = false
		}
		if result != nil {
			r.Metrics = result.Metrics
			r.Particles = result.Particles
		}
		results = append(results, r)
		logger.Debug("sweep point", "point", i+1, "of", sweep.Points, sweep.Param, value)
	}
	return results, nil
}

// StableCount counts the sweep points whose runs stayed finite.
func StableCount(results []SweepResult) (stable int, unstable int) {
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
	}
	return
}

var params = map[string]func(*config.Config, float64){
	"dt":                    func(c *config.Config, v float64) { c.Dt = v },
	"gravity_x":             func(c *config.Config, v float64) { c.World.Gravity.X = v },
	"gravity_y":             func(c *config.Config, v float64) { c.World.Gravity.Y = v },
	"radius":                func(c *config.Config, v float64) { c.Particle.Radius = v },
	"density":               func(c *config.Config, v float64) { c.Particle.Density = v },
	"gravity_scale":         func(c *config.Config, v float64) { c.Particle.GravityScale = v },
	"pressure_strength":     func(c *config.Config, v float64) { c.Particle.PressureStrength = v },
	"damping_strength":      func(c *config.Config, v float64) { c.Particle.DampingStrength = v },
	"elastic_strength":      func(c *config.Config, v float64) { c.Particle.ElasticStrength = v },
	"spring_strength":       func(c *config.Config, v float64) { c.Particle.SpringStrength = v },
	"viscous_strength":      func(c *config.Config, v float64) { c.Particle.ViscousStrength = v },
	"surface_tension_a":     func(c *config.Config, v float64) { c.Particle.SurfaceTensionStrengthA = v },
	"surface_tension_b":     func(c *config.Config, v float64) { c.Particle.SurfaceTensionStrengthB = v },
	"powder_strength":       func(c *config.Config, v float64) { c.Particle.PowderStrength = v },
	"ejection_strength":     func(c *config.Config, v float64) { c.Particle.EjectionStrength = v },
	"color_mixing_strength": func(c *config.Config, v float64) { c.Particle.ColorMixingStrength = v },
}

// SetParam sets a named numeric setting on cfg.
func SetParam(cfg *config.Config, name string, value float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown param: %s", name)
	}
	set(cfg, value)
	return nil
}

// ListParams returns the settable parameter names, sorted.
func ListParams() []string {
	return sortedKeys(params)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
