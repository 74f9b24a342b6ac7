package config

import (
	"maps"
	"slices"
)

var Presets = map[string]map[string]*Config{
	"dam_break": {
		"calm": preset("dam_break", func(c *Config) {
			c.Particle.DampingStrength = 1.5
		}),
		"viscous": preset("dam_break", func(c *Config) {
			c.Particle.ViscousStrength = 0.8
			c.Steps = 600
		}),
		"fine": preset("dam_break", func(c *Config) {
			c.Particle.Radius = 0.25
			c.Dt = 1.0 / 120
			c.Steps = 600
		}),
	},
	"elastic_drop": {
		"stiff": preset("elastic_drop", func(c *Config) {
			c.Particle.ElasticStrength = 0.75
		}),
		"soft": preset("elastic_drop", func(c *Config) {
			c.Particle.ElasticStrength = 0.1
		}),
	},
	"spring_chain": {
		"loose": preset("spring_chain", func(c *Config) {
			c.Particle.SpringStrength = 0.05
		}),
		"taut": preset("spring_chain", func(c *Config) {
			c.Particle.SpringStrength = 0.8
		}),
	},
	"powder_pile": {
		"sticky": preset("powder_pile", func(c *Config) {
			c.Particle.PowderStrength = 0.1
		}),
		"long": preset("powder_pile", func(c *Config) {
			c.Steps = 900
		}),
	},
	"tensile_drop": {
		"strong": preset("tensile_drop", func(c *Config) {
			c.Particle.SurfaceTensionStrengthA = 0.3
			c.Particle.SurfaceTensionStrengthB = 0.5
		}),
		"zero_g": preset("tensile_drop", func(c *Config) {
			c.World.Gravity = Vec{}
		}),
	},
	"color_mix": {
		"fast": preset("color_mix", func(c *Config) {
			c.Particle.ColorMixingStrength = 1
		}),
	},
	"rigid_blobs": {
		"heavy": preset("rigid_blobs", func(c *Config) {
			c.Particle.Density = 3
		}),
	},
	"solid_merge": {
		"strong_ejection": preset("solid_merge", func(c *Config) {
			c.Particle.EjectionStrength = 1
		}),
	},
}

func preset(scenario string, apply func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	apply(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, name string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(scenarioPresets))
}
