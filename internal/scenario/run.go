package scenario

import (
	"context"
	"log/slog"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/metrics"
	"github.com/san-kum/fluidsim/internal/sim"
)

// Experiment is one configured run of a scene.
type Experiment struct {
	cfg       *config.Config
	scene     *Scene
	simulator *sim.Simulator
}

// Setup builds the scene and attaches the default metrics.
func (r *Registry) Setup(cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	sc, err := r.Build(cfg)
	if err != nil {
		return nil, err
	}
	s := sc.Simulator()
	s.SetLogger(logger)
	sc.System.SetLogger(logger)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	return &Experiment{cfg: cfg, scene: sc, simulator: s}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, SimConfig(e.cfg))
}

func (e *Experiment) Scene() *Scene             { return e.scene }
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }
func (e *Experiment) Config() *config.Config    { return e.cfg }

// Builder returns an ensemble builder that sets up cfg with each seed.
func (r *Registry) Builder(cfg *config.Config, logger *slog.Logger) sim.Builder {
	return func(seed int64) (*sim.Simulator, error) {
		c := *cfg
		c.Seed = seed
		e, err := r.Setup(&c, logger)
		if err != nil {
			return nil, err
		}
		return e.simulator, nil
	}
}

func SimConfig(cfg *config.Config) sim.Config {
	return sim.Config{Dt: cfg.Dt, Steps: cfg.Steps, ValidateState: true}
}
