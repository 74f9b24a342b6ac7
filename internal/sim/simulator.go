package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/fluidsim/internal/b2world"
	"github.com/san-kum/fluidsim/internal/particle"
)

// Simulator advances a rigid world and the particle system living in it
// with a fixed time step.
type Simulator struct {
	world     *b2world.World
	system    *particle.System
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

// New returns a simulator for system. world may be nil for particle-only
// runs.
func New(world *b2world.World, system *particle.System) *Simulator {
	return &Simulator{
		world:     world,
		system:    system,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) World() *b2world.World    { return s.world }
func (s *Simulator) System() *particle.System { return s.system }

// Step moves the rigid bodies first so the particle solve sees their
// previous and current transforms.
func (s *Simulator) Step(dt float64) error {
	if s.system == nil {
		return ErrNoSystem
	}
	if s.world != nil {
		s.world.Step(dt)
	}
	return s.system.Solve(dt)
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:   make([]float64, 0, cfg.Steps),
		Series:  make(map[string][]float64),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Info("run started", "steps", cfg.Steps, "dt", cfg.Dt, "particles", s.system.ParticleCount())

	t := 0.0
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.logger.Warn("run cancelled", "step", i, "t", t)
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		if err := s.Step(cfg.Dt); err != nil {
			s.finish(result)
			return result, &StepError{Step: i, Time: t, Wrapped: err}
		}
		t += cfg.Dt

		if cfg.ValidateState && !finite(s.system) {
			s.finish(result)
			return result, &StepError{Step: i, Time: t, Wrapped: ErrNonFinite}
		}

		result.StepsTaken++
		result.Times = append(result.Times, t)
		for _, m := range s.metrics {
			m.Observe(s.system, t)
			if sm, ok := m.(Sampler); ok {
				result.Series[m.Name()] = append(result.Series[m.Name()], sm.Sample())
			}
		}
		for _, obs := range s.observers {
			obs.OnStep(s.system, i, t)
		}
	}

	s.finish(result)
	s.logger.Info("run finished", "steps", result.StepsTaken, "particles", result.Particles, "groups", result.Groups)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Particles = s.system.ParticleCount()
	result.Groups = s.system.GroupCount()
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.system == nil {
		return ErrNoSystem
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	return nil
}

// RunWithCallback steps until the callback returns false, the context ends
// or a step fails. It is the entry point for interactive front ends.
func (s *Simulator) RunWithCallback(ctx context.Context, dt float64, callback func(sys *particle.System, step int, t float64) bool) error {
	if s.system == nil {
		return ErrNoSystem
	}
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", dt)
	}

	t := 0.0
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.system, i, t) {
			return nil
		}
		if err := s.Step(dt); err != nil {
			return &StepError{Step: i, Time: t, Wrapped: err}
		}
		t += dt
	}
}

func finite(sys *particle.System) bool {
	vs := sys.Velocities()
	for i, p := range sys.Positions() {
		v := vs[i]
		if math.IsNaN(p[0]+p[1]+v[0]+v[1]) || math.IsInf(p[0]+p[1]+v[0]+v[1], 0) {
			return false
		}
	}
	return true
}
