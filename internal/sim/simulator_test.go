package sim_test

import (
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/b2world"
	"github.com/san-kum/fluidsim/internal/particle"
	"github.com/san-kum/fluidsim/internal/sim"
)

const dt = 1.0 / 60

type countMetric struct {
	observed int
}

func (c *countMetric) Name() string                      { return "count" }
func (c *countMetric) Observe(*particle.System, float64) { c.observed++ }
func (c *countMetric) Value() float64                    { return float64(c.observed) }
func (c *countMetric) Reset()                            { c.observed = 0 }

type sampledMetric struct {
	countMetric
}

func (s *sampledMetric) Name() string    { return "sampled" }
func (s *sampledMetric) Sample() float64 { return float64(s.observed) }

type stepRecorder struct {
	steps []int
}

func (r *stepRecorder) OnStep(_ *particle.System, step int, _ float64) {
	r.steps = append(r.steps, step)
}

func fallingSystem(w *b2world.World) *particle.System {
	s := particle.NewSystem(particle.DefaultDef(), w)
	s.CreateParticle(particle.ParticleDef{Position: mgl64.Vec2{0, 10}})
	return s
}

var _ = Describe("Simulator", func() {
	var (
		world *b2world.World
		sys   *particle.System
		s     *sim.Simulator
	)

	BeforeEach(func() {
		world = b2world.New(mgl64.Vec2{0, -10})
		sys = fallingSystem(world)
		s = sim.New(world, sys)
	})

	Describe("Run", func() {
		It("rejects a non-positive time step", func() {
			_, err := s.Run(context.Background(), sim.Config{Dt: 0, Steps: 10})
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive step count", func() {
			_, err := s.Run(context.Background(), sim.Config{Dt: dt, Steps: 0})
			Expect(err).To(HaveOccurred())
		})

		It("requires a particle system", func() {
			_, err := sim.New(world, nil).Run(context.Background(), sim.Config{Dt: dt, Steps: 1})
			Expect(err).To(MatchError(sim.ErrNoSystem))
		})

		It("steps the requested number of times", func() {
			result, err := s.Run(context.Background(), sim.Config{Dt: dt, Steps: 30})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(30))
			Expect(result.Times).To(HaveLen(30))
			Expect(result.Times[29]).To(BeNumerically("~", 0.5, 1e-9))
			Expect(sys.Timestamp()).To(Equal(30))
			Expect(result.Particles).To(Equal(1))
		})

		It("applies world gravity to the particles", func() {
			_, err := s.Run(context.Background(), sim.Config{Dt: dt, Steps: 60})
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.Velocity(0)[1]).To(BeNumerically("~", -10, 1e-6))
			Expect(sys.Position(0)[1]).To(BeNumerically("<", 10))
		})

		It("collects metrics and records series for samplers", func() {
			plain := &countMetric{observed: 7}
			sampled := &sampledMetric{}
			s.AddMetric(plain)
			s.AddMetric(sampled)

			result, err := s.Run(context.Background(), sim.Config{Dt: dt, Steps: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("count", 5.0))
			Expect(result.Metrics).To(HaveKeyWithValue("sampled", 5.0))
			Expect(result.Series).NotTo(HaveKey("count"))
			Expect(result.Series["sampled"]).To(Equal([]float64{1, 2, 3, 4, 5}))
		})

		It("notifies observers once per step", func() {
			rec := &stepRecorder{}
			s.AddObserver(rec)

			_, err := s.Run(context.Background(), sim.Config{Dt: dt, Steps: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.steps).To(Equal([]int{0, 1, 2, 3}))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := s.Run(ctx, sim.Config{Dt: dt, Steps: 100})
			Expect(err).To(MatchError(context.Canceled))
			Expect(result).NotTo(BeNil())
			Expect(result.StepsTaken).To(Equal(0))
		})

		It("reports non-finite state as a step error", func() {
			sys.SetVelocity(0, mgl64.Vec2{math.NaN(), 0})

			result, err := s.Run(context.Background(), sim.Config{Dt: dt, Steps: 10, ValidateState: true})
			Expect(err).To(MatchError(sim.ErrNonFinite))

			var stepErr *sim.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal(0))
			Expect(result.StepsTaken).To(Equal(0))
		})
	})

	Describe("Step", func() {
		It("moves dynamic bodies before the particle solve", func() {
			body := world.CreateBody(b2world.BodyDef{
				Position: mgl64.Vec2{5, 5},
				Dynamic:  true,
				Density:  1,
			}, b2world.Box(0.5, 0.5))

			Expect(s.Step(dt)).To(Succeed())
			Expect(body.Position()[1]).To(BeNumerically("<", 5))
			Expect(body.PreviousTransform().P[1]).To(BeNumerically("~", 5, 1e-9))
			Expect(sys.Timestamp()).To(Equal(1))
		})

		It("runs without a world", func() {
			s := sim.New(nil, fallingSystem(nil))
			Expect(s.Step(dt)).To(Succeed())
			Expect(s.System().Velocity(0)).To(Equal(mgl64.Vec2{}))
		})
	})

	Describe("RunWithCallback", func() {
		It("stops when the callback declines", func() {
			calls := 0
			err := s.RunWithCallback(context.Background(), dt, func(_ *particle.System, step int, _ float64) bool {
				calls++
				return step < 2
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(3))
			Expect(sys.Timestamp()).To(Equal(2))
		})

		It("returns the context error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			err := s.RunWithCallback(ctx, dt, func(_ *particle.System, step int, _ float64) bool {
				if step == 3 {
					cancel()
				}
				return true
			})
			Expect(err).To(MatchError(context.Canceled))
			Expect(sys.Timestamp()).To(Equal(4))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs every member independently", func() {
		seeds := make(chan int64, 3)
		build := func(seed int64) (*sim.Simulator, error) {
			seeds <- seed
			w := b2world.New(mgl64.Vec2{0, -10})
			return sim.New(w, fallingSystem(w)), nil
		}

		results, err := sim.NewEnsemble(build, 3, 10).Run(context.Background(), sim.Config{Dt: dt, Steps: 12})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.StepsTaken).To(Equal(12))
		}

		close(seeds)
		var got []int64
		for seed := range seeds {
			got = append(got, seed)
		}
		Expect(got).To(ConsistOf(int64(10), int64(11), int64(12)))
	})

	It("fails when a member cannot be built", func() {
		boom := errors.New("boom")
		build := func(seed int64) (*sim.Simulator, error) {
			if seed == 1 {
				return nil, boom
			}
			return sim.New(nil, fallingSystem(nil)), nil
		}

		_, err := sim.NewEnsemble(build, 2, 0).Run(context.Background(), sim.Config{Dt: dt, Steps: 1})
		Expect(err).To(MatchError(boom))
	})
})
