package scenario_test

import (
	"context"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/particle"
	"github.com/san-kum/fluidsim/internal/scenario"
	"github.com/san-kum/fluidsim/internal/sim"
)

func configFor(name string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scenario = name
	cfg.Steps = 10
	return cfg
}

var _ = Describe("Registry", func() {
	var r *scenario.Registry

	BeforeEach(func() {
		r = scenario.NewRegistry()
	})

	It("lists every scene in order", func() {
		names := r.ListScenes()
		Expect(names).To(HaveLen(8))
		Expect(slices.IsSorted(names)).To(BeTrue())
		Expect(names).To(ContainElements("dam_break", "solid_merge", "color_mix"))
	})

	It("describes known scenes only", func() {
		desc, err := r.Describe("dam_break")
		Expect(err).NotTo(HaveOccurred())
		Expect(desc).NotTo(BeEmpty())

		_, err = r.Describe("lava_lamp")
		Expect(err).To(MatchError(ContainSubstring("unknown scenario")))
	})

	It("rejects unknown scenarios", func() {
		_, err := r.Build(configFor("lava_lamp"))
		Expect(err).To(MatchError(ContainSubstring("unknown scenario: lava_lamp")))
	})

	It("rejects invalid configurations", func() {
		cfg := configFor("dam_break")
		cfg.Particle.Radius = 0
		_, err := r.Build(cfg)
		Expect(err).To(MatchError(config.ErrInvalid))
	})

	DescribeTable("building and stepping",
		func(name string) {
			sc, err := r.Build(configFor(name))
			Expect(err).NotTo(HaveOccurred())
			Expect(sc.Name).To(Equal(name))
			Expect(sc.System.ParticleCount()).To(BeNumerically(">", 0))
			Expect(sc.World.BodyCount()).To(BeNumerically(">", 0))
			Expect(sc.Bounds.IsValid()).To(BeTrue())

			result, err := sc.Simulator().Run(context.Background(), scenario.SimConfig(configFor(name)))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(10))
		},
		Entry("dam break", "dam_break"),
		Entry("elastic drop", "elastic_drop"),
		Entry("spring chain", "spring_chain"),
		Entry("powder pile", "powder_pile"),
		Entry("rigid blobs", "rigid_blobs"),
		Entry("tensile drop", "tensile_drop"),
		Entry("color mix", "color_mix"),
		Entry("solid merge", "solid_merge"),
	)

	It("adds a floating dynamic body to the dam break", func() {
		sc, err := r.Build(configFor("dam_break"))
		Expect(err).NotTo(HaveOccurred())

		dynamic := 0
		for _, b := range sc.World.Bodies() {
			if b.Dynamic() {
				dynamic++
			}
		}
		Expect(dynamic).To(Equal(1))
	})

	It("joins the solid blocks into one group", func() {
		sc, err := r.Build(configFor("solid_merge"))
		Expect(err).NotTo(HaveOccurred())

		Expect(sc.System.GroupCount()).To(Equal(1))
		g := sc.System.GroupList()
		Expect(g.Flags().Has(particle.Solid)).To(BeTrue())
		Expect(g.ParticleCount()).To(Equal(sc.System.ParticleCount()))
		Expect(sc.System.Depths()).NotTo(BeNil())
	})

	It("anchors one end of the spring chain", func() {
		sc, err := r.Build(configFor("spring_chain"))
		Expect(err).NotTo(HaveOccurred())

		walls := 0
		for _, f := range sc.System.Flags() {
			Expect(f.Has(particle.Spring)).To(BeTrue())
			if f.Has(particle.Wall) {
				walls++
			}
		}
		Expect(walls).To(BeNumerically(">", 0))
		Expect(walls).To(BeNumerically("<", sc.System.ParticleCount()/2))
		Expect(sc.System.Pairs()).NotTo(BeEmpty())
	})

	It("builds triads for the elastic block", func() {
		sc, err := r.Build(configFor("elastic_drop"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.System.Triads()).NotTo(BeEmpty())
	})

	It("keeps rigid blobs as separate rigid groups", func() {
		sc, err := r.Build(configFor("rigid_blobs"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.System.GroupCount()).To(Equal(2))
		for _, g := range sc.System.Groups() {
			Expect(g.Flags().Has(particle.Rigid)).To(BeTrue())
		}
	})

	It("colors the two halves of the color mix", func() {
		sc, err := r.Build(configFor("color_mix"))
		Expect(err).NotTo(HaveOccurred())

		colors := sc.System.Colors()
		Expect(colors[0]).NotTo(Equal(colors[len(colors)-1]))
	})

	It("seeds the powder jitter from the config", func() {
		a, err := r.Build(configFor("powder_pile"))
		Expect(err).NotTo(HaveOccurred())
		b, err := r.Build(configFor("powder_pile"))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.System.Positions()).To(Equal(b.System.Positions()))

		other := configFor("powder_pile")
		other.Seed = 99
		c, err := r.Build(other)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.System.Positions()).NotTo(Equal(a.System.Positions()))
	})
})

var _ = Describe("Experiment", func() {
	It("runs a scene with the default metrics", func() {
		r := scenario.NewRegistry()
		e, err := r.Setup(configFor("tensile_drop"), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Scene().Name).To(Equal("tensile_drop"))

		result, err := e.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(10))
		Expect(result.Metrics).To(HaveKey("kinetic_energy"))
		Expect(result.Metrics).To(HaveKey("stability"))
		Expect(result.Series["kinetic_energy"]).To(HaveLen(10))
		Expect(result.Series).NotTo(HaveKey("stability"))
	})

	It("builds independent ensemble members", func() {
		r := scenario.NewRegistry()
		cfg := configFor("powder_pile")

		results, err := sim.NewEnsemble(r.Builder(cfg, nil), 2, 1).Run(context.Background(), scenario.SimConfig(cfg))
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[0].Particles).To(Equal(240))
		Expect(cfg.Seed).To(Equal(int64(0)))
	})
})
