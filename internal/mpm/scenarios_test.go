package mpm_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/mpmsim/internal/mpm"
)

var _ = Describe("Simulator", func() {
	var (
		params mpm.Params
		sim    *mpm.Simulator
	)

	build := func(opts ...mpm.Option) {
		var err error
		sim, err = mpm.New(params, opts...)
		Expect(err).NotTo(HaveOccurred())
	}

	Context("with the stock configuration", func() {
		BeforeEach(func() {
			params = mpm.DefaultParams()
			params.InitialVelocity = r2.Vec{Y: 1.375}
			params.VelocityJitter = 0.5
		})

		It("realizes the full 64x64 lattice", func() {
			build()
			Expect(sim.NumParticles()).To(Equal(4096))
			Expect(sim.GridSize()).To(Equal(64))
		})

		It("keeps every particle inside the walls", func() {
			build(mpm.WithSeed(5))
			_, err := sim.Run(context.Background(), 40)
			Expect(err).NotTo(HaveOccurred())
			for _, p := range sim.Positions(nil) {
				Expect(p.X).To(BeNumerically(">=", 1))
				Expect(p.X).To(BeNumerically("<=", 62))
				Expect(p.Y).To(BeNumerically(">=", 1))
				Expect(p.Y).To(BeNumerically("<=", 62))
			}
		})

		It("conserves mass on the grid", func() {
			build()
			sim.Step()
			st := sim.Stats()
			Expect(st.GridMass).To(BeNumerically("~", st.ParticleMass, 1e-6))
		})

		It("renders into an 800x800 frame", func() {
			build()
			f := mpm.NewFrame(800, 800, 3)
			sim.Render(f)
			lit := 0
			for i := 0; i < len(f.Pix); i += 3 {
				if f.Pix[i] == 255 {
					lit++
				}
			}
			Expect(lit).To(BeNumerically(">", 0))
			Expect(lit).To(BeNumerically("<=", 4096))
		})
	})

	Context("with a single particle under gravity", func() {
		BeforeEach(func() {
			params = mpm.Params{
				GridSize: 10, NumParticles: 1, TimeStep: 0.1,
				Gravity: r2.Vec{Y: -1},
			}
		})

		It("picks up dt*g after one step", func() {
			build(mpm.WithMaterial(mpm.NeoHookean{}))
			sim.Step()
			Expect(sim.Particle(0).Velocity.Y).To(BeNumerically("~", -0.1, 1e-12))
		})

		It("comes to rest on the floor", func() {
			build(mpm.WithMaterial(mpm.Passive{}))
			_, err := sim.Run(context.Background(), 300)
			Expect(err).NotTo(HaveOccurred())
			p := sim.Particle(0)
			Expect(p.Position.Y).To(BeNumerically(">=", 1))
			Expect(p.Position.Y).To(BeNumerically("<", 3))
		})
	})

	Context("with invalid parameters", func() {
		It("reports a ConfigError naming the field", func() {
			_, err := mpm.New(mpm.Params{GridSize: 3, NumParticles: 1})
			Expect(errors.Is(err, mpm.ErrInvalidGridSize)).To(BeTrue())

			var cfgErr *mpm.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("grid_size"))
		})
	})
})
