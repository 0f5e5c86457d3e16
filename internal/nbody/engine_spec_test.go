package nbody_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/nbody"
)

var _ = Describe("Engine", func() {
	var (
		eng    *nbody.Engine
		params nbody.Params
		start  time.Time
		size   nbody.Size
	)

	BeforeEach(func() {
		params = nbody.DefaultParams()
		params.Bodies = 64
		params.Seed = 11
		start = time.Date(2022, 2, 4, 0, 0, 0, 0, time.UTC)
		size = nbody.Size{Width: 800, Height: 600}
	})

	JustBeforeEach(func() {
		var err error
		eng, err = nbody.New(params)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("the first frame", func() {
		It("returns the full population at rest inside the reset disk", func() {
			snap := eng.Advance(start, size)
			Expect(snap.Len()).To(Equal(64))
			Expect(eng.Resets()).To(Equal(1))

			center := size.Center()
			limit := params.OrbitFraction * size.Min()
			for _, b := range snap.All() {
				Expect(r2.Norm(r2.Sub(b.Position, center))).To(BeNumerically("<=", limit+1e-9))
				Expect(b.Velocity).To(Equal(r2.Vec{}))
				Expect(b.Mass).To(Equal(1.0))
			}
		})

		It("computes accelerations from the reset layout", func() {
			snap := eng.Advance(start, size)
			Expect(snap.Finite()).To(BeTrue())
			Expect(snap.At(0).Acceleration).NotTo(Equal(r2.Vec{}))
		})
	})

	Describe("steady frames", func() {
		It("keeps the population and moves bodies", func() {
			first := eng.Advance(start, size).Clone()
			var snap nbody.Snapshot
			for i := 1; i <= 10; i++ {
				snap = eng.Advance(start.Add(time.Duration(i)*16*time.Millisecond), size)
			}
			Expect(snap.Len()).To(Equal(64))
			Expect(eng.Resets()).To(Equal(1))
			Expect(eng.Frame()).To(Equal(uint64(11)))
			Expect(snap.At(0).Position).NotTo(Equal(first[0].Position))
		})

		It("conserves momentum to rounding error", func() {
			var snap nbody.Snapshot
			for i := 0; i < 60; i++ {
				snap = eng.Advance(start.Add(time.Duration(i)*16*time.Millisecond), size)
			}
			p := nbody.Momentum(snap)
			Expect(math.Abs(p.X)).To(BeNumerically("<", 1e-6*float64(snap.Len())*(nbody.MaxSpeed(snap)+1)))
			Expect(math.Abs(p.Y)).To(BeNumerically("<", 1e-6*float64(snap.Len())*(nbody.MaxSpeed(snap)+1)))
		})
	})

	Describe("resizing", func() {
		It("re-initializes every body around the new center", func() {
			eng.Advance(start, size)
			eng.Advance(start.Add(16*time.Millisecond), size)

			resized := nbody.Size{Width: 200, Height: 200}
			snap := eng.Advance(start.Add(32*time.Millisecond), resized)
			Expect(eng.Resets()).To(Equal(2))
			Expect(eng.Size()).To(Equal(resized))

			limit := params.OrbitFraction * resized.Min()
			for _, b := range snap.All() {
				Expect(r2.Norm(r2.Sub(b.Position, resized.Center()))).To(BeNumerically("<=", limit+1e-6))
			}
		})
	})

	Context("with two bodies one unit apart", func() {
		BeforeEach(func() {
			params.Bodies = 2
			params.G = 3.5
		})

		It("pulls them together with equal and opposite accelerations of G", func() {
			Expect(eng.SetState(size, []nbody.Body{
				{Position: r2.Vec{X: 0, Y: 0}, Mass: 1},
				{Position: r2.Vec{X: 1, Y: 0}, Mass: 1},
			})).To(Succeed())

			// dt is zero on the first frame, so positions stay put.
			snap := eng.Advance(start, size)

			Expect(snap.At(0).Position).To(Equal(r2.Vec{X: 0, Y: 0}))
			Expect(snap.At(0).Acceleration.X).To(Equal(3.5))
			Expect(snap.At(1).Acceleration.X).To(Equal(-3.5))
			Expect(snap.At(0).Acceleration.Y).To(BeZero())
			Expect(nbody.Momentum(snap)).To(Equal(r2.Vec{}))
		})

		It("rejects a population of the wrong size", func() {
			err := eng.SetState(size, make([]nbody.Body, 5))
			Expect(err).To(MatchError(nbody.ErrPopulationMismatch))
		})
	})

	Context("with identical seeds", func() {
		It("produces bit-identical frames regardless of worker count", func() {
			run := func(workers int) []nbody.Body {
				p := params
				p.Workers = workers
				e, err := nbody.New(p)
				Expect(err).NotTo(HaveOccurred())
				var snap nbody.Snapshot
				for i := 0; i < 20; i++ {
					snap = e.Advance(start.Add(time.Duration(i)*16*time.Millisecond), size)
				}
				return snap.Clone()
			}
			Expect(run(1)).To(Equal(run(6)))
		})
	})
})
