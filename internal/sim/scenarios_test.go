package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cablesim/internal/cable"
	"github.com/san-kum/cablesim/internal/control"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/physics"
	"github.com/san-kum/cablesim/internal/sim"
)

func maxAbsError(xs []float64, target float64) float64 {
	worst := 0.0
	for _, x := range xs {
		worst = math.Max(worst, math.Abs(x-target))
	}
	return worst
}

var _ = Describe("Simulator", func() {
	ctx := context.Background()

	Context("with one linear cable in 1D", func() {
		var result *sim.Result

		BeforeEach(func() {
			body, err := physics.NewPointMass(1, 0, dynamo.MustVec(1.5), dynamo.MustVec(0))
			Expect(err).NotTo(HaveOccurred())
			c, err := cable.New(cable.Linear, cable.Params{K: 1, C: 1}, dynamo.MustVec(2))
			Expect(err).NotTo(HaveOccurred())

			result, err = sim.Run(ctx, 500, 0.01, body,
				map[string]*cable.Cable{"x": c},
				map[string]control.Controller{"x": control.NewOpenLoop(0)},
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("records every step", func() {
			Expect(result.States).To(HaveLen(501))
			Expect(result.Forces).To(HaveLen(500))
			Expect(result.States[0]).To(Equal(dynamo.State{1.5, 0}))
		})

		It("settles near the anchor", func() {
			x := result.Coordinate(0)
			Expect(math.Abs(x[500] - 2)).To(BeNumerically("<", 0.1))
			Expect(maxAbsError(x[400:], 2)).To(BeNumerically("<", maxAbsError(x[:101], 2)))
		})

		It("damps the velocity", func() {
			v := result.Coordinate(1)
			Expect(math.Abs(v[500])).To(BeNumerically("<", 0.1))
		})
	})

	Context("with a hybrid split cable going slack", func() {
		It("produces zero force while the length is below the rest length", func() {
			body, err := physics.NewPointMass(1, 0, dynamo.MustVec(1, 0.3), dynamo.MustVec(-2, 0))
			Expect(err).NotTo(HaveOccurred())
			c, err := cable.New(cable.HybridSplitLinear, cable.Params{K: 10, C: 1}, dynamo.MustVec(0, 0))
			Expect(err).NotTo(HaveOccurred())

			s, err := sim.New(body,
				map[string]*cable.Cable{"a": c},
				map[string]control.Controller{"a": control.NewOpenLoop(0.8)},
				sim.Config{Steps: 60, Dt: 0.01},
			)
			Expect(err).NotTo(HaveOccurred())

			slack := 0
			s.AddObserver(sim.ObserverFunc(func(rec sim.StepRecord) {
				if rec.Lengths["a"] < rec.Controls["a"] {
					slack++
					Expect(rec.Forces["a"]).To(BeZero())
				}
			}))

			_, err = s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(slack).To(BeNumerically(">", 10))
		})
	})

	Context("with four symmetric 3D cables", func() {
		var (
			body   *physics.PointMass
			cables map[string]*cable.Cable
		)

		BeforeEach(func() {
			var err error
			body, err = physics.NewPointMass3D(1, 0, dynamo.MustVec(0, 0, 0), dynamo.MustVec(0, 0, 0))
			Expect(err).NotTo(HaveOccurred())

			anchors := map[string]dynamo.Vec{
				"px": dynamo.MustVec(1, 0, 0),
				"nx": dynamo.MustVec(-1, 0, 0),
				"py": dynamo.MustVec(0, 1, 0),
				"ny": dynamo.MustVec(0, -1, 0),
			}
			cables = make(map[string]*cable.Cable)
			for tag, a := range anchors {
				cables[tag], err = cable.New(cable.PiecewiseLinear3D, cable.Params{K: 100, C: 5}, a)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		openLoop := func(u float64) map[string]control.Controller {
			ctrls := make(map[string]control.Controller)
			for tag := range cables {
				ctrls[tag] = control.NewOpenLoop(u)
			}
			return ctrls
		}

		It("stays at rest when commanded to the natural length", func() {
			s, err := sim.New(body, cables, openLoop(1), sim.Config{Steps: 1, Dt: 0.01})
			Expect(err).NotTo(HaveOccurred())

			rec, err := s.Step(ctx)
			Expect(err).NotTo(HaveOccurred())
			for i, x := range rec.Next {
				Expect(x).To(BeNumerically("~", rec.State[i], 1e-12))
			}
			for _, f := range rec.Forces {
				Expect(f).To(BeZero())
			}
		})

		It("stays at rest when the tensions cancel", func() {
			result, err := sim.Run(ctx, 10, 0.01, body, cables, openLoop(0.5), sim.WithParallel(true))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Final().Norm()).To(BeNumerically("<", 1e-12))
			Expect(result.Forces[0]).To(HaveKeyWithValue("px", BeNumerically("~", 50, 1e-12)))
		})
	})

	Context("after completion", func() {
		It("rejects further steps", func() {
			body, _ := physics.NewPointMass(1, 0, dynamo.MustVec(1), dynamo.MustVec(0))
			c, _ := cable.New(cable.Linear, cable.Params{K: 1, C: 1}, dynamo.MustVec(0))
			s, err := sim.New(body,
				map[string]*cable.Cable{"a": c},
				map[string]control.Controller{"a": control.NewOpenLoop(1)},
				sim.Config{Steps: 3, Dt: 0.1},
			)
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(sim.Completed))

			_, err = s.Step(ctx)
			Expect(err).To(MatchError(dynamo.ErrCompleted))
		})
	})
})
