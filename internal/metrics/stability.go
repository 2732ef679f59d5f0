package metrics

import (
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
)

// Stability is the fraction of steps whose position lies within radius of
// center.
type Stability struct {
	name       string
	center     dynamo.Vec
	radius     float64
	violations int
	samples    int
}

func NewStability(center dynamo.Vec, radius float64) *Stability {
	return &Stability{
		name:   "stability",
		center: center,
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(rec sim.StepRecord) {
	s.samples++
	pos, _, err := rec.State.Split(s.center.Dim())
	if err != nil || pos.Sub(s.center).Norm() > s.radius {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
