package metrics

import (
	"math"

	"github.com/san-kum/cablesim/internal/sim"
)

// DefaultSlackBound is the force at or below which a cable counts as slack.
const DefaultSlackBound = 1e-10

// SlackFraction is the fraction of cable-steps in which the cable was
// slack.
type SlackFraction struct {
	name  string
	bound float64
	slack int
	total int
}

func NewSlackFraction(bound float64) *SlackFraction {
	return &SlackFraction{
		name:  "slack_fraction",
		bound: bound,
	}
}

func (s *SlackFraction) Name() string { return s.name }

func (s *SlackFraction) Observe(rec sim.StepRecord) {
	for _, f := range rec.Forces {
		if f <= s.bound {
			s.slack++
		}
		s.total++
	}
}

func (s *SlackFraction) Value() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.slack) / float64(s.total)
}

func (s *SlackFraction) Reset() {
	s.slack = 0
	s.total = 0
}

// MinTension is the smallest scalar force seen on any cable.
type MinTension struct {
	name string
	min  float64
	seen bool
}

func NewMinTension() *MinTension {
	return &MinTension{name: "min_tension"}
}

func (m *MinTension) Name() string { return m.name }

func (m *MinTension) Observe(rec sim.StepRecord) {
	for _, f := range rec.Forces {
		if !m.seen || f < m.min {
			m.min = f
			m.seen = true
		}
	}
}

func (m *MinTension) Value() float64 {
	if !m.seen {
		return math.NaN()
	}
	return m.min
}

func (m *MinTension) Reset() {
	m.min = 0
	m.seen = false
}

// PeakTension is the largest scalar force seen on any cable.
type PeakTension struct {
	name string
	max  float64
}

func NewPeakTension() *PeakTension {
	return &PeakTension{name: "peak_tension"}
}

func (p *PeakTension) Name() string { return p.name }

func (p *PeakTension) Observe(rec sim.StepRecord) {
	for _, f := range rec.Forces {
		p.max = math.Max(p.max, f)
	}
}

func (p *PeakTension) Value() float64 { return p.max }

func (p *PeakTension) Reset() { p.max = 0 }
