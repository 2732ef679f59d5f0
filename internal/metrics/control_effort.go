package metrics

import (
	"math"

	"github.com/san-kum/cablesim/internal/sim"
)

// ControlEffort is the mean over steps of Σ|u - ℓ|, the total distance
// between each cable's commanded rest length and its measured length.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(rec sim.StepRecord) {
	for tag, u := range rec.Controls {
		c.sum += math.Abs(u - rec.Lengths[tag])
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
