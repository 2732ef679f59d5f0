package metrics

import (
	"math"

	"github.com/san-kum/cablesim/internal/physics"
	"github.com/san-kum/cablesim/internal/sim"
)

// Energy is the mean mechanical energy of the body, kinetic plus gravity
// potential. Cable potential is left to the analysis package because it
// is undefined for slack cables.
type Energy struct {
	name    string
	body    *physics.PointMass
	total   float64
	samples int
}

func NewEnergy(body *physics.PointMass) *Energy {
	return &Energy{
		name: "energy",
		body: body,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(rec sim.StepRecord) {
	pos, vel, err := rec.State.Split(e.body.Dim())
	if err != nil {
		return
	}
	e.total += e.body.KineticEnergy(vel) + e.body.GravityPotential(pos)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of mechanical energy from the
// first observed step.
type EnergyDrift struct {
	name     string
	body     *physics.PointMass
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(body *physics.PointMass) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		body: body,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(rec sim.StepRecord) {
	pos, vel, err := rec.State.Split(e.body.Dim())
	if err != nil {
		return
	}
	energy := e.body.KineticEnergy(vel) + e.body.GravityPotential(pos)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
