package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/physics"
	"github.com/san-kum/cablesim/internal/sim"
)

func record(state dynamo.State, forces, controls, lengths map[string]float64) sim.StepRecord {
	return sim.StepRecord{State: state, Forces: forces, Controls: controls, Lengths: lengths}
}

func TestSlackFraction(t *testing.T) {
	m := NewSlackFraction(DefaultSlackBound)
	m.Observe(record(nil, map[string]float64{"a": 0, "b": 3}, nil, nil))
	m.Observe(record(nil, map[string]float64{"a": 1e-12, "b": 2}, nil, nil))

	if got := m.Value(); got != 0.5 {
		t.Errorf("Value() = %f, want 0.5", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestTensionExtremes(t *testing.T) {
	minT := NewMinTension()
	peak := NewPeakTension()

	if !math.IsNaN(minT.Value()) {
		t.Errorf("MinTension before observation = %f, want NaN", minT.Value())
	}

	for _, f := range []map[string]float64{
		{"a": 4, "b": 2},
		{"a": -1, "b": 7},
	} {
		rec := record(nil, f, nil, nil)
		minT.Observe(rec)
		peak.Observe(rec)
	}

	if minT.Value() != -1 {
		t.Errorf("MinTension = %f, want -1", minT.Value())
	}
	if peak.Value() != 7 {
		t.Errorf("PeakTension = %f, want 7", peak.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(record(nil, nil,
		map[string]float64{"a": 1, "b": 2},
		map[string]float64{"a": 1.5, "b": 1},
	))
	m.Observe(record(nil, nil,
		map[string]float64{"a": 1, "b": 2},
		map[string]float64{"a": 1, "b": 2},
	))

	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Value() = %f, want 0.75", got)
	}
}

func TestStability(t *testing.T) {
	m := NewStability(dynamo.MustVec(0, 0), 1)

	m.Observe(record(dynamo.State{0.5, 0.5, 10, 10}, nil, nil, nil))
	m.Observe(record(dynamo.State{3, 0, 0, 0}, nil, nil, nil))

	if got := m.Value(); got != 0.5 {
		t.Errorf("Value() = %f, want 0.5", got)
	}
}

func TestEnergy(t *testing.T) {
	body, err := physics.NewPointMass3D(2, 10, dynamo.MustVec(0, 0, 0), dynamo.MustVec(0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}

	e := NewEnergy(body)
	drift := NewEnergyDrift(body)

	// KE = 1, PE = 20 then KE = 4, PE = 0.
	for _, s := range []dynamo.State{
		{0, 0, 1, 1, 0, 0},
		{0, 0, 0, 2, 0, 0},
	} {
		rec := record(s, nil, nil, nil)
		e.Observe(rec)
		drift.Observe(rec)
	}

	if got := e.Value(); got != 12.5 {
		t.Errorf("Energy = %f, want 12.5", got)
	}
	if got := drift.Value(); math.Abs(got-17.0/21.0) > 1e-12 {
		t.Errorf("EnergyDrift = %f, want %f", got, 17.0/21.0)
	}

	e.Reset()
	if e.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}
