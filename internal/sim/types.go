package sim

import (
	"github.com/san-kum/cablesim/internal/dynamo"
)

// Config fixes the length and resolution of a run.
type Config struct {
	Steps int
	Dt    float64
}

// Phase is the lifecycle position of a Simulator.
type Phase int

const (
	Initialized Phase = iota
	Stepping
	Completed
)

func (p Phase) String() string {
	switch p {
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// StepRecord describes one pass of the step pipeline. State and the maps
// are evaluated at the start of the step; Next is the state it produced.
type StepRecord struct {
	Step     int
	Time     float64
	State    dynamo.State
	Next     dynamo.State
	Forces   map[string]float64
	Controls map[string]float64
	Lengths  map[string]float64
}

// Metric accumulates a scalar over the steps of a run.
type Metric interface {
	Name() string
	Observe(rec StepRecord)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(rec StepRecord)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(rec StepRecord)

func (f ObserverFunc) OnStep(rec StepRecord) { f(rec) }

// Result holds the histories of a completed run. States has one entry more
// than Forces and Controls: States[0] is the initial condition.
type Result struct {
	Dim      dynamo.Dim
	Tags     []string
	States   []dynamo.State
	Forces   []map[string]float64
	Controls []map[string]float64
	Times    []float64
	Metrics  map[string]float64
}

// Final returns the last recorded state.
func (r *Result) Final() dynamo.State {
	return r.States[len(r.States)-1]
}

// ForceSeries returns the scalar force history of one cable.
func (r *Result) ForceSeries(tag string) []float64 {
	out := make([]float64, len(r.Forces))
	for i, f := range r.Forces {
		out[i] = f[tag]
	}
	return out
}

// Coordinate returns component i of every recorded state. Indices below
// Dim are positions, the rest velocities.
func (r *Result) Coordinate(i int) []float64 {
	out := make([]float64, len(r.States))
	for j, s := range r.States {
		out[j] = s[i]
	}
	return out
}
