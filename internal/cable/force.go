package cable

import (
	"github.com/san-kum/cablesim/internal/dynamo"
)

// ScalarForce is the signed tension for a given length, length rate and
// commanded rest length. Positive means the cable pulls the point toward
// the anchor. Rectified laws take the non-negative branch at exactly zero.
func (c *Cable) ScalarForce(length, rate, control float64) float64 {
	fs := c.params.K * (length - control)
	fd := c.params.C * rate

	switch c.law {
	case HybridLinear, PiecewiseLinear3D:
		if f := fs + fd; f >= 0 {
			return f
		}
		return 0
	case HybridSplitLinear:
		if fs < 0 {
			return 0
		}
		if fd < 0 {
			return fs
		}
		return fs + fd
	default:
		return fs + fd
	}
}

// ConservativeForce is the scalar force with the damping term removed.
func (c *Cable) ConservativeForce(length, control float64) float64 {
	return c.ScalarForce(length, 0, control)
}

// VectorForce returns ScalarForce along UnitDirection(p). The vector points
// away from the anchor; the point mass feels its negation.
func (c *Cable) VectorForce(p, v dynamo.Vec, control float64) (dynamo.Vec, error) {
	s, err := c.Evaluate(p, v, control)
	if err != nil {
		return dynamo.Vec{}, err
	}
	return s.Vector, nil
}

// Sample is every per-cable quantity of one evaluation.
type Sample struct {
	Length     float64
	LengthRate float64
	Control    float64
	Force      float64
	Vector     dynamo.Vec
}

// Slack reports whether the force is at or below bound.
func (s Sample) Slack(bound float64) bool {
	return s.Force <= bound
}

// Evaluate computes the geometry once and returns the full sample.
func (c *Cable) Evaluate(p, v dynamo.Vec, control float64) (Sample, error) {
	if err := c.check(p, v); err != nil {
		return Sample{}, err
	}
	unit, length, err := c.direction(p)
	if err != nil {
		return Sample{}, err
	}
	rate := v.Dot(unit)
	f := c.ScalarForce(length, rate, control)
	return Sample{
		Length:     length,
		LengthRate: rate,
		Control:    control,
		Force:      f,
		Vector:     unit.Scale(f),
	}, nil
}
