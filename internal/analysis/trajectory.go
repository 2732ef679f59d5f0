package analysis

import (
	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// ExitedBox returns the first step whose position has a coordinate
// outside [lo, hi], or -1 when the trajectory stays inside.
func ExitedBox(states []dynamo.State, d dynamo.Dim, lo, hi float64) (int, error) {
	for i, s := range states {
		pos, _, err := s.Split(d)
		if err != nil {
			return -1, errors.Wrapf(err, "state %d", i)
		}
		for _, x := range pos.Components() {
			if x < lo || x > hi {
				return i, nil
			}
		}
	}
	return -1, nil
}

// EquilibriumError returns ‖pos - target‖ for every state.
func EquilibriumError(states []dynamo.State, target dynamo.Vec) ([]float64, error) {
	out := make([]float64, len(states))
	for i, s := range states {
		pos, _, err := s.Split(target.Dim())
		if err != nil {
			return nil, errors.Wrapf(err, "state %d", i)
		}
		out[i] = pos.Sub(target).Norm()
	}
	return out, nil
}
