package integrators

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Euler is the explicit forward Euler rule x(t+dt) = x(t) + dt·ẋ(t).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

// Step returns x + dt·dx as a new state. x is not modified.
func (e *Euler) Step(x, dx dynamo.State, dt float64) (dynamo.State, error) {
	if len(x) != len(dx) {
		return nil, errors.Wrapf(dynamo.ErrDimensionMismatch, "state has %d components, derivative %d", len(x), len(dx))
	}
	result := make(dynamo.State, len(x))
	floats.AddScaledTo(result, x, dt, dx)
	return result, nil
}
