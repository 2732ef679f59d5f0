package dynamo

import (
	"fmt"

	"github.com/pkg/errors"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrMissingParam indicates a required named coefficient was not supplied.
	ErrMissingParam = errors.New("dynamo: missing required parameter")

	// ErrDimensionMismatch indicates vectors or states of incompatible dimension.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrDegenerateGeometry indicates a zero-length cable, where the unit
	// direction is undefined.
	ErrDegenerateGeometry = errors.New("dynamo: degenerate geometry (zero cable length)")

	// ErrSlackCable indicates an energy quantity requested for a cable whose
	// stretch is not positive.
	ErrSlackCable = errors.New("dynamo: undefined for slack cable (stretch <= 0)")

	// ErrUnsupportedLaw indicates an operation the cable's force law does not provide.
	ErrUnsupportedLaw = errors.New("dynamo: operation not supported by force law")

	// ErrUnknownTag indicates a cable or controller tag without a partner.
	ErrUnknownTag = errors.New("dynamo: unknown cable tag")

	// ErrCompleted indicates a step requested after the run finished.
	ErrCompleted = errors.New("dynamo: simulation already completed")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
