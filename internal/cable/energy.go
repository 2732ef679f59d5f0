package cable

import (
	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// The energy helpers are analysis utilities for the rectified 3D law. The
// closed-loop form assumes an affine controller u = κ(ℓ-ℓ̄)+v̄ is in effect
// and has not been checked against a passivity proof.

func (c *Cable) energyLaw() error {
	if c.law != PiecewiseLinear3D {
		return errors.Wrapf(dynamo.ErrUnsupportedLaw, "energy helpers need %v, cable is %v", PiecewiseLinear3D, c.law)
	}
	return nil
}

// PotentialEnergy returns ½k·stretch². The stretch must be positive.
func (c *Cable) PotentialEnergy(stretch float64) (float64, error) {
	if err := c.energyLaw(); err != nil {
		return 0, err
	}
	if !(stretch > 0) {
		return 0, errors.Wrapf(dynamo.ErrSlackCable, "stretch %g", stretch)
	}
	return 0.5 * c.params.K * stretch * stretch, nil
}

// ClosedLoopStretch returns ℓ - (κ(ℓ-ℓ̄) + v̄).
func ClosedLoopStretch(length, kappa, barEll, barV float64) float64 {
	return length - (kappa*(length-barEll) + barV)
}

// ClosedLoopPotential returns k/(2(1-κ)) · s² for the closed-loop stretch s.
func (c *Cable) ClosedLoopPotential(length, kappa, barEll, barV float64) (float64, error) {
	if err := c.energyLaw(); err != nil {
		return 0, err
	}
	if kappa == 1 {
		return 0, errors.Wrap(dynamo.ErrParameterBounds, "closed-loop potential undefined for kappa=1")
	}
	s := ClosedLoopStretch(length, kappa, barEll, barV)
	if !(s > 0) {
		return 0, errors.Wrapf(dynamo.ErrSlackCable, "closed-loop stretch %g", s)
	}
	return c.params.K / (2 * (1 - kappa)) * s * s, nil
}
