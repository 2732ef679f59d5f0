package cable

import (
	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Length returns ‖p - anchor‖.
func (c *Cable) Length(p dynamo.Vec) (float64, error) {
	if err := c.check(p); err != nil {
		return 0, err
	}
	return p.Sub(c.anchor).Norm(), nil
}

// UnitDirection returns (p - anchor)/‖p - anchor‖, pointing from the
// anchor to the moving point. It fails with ErrDegenerateGeometry when the
// two coincide.
func (c *Cable) UnitDirection(p dynamo.Vec) (dynamo.Vec, error) {
	if err := c.check(p); err != nil {
		return dynamo.Vec{}, err
	}
	unit, _, err := c.direction(p)
	return unit, err
}

// LengthRate returns v · UnitDirection(p), the rate of change of length.
func (c *Cable) LengthRate(p, v dynamo.Vec) (float64, error) {
	if err := c.check(p, v); err != nil {
		return 0, err
	}
	unit, _, err := c.direction(p)
	if err != nil {
		return 0, err
	}
	return v.Dot(unit), nil
}

func (c *Cable) direction(p dynamo.Vec) (dynamo.Vec, float64, error) {
	d := p.Sub(c.anchor)
	length := d.Norm()
	if length == 0 {
		return dynamo.Vec{}, 0, errors.Wrapf(dynamo.ErrDegenerateGeometry, "point %v on anchor", p)
	}
	return d.Scale(1 / length), length, nil
}
