package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/cablesim/internal/cable"
	"github.com/san-kum/cablesim/internal/control"
	"github.com/san-kum/cablesim/internal/dynamo"
)

// Validate reports every problem in the experiment at once.
func (c *Config) Validate() error {
	var err error

	if !(c.Dt > 0) {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrParameterBounds, "dt must be positive, got %g", c.Dt))
	}
	if c.Steps <= 0 {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrParameterBounds, "steps must be positive, got %d", c.Steps))
	}
	if c.SlackThreshold < 0 {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrParameterBounds, "slack_threshold must be non-negative, got %g", c.SlackThreshold))
	}

	dim, bodyErr := c.Body.validate()
	err = multierr.Append(err, bodyErr)

	if len(c.Target) > 0 && dim != 0 && len(c.Target) != int(dim) {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrDimensionMismatch, "target has %d components, body is %v", len(c.Target), dim))
	}
	if c.Bounds != nil && !(c.Bounds.Lo < c.Bounds.Hi) {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrParameterBounds, "bounds lo=%g must be below hi=%g", c.Bounds.Lo, c.Bounds.Hi))
	}

	if len(c.Cables) == 0 {
		err = multierr.Append(err, errors.Wrap(dynamo.ErrMissingParam, "at least one cable is required"))
	}
	seen := make(map[string]bool, len(c.Cables))
	for i, cc := range c.Cables {
		if cc.Tag == "" {
			err = multierr.Append(err, errors.Errorf("cable %d: empty tag", i))
		} else if seen[cc.Tag] {
			err = multierr.Append(err, errors.Errorf("cable %d: duplicate tag %q", i, cc.Tag))
		}
		seen[cc.Tag] = true
		err = multierr.Append(err, cc.validate(dim))
	}
	return err
}

func (b BodyConfig) validate() (dynamo.Dim, error) {
	var err error
	if !(b.Mass > 0) {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrParameterBounds, "body: mass must be positive, got %g", b.Mass))
	}
	if b.Gravity < 0 {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrParameterBounds, "body: gravity is a magnitude, got %g", b.Gravity))
	}

	dim := dynamo.Dim(len(b.InitialPos))
	if !dim.Valid() {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrDimensionMismatch, "body: initial_pos needs 1 to 3 components, got %d", len(b.InitialPos)))
		dim = 0
	} else if len(b.InitialVel) != len(b.InitialPos) {
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrDimensionMismatch, "body: initial_vel has %d components, initial_pos %d", len(b.InitialVel), len(b.InitialPos)))
	}

	switch b.Model {
	case ModelPointMass:
	case ModelPointMass3D:
		if dim != 0 && dim != dynamo.Dim3 {
			err = multierr.Append(err, errors.Wrapf(dynamo.ErrDimensionMismatch, "body: %s needs 3 components, got %d", b.Model, dim))
		}
	default:
		err = multierr.Append(err, errors.Errorf("body: unknown model %q", b.Model))
	}
	return dim, err
}

func (cc CableConfig) validate(dim dynamo.Dim) error {
	var err error
	law, lawErr := cable.ParseLaw(cc.Law)
	if lawErr != nil {
		err = multierr.Append(err, errors.Wrapf(lawErr, "cable %q", cc.Tag))
	}
	if _, pErr := cable.ParamsFromMap(cc.Params); pErr != nil {
		err = multierr.Append(err, errors.Wrapf(pErr, "cable %q", cc.Tag))
	}

	switch {
	case !dynamo.Dim(len(cc.Anchor)).Valid():
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrDimensionMismatch, "cable %q: anchor needs 1 to 3 components, got %d", cc.Tag, len(cc.Anchor)))
	case dim != 0 && len(cc.Anchor) != int(dim):
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrDimensionMismatch, "cable %q: anchor has %d components, body is %v", cc.Tag, len(cc.Anchor), dim))
	case lawErr == nil && law == cable.PiecewiseLinear3D && len(cc.Anchor) != 3:
		err = multierr.Append(err, errors.Wrapf(dynamo.ErrDimensionMismatch, "cable %q: %v needs a 3D anchor", cc.Tag, law))
	}

	if _, cErr := control.FromParams(cc.Controller.Type, cc.Controller.Params); cErr != nil {
		err = multierr.Append(err, errors.Wrapf(cErr, "cable %q", cc.Tag))
	}
	return err
}
