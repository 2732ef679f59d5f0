package config

import (
	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/cable"
	"github.com/san-kum/cablesim/internal/control"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/physics"
	"github.com/san-kum/cablesim/internal/sim"
)

// Experiment is a validated configuration turned into core objects. Each
// call to Build returns a fresh body, so experiments are never shared
// between runs.
type Experiment struct {
	Name        string
	Body        *physics.PointMass
	Cables      map[string]*cable.Cable
	Controllers map[string]control.Controller
	Sim         sim.Config
	Config      *Config
}

// Build validates the configuration and constructs the body, cables and
// controllers.
func (c *Config) Build() (*Experiment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	body, err := c.Body.build()
	if err != nil {
		return nil, err
	}

	exp := &Experiment{
		Name:        c.Name,
		Body:        body,
		Cables:      make(map[string]*cable.Cable, len(c.Cables)),
		Controllers: make(map[string]control.Controller, len(c.Cables)),
		Sim:         sim.Config{Steps: c.Steps, Dt: c.Dt},
		Config:      c,
	}
	for _, cc := range c.Cables {
		law, err := cable.ParseLaw(cc.Law)
		if err != nil {
			return nil, err
		}
		anchor, err := dynamo.NewVec(cc.Anchor...)
		if err != nil {
			return nil, errors.Wrapf(err, "cable %q anchor", cc.Tag)
		}
		cb, err := cable.NewFromMap(law, cc.Params, anchor)
		if err != nil {
			return nil, errors.Wrapf(err, "cable %q", cc.Tag)
		}
		ctrl, err := control.FromParams(cc.Controller.Type, cc.Controller.Params)
		if err != nil {
			return nil, errors.Wrapf(err, "cable %q", cc.Tag)
		}
		exp.Cables[cc.Tag] = cb
		exp.Controllers[cc.Tag] = ctrl
	}
	return exp, nil
}

func (b BodyConfig) build() (*physics.PointMass, error) {
	pos, err := dynamo.NewVec(b.InitialPos...)
	if err != nil {
		return nil, errors.Wrap(err, "initial_pos")
	}
	vel, err := dynamo.NewVec(b.InitialVel...)
	if err != nil {
		return nil, errors.Wrap(err, "initial_vel")
	}
	if b.Model == ModelPointMass3D {
		return physics.NewPointMass3D(b.Mass, b.Gravity, pos, vel)
	}
	return physics.NewPointMass(b.Mass, b.Gravity, pos, vel)
}

// Options returns the simulator options the configuration asks for.
func (c *Config) Options() []sim.Option {
	return []sim.Option{
		sim.WithParallel(c.Parallel),
		sim.WithValidateState(c.ValidateState),
	}
}

// Simulator builds a simulator for the experiment. Extra options are
// applied after the configured ones.
func (e *Experiment) Simulator(opts ...sim.Option) (*sim.Simulator, error) {
	all := append(e.Config.Options(), opts...)
	return sim.New(e.Body, e.Cables, e.Controllers, e.Sim, all...)
}

// Builder turns a configuration into a ready simulator. Callers use it to
// attach metrics and observers.
type Builder func(cfg *Config) (*sim.Simulator, error)

// NewSimulator builds the experiment and its simulator in one step.
func (c *Config) NewSimulator(opts ...sim.Option) (*sim.Simulator, error) {
	exp, err := c.Build()
	if err != nil {
		return nil, err
	}
	return exp.Simulator(opts...)
}
