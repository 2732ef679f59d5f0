package analysis

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/cable"
	"github.com/san-kum/cablesim/internal/control"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/physics"
)

// LyapunovHistory evaluates the closed-loop energy candidate
//
//	V = ½m|v|² + m g h + Σ k/(2(1-κ))·s²
//
// at every state. Each cable must use the piecewise 3D law and be paired
// with an affine feedback controller. A slack cable at any state makes the
// whole history undefined and returns ErrSlackCable.
func LyapunovHistory(
	states []dynamo.State,
	body *physics.PointMass,
	cables map[string]*cable.Cable,
	controllers map[string]control.Controller,
) ([]float64, error) {
	tags := make([]string, 0, len(cables))
	gains := make(map[string]*control.AffineFeedback, len(cables))
	for tag := range cables {
		affine, ok := controllers[tag].(*control.AffineFeedback)
		if !ok {
			return nil, errors.Wrapf(dynamo.ErrUnsupportedLaw, "cable %q needs an affine controller", tag)
		}
		gains[tag] = affine
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	out := make([]float64, len(states))
	for i, s := range states {
		pos, vel, err := s.Split(body.Dim())
		if err != nil {
			return nil, errors.Wrapf(err, "state %d", i)
		}
		v := body.KineticEnergy(vel) + body.GravityPotential(pos)
		for _, tag := range tags {
			c := cables[tag]
			length, err := c.Length(pos)
			if err != nil {
				return nil, errors.Wrapf(err, "state %d cable %q", i, tag)
			}
			g := gains[tag]
			u, err := c.ClosedLoopPotential(length, g.Kappa, g.BarEll, g.BarV)
			if err != nil {
				return nil, errors.Wrapf(err, "state %d cable %q", i, tag)
			}
			v += u
		}
		out[i] = v
	}
	return out, nil
}

// Increases returns the steps i where v[i+1] exceeds v[i] by more than tol.
func Increases(v []float64, tol float64) []int {
	var out []int
	for i := 0; i+1 < len(v); i++ {
		if v[i+1]-v[i] > tol {
			out = append(out, i)
		}
	}
	return out
}
