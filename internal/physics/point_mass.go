package physics

import (
	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
)

const (
	DefaultMass    = 1.0
	DefaultGravity = 9.8
)

// GravityConvention selects which axis gravity acts along.
type GravityConvention int

const (
	// GravitySecondAxis subtracts g from axis index 1 when d >= 2 and applies
	// no gravity in 1D. Used by the dimension-polymorphic body model.
	GravitySecondAxis GravityConvention = iota
	// GravityLastAxis subtracts g from axis index 2 (Z). Used by the 3D body
	// model only.
	GravityLastAxis
)

func (c GravityConvention) String() string {
	switch c {
	case GravitySecondAxis:
		return "point_mass"
	case GravityLastAxis:
		return "point_mass_3d"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of a point mass's extrinsic state.
type Snapshot struct {
	Pos dynamo.Vec
	Vel dynamo.Vec
}

// PointMass is a single body acted on by external forces and gravity.
// g is a magnitude; gravity always pulls in the negative direction of its
// axis.
type PointMass struct {
	m          float64
	g          float64
	pos        dynamo.Vec
	vel        dynamo.Vec
	convention GravityConvention
}

// NewPointMass builds the dimension-polymorphic body model. Gravity acts
// along axis index 1 for 2D and 3D bodies.
func NewPointMass(m, g float64, pos, vel dynamo.Vec) (*PointMass, error) {
	return newPointMass(m, g, pos, vel, GravitySecondAxis)
}

// NewPointMass3D builds the 3D body model. Gravity acts along Z.
func NewPointMass3D(m, g float64, pos, vel dynamo.Vec) (*PointMass, error) {
	if pos.Dim() != dynamo.Dim3 {
		return nil, errors.Wrapf(dynamo.ErrDimensionMismatch, "3D point mass needs a 3D position, got %v", pos.Dim())
	}
	return newPointMass(m, g, pos, vel, GravityLastAxis)
}

func newPointMass(m, g float64, pos, vel dynamo.Vec, c GravityConvention) (*PointMass, error) {
	if m <= 0 {
		return nil, errors.Wrapf(dynamo.ErrParameterBounds, "mass must be positive, got %g", m)
	}
	if g < 0 {
		return nil, errors.Wrapf(dynamo.ErrParameterBounds, "gravity is a magnitude, got %g", g)
	}
	if !pos.Dim().Valid() {
		return nil, errors.Wrap(dynamo.ErrDimensionMismatch, "position has no dimension")
	}
	if pos.Dim() != vel.Dim() {
		return nil, errors.Wrapf(dynamo.ErrDimensionMismatch, "position is %v, velocity is %v", pos.Dim(), vel.Dim())
	}
	return &PointMass{m: m, g: g, pos: pos, vel: vel, convention: c}, nil
}

func (p *PointMass) Dim() dynamo.Dim               { return p.pos.Dim() }
func (p *PointMass) Mass() float64                 { return p.m }
func (p *PointMass) Gravity() float64              { return p.g }
func (p *PointMass) Pos() dynamo.Vec               { return p.pos }
func (p *PointMass) Vel() dynamo.Vec               { return p.vel }
func (p *PointMass) Convention() GravityConvention { return p.convention }
func (p *PointMass) Snapshot() Snapshot            { return Snapshot{Pos: p.pos, Vel: p.vel} }

// State returns the concatenation [pos, vel].
func (p *PointMass) State() dynamo.State {
	s, _ := dynamo.Join(p.pos, p.vel)
	return s
}

// GravityAxis returns the index of the axis gravity acts along, or -1 when
// the body has no gravity axis.
func (p *PointMass) GravityAxis() int {
	switch p.convention {
	case GravityLastAxis:
		return 2
	default:
		if p.Dim() >= dynamo.Dim2 {
			return 1
		}
		return -1
	}
}

// SetState writes [pos, vel]. The state must have length 2d.
func (p *PointMass) SetState(s dynamo.State) error {
	pos, vel, err := s.Split(p.Dim())
	if err != nil {
		return err
	}
	p.pos, p.vel = pos, vel
	return nil
}

// SumForces adds the forces elementwise. Gravity is not part of the list;
// the body applies it in CalculateAccel.
func (p *PointMass) SumForces(forces []dynamo.Vec) (dynamo.Vec, error) {
	sum := dynamo.Zero(p.Dim())
	for i, f := range forces {
		if f.Dim() != p.Dim() {
			return dynamo.Vec{}, errors.Wrapf(dynamo.ErrDimensionMismatch, "force %d is %v, body is %v", i, f.Dim(), p.Dim())
		}
		sum = sum.Add(f)
	}
	return sum, nil
}

// CalculateAccel returns (1/m) sum(F) - g e_axis.
func (p *PointMass) CalculateAccel(forces []dynamo.Vec) (dynamo.Vec, error) {
	sum, err := p.SumForces(forces)
	if err != nil {
		return dynamo.Vec{}, err
	}
	accel := sum.Scale(1 / p.m)
	if axis := p.GravityAxis(); axis >= 0 {
		accel = accel.With(axis, accel.At(axis)-p.g)
	}
	return accel, nil
}

// StateDeriv returns [vel, accel], the right-hand side of x' = f(x, forces).
func (p *PointMass) StateDeriv(forces []dynamo.Vec) (dynamo.State, error) {
	return p.DerivAt(p.Snapshot(), forces)
}

// DerivAt evaluates the state derivative at an explicit snapshot instead of
// the stored state.
func (p *PointMass) DerivAt(snap Snapshot, forces []dynamo.Vec) (dynamo.State, error) {
	accel, err := p.CalculateAccel(forces)
	if err != nil {
		return nil, err
	}
	return dynamo.Join(snap.Vel, accel)
}

// KineticEnergy returns ½ m |v|².
func (p *PointMass) KineticEnergy(vel dynamo.Vec) float64 {
	return 0.5 * p.m * vel.Dot(vel)
}

// GravityPotential returns m g h for the height along the gravity axis.
func (p *PointMass) GravityPotential(pos dynamo.Vec) float64 {
	axis := p.GravityAxis()
	if axis < 0 {
		return 0
	}
	return p.m * p.g * pos.At(axis)
}
