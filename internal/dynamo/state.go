package dynamo

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// State is the concatenation [pos, vel] of a point mass, length 2d.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

// Add returns s + other. Lengths must match.
func (s State) Add(other State) State {
	result := make(State, len(s))
	floats.AddTo(result, s, other)
	return result
}

// Sub returns s - other. Lengths must match.
func (s State) Sub(other State) State {
	result := make(State, len(s))
	floats.SubTo(result, s, other)
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

// Dim returns d for a state of length 2d.
func (s State) Dim() Dim {
	return Dim(len(s) / 2)
}

// Split partitions the state into position and velocity vectors of
// dimension d.
func (s State) Split(d Dim) (pos, vel Vec, err error) {
	if !d.Valid() || len(s) != 2*int(d) {
		return Vec{}, Vec{}, errors.Wrapf(ErrDimensionMismatch, "state of length %d cannot split into two %d-vectors", len(s), d)
	}
	pos, _ = NewVec(s[:d]...)
	vel, _ = NewVec(s[d:]...)
	return pos, vel, nil
}

// Join builds the state [pos, vel]. Both vectors must share a dimension.
func Join(pos, vel Vec) (State, error) {
	if pos.Dim() != vel.Dim() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "position is %dD, velocity is %dD", pos.Dim(), vel.Dim())
	}
	s := make(State, 0, 2*int(pos.Dim()))
	s = append(s, pos.Components()...)
	s = append(s, vel.Components()...)
	return s, nil
}
