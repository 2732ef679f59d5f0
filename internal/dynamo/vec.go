package dynamo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Dim is the number of spatial coordinates of a vector.
type Dim int

const (
	Dim1 Dim = 1
	Dim2 Dim = 2
	Dim3 Dim = 3
)

func (d Dim) Valid() bool {
	return d >= Dim1 && d <= Dim3
}

func (d Dim) String() string {
	return fmt.Sprintf("%dD", int(d))
}

// Vec is a real vector of dimension 1, 2 or 3. Unused trailing components
// are always zero.
type Vec struct {
	v   r3.Vector
	dim Dim
}

// NewVec builds a vector from one to three components.
func NewVec(xs ...float64) (Vec, error) {
	d := Dim(len(xs))
	if !d.Valid() {
		return Vec{}, errors.Wrapf(ErrDimensionMismatch, "vector needs 1 to 3 components, got %d", len(xs))
	}
	var v r3.Vector
	v.X = xs[0]
	if d >= Dim2 {
		v.Y = xs[1]
	}
	if d == Dim3 {
		v.Z = xs[2]
	}
	return Vec{v: v, dim: d}, nil
}

// MustVec is like NewVec but panics on a bad component count.
func MustVec(xs ...float64) Vec {
	v, err := NewVec(xs...)
	if err != nil {
		panic(err)
	}
	return v
}

// Zero returns the zero vector of dimension d.
func Zero(d Dim) Vec {
	if !d.Valid() {
		panic(errors.Wrapf(ErrDimensionMismatch, "invalid dimension %d", d))
	}
	return Vec{dim: d}
}

// FromR3 wraps a 3D vector.
func FromR3(v r3.Vector) Vec {
	return Vec{v: v, dim: Dim3}
}

func (a Vec) Dim() Dim { return a.dim }

// R3 returns the components padded to three dimensions.
func (a Vec) R3() r3.Vector { return a.v }

// At returns component i.
func (a Vec) At(i int) float64 {
	if i < 0 || i >= int(a.dim) {
		panic(fmt.Sprintf("dynamo: index %d out of range for %v vector", i, a.dim))
	}
	switch i {
	case 0:
		return a.v.X
	case 1:
		return a.v.Y
	default:
		return a.v.Z
	}
}

// With returns a copy of a with component i set to x.
func (a Vec) With(i int, x float64) Vec {
	if i < 0 || i >= int(a.dim) {
		panic(fmt.Sprintf("dynamo: index %d out of range for %v vector", i, a.dim))
	}
	switch i {
	case 0:
		a.v.X = x
	case 1:
		a.v.Y = x
	default:
		a.v.Z = x
	}
	return a
}

func (a Vec) Components() []float64 {
	out := []float64{a.v.X, a.v.Y, a.v.Z}
	return out[:a.dim]
}

func (a Vec) mustMatch(b Vec) {
	if a.dim != b.dim {
		panic(errors.Wrapf(ErrDimensionMismatch, "%v vs %v", a.dim, b.dim))
	}
}

func (a Vec) Add(b Vec) Vec {
	a.mustMatch(b)
	return Vec{v: a.v.Add(b.v), dim: a.dim}
}

func (a Vec) Sub(b Vec) Vec {
	a.mustMatch(b)
	return Vec{v: a.v.Sub(b.v), dim: a.dim}
}

func (a Vec) Scale(f float64) Vec {
	return Vec{v: a.v.Mul(f), dim: a.dim}.masked()
}

// masked zeroes the padding axes, which Mul turns into NaN for infinite f.
func (a Vec) masked() Vec {
	if a.dim < Dim3 {
		a.v.Z = 0
	}
	if a.dim < Dim2 {
		a.v.Y = 0
	}
	return a
}

func (a Vec) Neg() Vec {
	return a.Scale(-1)
}

func (a Vec) Dot(b Vec) float64 {
	a.mustMatch(b)
	return a.v.Dot(b.v)
}

func (a Vec) Norm() float64 {
	return a.v.Norm()
}

func (a Vec) IsFinite() bool {
	for _, x := range a.Components() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (a Vec) String() string {
	return fmt.Sprintf("%v", a.Components())
}
