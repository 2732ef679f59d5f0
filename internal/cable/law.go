package cable

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Law selects the scalar force law of a cable.
type Law int

const (
	// Linear is the plain spring-damper k(ℓ-u) + cℓ̇. It may push.
	Linear Law = iota
	// HybridLinear rectifies the spring and damping sum as a whole.
	HybridLinear
	// HybridSplitLinear rectifies the spring and damping terms separately.
	HybridSplitLinear
	// PiecewiseLinear3D is the rectified 3D law with energy helpers.
	PiecewiseLinear3D
)

var lawNames = map[Law]string{
	Linear:            "linear",
	HybridLinear:      "hybrid_linear",
	HybridSplitLinear: "hybrid_split_linear",
	PiecewiseLinear3D: "piecewise_linear_3d",
}

func (l Law) String() string {
	if name, ok := lawNames[l]; ok {
		return name
	}
	return "unknown"
}

// Rectified reports whether the law clamps negative forces to zero.
func (l Law) Rectified() bool {
	return l != Linear
}

// ParseLaw resolves a law by its configuration name.
func ParseLaw(name string) (Law, error) {
	for l, n := range lawNames {
		if n == name {
			return l, nil
		}
	}
	return 0, errors.Wrapf(dynamo.ErrUnsupportedLaw, "unknown cable law %q", name)
}

// ListLaws returns the configuration names of all laws.
func ListLaws() []string {
	names := make([]string, 0, len(lawNames))
	for _, n := range lawNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Params holds the spring stiffness K and damping coefficient C.
type Params struct {
	K float64 `yaml:"k" json:"k"`
	C float64 `yaml:"c" json:"c"`
}

// Validate checks that both coefficients are finite and non-negative.
func (p Params) Validate() error {
	if !(p.K >= 0) || p.K > maxCoefficient {
		return errors.Wrapf(dynamo.ErrParameterBounds, "stiffness k=%g", p.K)
	}
	if !(p.C >= 0) || p.C > maxCoefficient {
		return errors.Wrapf(dynamo.ErrParameterBounds, "damping c=%g", p.C)
	}
	return nil
}

const maxCoefficient = 1e12

// ParamsFromMap reads k and c from a record of named coefficients. Extra
// entries are ignored.
func ParamsFromMap(m map[string]float64) (Params, error) {
	k, ok := m["k"]
	if !ok {
		return Params{}, errors.Wrap(dynamo.ErrMissingParam, "cable params: k")
	}
	c, ok := m["c"]
	if !ok {
		return Params{}, errors.Wrap(dynamo.ErrMissingParam, "cable params: c")
	}
	p := Params{K: k, C: c}
	return p, p.Validate()
}

// Map returns the coefficients as a named record.
func (p Params) Map() map[string]float64 {
	return map[string]float64{"k": p.K, "c": p.C}
}
