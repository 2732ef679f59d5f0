package control

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Controller maps a measured cable length to a commanded rest length.
// Implementations hold no state between calls.
type Controller interface {
	Control(length float64) float64
	Name() string
	GetParams() map[string]float64
}

// Type names used in experiment files.
const (
	TypeOpenLoop = "open_loop"
	TypeAffine   = "affine"
)

// FromParams builds a controller of the named type from its constants.
func FromParams(typ string, params map[string]float64) (Controller, error) {
	get := func(key string) (float64, error) {
		v, ok := params[key]
		if !ok {
			return 0, errors.Wrapf(dynamo.ErrMissingParam, "%s controller: %s", typ, key)
		}
		return v, nil
	}

	switch typ {
	case TypeOpenLoop:
		barV, err := get("bar_v")
		if err != nil {
			return nil, err
		}
		return NewOpenLoop(barV), nil
	case TypeAffine:
		var vals [3]float64
		for i, key := range []string{"kappa", "bar_ell", "bar_v"} {
			v, err := get(key)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return NewAffineFeedback(vals[0], vals[1], vals[2]), nil
	default:
		return nil, errors.Errorf("unknown controller type %q (want one of %v)", typ, Types())
	}
}

// Types lists the controller type names.
func Types() []string {
	t := []string{TypeOpenLoop, TypeAffine}
	sort.Strings(t)
	return t
}
