package cable

import (
	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Cable is an elastic cable with one fixed anchor. The other endpoint is
// the moving point mass, whose position and velocity are passed to every
// query. A Cable is immutable after construction and safe for concurrent
// use.
type Cable struct {
	law    Law
	params Params
	anchor dynamo.Vec
}

// New builds a cable. PiecewiseLinear3D requires a 3D anchor.
func New(law Law, params Params, anchor dynamo.Vec) (*Cable, error) {
	if _, ok := lawNames[law]; !ok {
		return nil, errors.Wrapf(dynamo.ErrUnsupportedLaw, "law %d", int(law))
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !anchor.Dim().Valid() {
		return nil, errors.Wrap(dynamo.ErrDimensionMismatch, "anchor has no dimension")
	}
	if law == PiecewiseLinear3D && anchor.Dim() != dynamo.Dim3 {
		return nil, errors.Wrapf(dynamo.ErrDimensionMismatch, "%v cable needs a 3D anchor, got %v", law, anchor.Dim())
	}
	if !anchor.IsFinite() {
		return nil, errors.Wrapf(dynamo.ErrParameterBounds, "anchor %v", anchor)
	}
	return &Cable{law: law, params: params, anchor: anchor}, nil
}

// NewFromMap is New with coefficients read from a named record.
func NewFromMap(law Law, params map[string]float64, anchor dynamo.Vec) (*Cable, error) {
	p, err := ParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return New(law, p, anchor)
}

func (c *Cable) Law() Law           { return c.law }
func (c *Cable) Params() Params     { return c.params }
func (c *Cable) Anchor() dynamo.Vec { return c.anchor }
func (c *Cable) Dim() dynamo.Dim    { return c.anchor.Dim() }

func (c *Cable) check(vs ...dynamo.Vec) error {
	for _, v := range vs {
		if v.Dim() != c.anchor.Dim() {
			return errors.Wrapf(dynamo.ErrDimensionMismatch, "cable is %v, got %v vector", c.anchor.Dim(), v.Dim())
		}
	}
	return nil
}
