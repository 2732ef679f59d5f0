package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// SetParam sets one numeric field addressed by a dotted path:
//
//	dt, steps, slack_threshold
//	body.mass, body.gravity, body.pos.<i>, body.vel.<i>
//	<tag>.k, <tag>.c, <tag>.anchor.<i>
//	<tag>.<controller key>   e.g. A.kappa, x.bar_v
//
// The result is not validated; call Validate afterwards.
func (c *Config) SetParam(path string, v float64) error {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "dt":
		c.Dt = v
		return nil
	case "steps":
		c.Steps = int(v)
		return nil
	case "slack_threshold":
		c.SlackThreshold = v
		return nil
	case "body":
		return c.Body.setParam(parts[1:], v)
	}

	if len(parts) < 2 {
		return errors.Wrapf(dynamo.ErrMissingParam, "unknown parameter %q", path)
	}
	cc := c.cable(parts[0])
	if cc == nil {
		return errors.Wrapf(dynamo.ErrUnknownTag, "parameter %q", path)
	}
	switch key := parts[1]; {
	case key == "anchor":
		return setIndex(cc.Anchor, parts[2:], v, path)
	case key == "k" || key == "c":
		cc.Params = cloneMap(cc.Params)
		if cc.Params == nil {
			cc.Params = make(map[string]float64, 2)
		}
		cc.Params[key] = v
	case len(parts) == 2:
		cc.Controller.Params = cloneMap(cc.Controller.Params)
		if cc.Controller.Params == nil {
			cc.Controller.Params = make(map[string]float64, 3)
		}
		cc.Controller.Params[key] = v
	default:
		return errors.Wrapf(dynamo.ErrMissingParam, "unknown parameter %q", path)
	}
	return nil
}

func (b *BodyConfig) setParam(parts []string, v float64) error {
	path := "body." + strings.Join(parts, ".")
	if len(parts) == 0 {
		return errors.Wrapf(dynamo.ErrMissingParam, "unknown parameter %q", path)
	}
	switch parts[0] {
	case "mass":
		b.Mass = v
	case "gravity":
		b.Gravity = v
	case "pos":
		return setIndex(b.InitialPos, parts[1:], v, path)
	case "vel":
		return setIndex(b.InitialVel, parts[1:], v, path)
	default:
		return errors.Wrapf(dynamo.ErrMissingParam, "unknown parameter %q", path)
	}
	return nil
}

func setIndex(xs []float64, parts []string, v float64, path string) error {
	if len(parts) != 1 {
		return errors.Wrapf(dynamo.ErrMissingParam, "parameter %q needs an index", path)
	}
	i, err := strconv.Atoi(parts[0])
	if err != nil || i < 0 || i >= len(xs) {
		return errors.Wrapf(dynamo.ErrDimensionMismatch, "parameter %q: index out of range", path)
	}
	xs[i] = v
	return nil
}

func (c *Config) cable(tag string) *CableConfig {
	for i := range c.Cables {
		if c.Cables[i].Tag == tag {
			return &c.Cables[i]
		}
	}
	return nil
}
