package config

import (
	"math/rand/v2"
	"sort"

	"github.com/san-kum/cablesim/internal/control"
)

func openLoop(barV float64) ControllerConfig {
	return ControllerConfig{Type: control.TypeOpenLoop, Params: map[string]float64{"bar_v": barV}}
}

func affine(kappa, barEll, barV float64) ControllerConfig {
	return ControllerConfig{Type: control.TypeAffine, Params: map[string]float64{
		"kappa":   kappa,
		"bar_ell": barEll,
		"bar_v":   barV,
	}}
}

func kc(k, c float64) map[string]float64 {
	return map[string]float64{"k": k, "c": c}
}

// Presets are the reference experiments. Use GetPreset for a copy that is
// safe to modify.
var Presets = map[string]*Config{
	"line": {
		Name: "line",
		Body: BodyConfig{
			Model: ModelPointMass, Mass: 1, Gravity: 0,
			InitialPos: []float64{1.5}, InitialVel: []float64{0},
		},
		Dt: 0.01, Steps: 500, SlackThreshold: DefaultSlackThreshold,
		Target: []float64{2},
		Cables: []CableConfig{
			{Tag: "x", Law: "linear", Params: kc(1, 1), Anchor: []float64{2}, Controller: openLoop(0)},
		},
	},
	"plane": {
		Name: "plane",
		Body: BodyConfig{
			Model: ModelPointMass, Mass: 1, Gravity: 9.8,
			InitialPos: []float64{0.2, -0.1}, InitialVel: []float64{0, 0.5},
		},
		Dt: 0.005, Steps: 800, SlackThreshold: DefaultSlackThreshold,
		Cables: []CableConfig{
			{Tag: "left", Law: "hybrid_split_linear", Params: kc(80, 4), Anchor: []float64{-1, 1}, Controller: openLoop(1)},
			{Tag: "right", Law: "hybrid_split_linear", Params: kc(80, 4), Anchor: []float64{1, 1}, Controller: openLoop(1)},
			{Tag: "floor", Law: "hybrid_linear", Params: kc(20, 2), Anchor: []float64{0, -2}, Controller: openLoop(1.5)},
		},
	},
	"tetra": {
		Name: "tetra",
		Body: BodyConfig{
			Model: ModelPointMass3D, Mass: 1.45, Gravity: 9.8,
			InitialPos: []float64{0.1, 0.5, 2.0}, InitialVel: []float64{0.5, 0.8, -0.1},
		},
		Dt: 0.01, Steps: 1000, SlackThreshold: DefaultSlackThreshold,
		Cables: []CableConfig{
			{Tag: "top", Law: "piecewise_linear_3d", Params: kc(300, 50), Anchor: []float64{0, 10, 10}, Controller: openLoop(0)},
			{Tag: "bottom", Law: "piecewise_linear_3d", Params: kc(100, 50), Anchor: []float64{0, 10, -10}, Controller: openLoop(0)},
			{Tag: "left", Law: "piecewise_linear_3d", Params: kc(150, 50), Anchor: []float64{-10, -10, 0}, Controller: openLoop(0)},
			{Tag: "right", Law: "piecewise_linear_3d", Params: kc(350, 50), Anchor: []float64{10, -10, 0}, Controller: openLoop(0)},
		},
	},
	"box": {
		Name: "box",
		Body: BodyConfig{
			Model: ModelPointMass3D, Mass: 4, Gravity: 9.8,
			InitialPos: []float64{0.5, 0.3, 0.8}, InitialVel: []float64{-1, 0.3, -6},
		},
		Dt: 0.01, Steps: 200, SlackThreshold: DefaultSlackThreshold,
		Target: []float64{0.15, 0.2, 0.7},
		Bounds: &BoundsConfig{Lo: 0, Hi: 1},
		Cables: []CableConfig{
			{Tag: "A", Law: "piecewise_linear_3d", Params: kc(300, 10), Anchor: []float64{0, 0, 0}, Controller: affine(0.95, 0.743303437365925, 0.69186683950129)},
			{Tag: "B", Law: "piecewise_linear_3d", Params: kc(1500, 10), Anchor: []float64{0, 0, 1}, Controller: affine(0.92, 0.390512483795333, 0.335517912410296)},
			{Tag: "C", Law: "piecewise_linear_3d", Params: kc(150, 10), Anchor: []float64{0, 1, 1}, Controller: affine(0.85, 0.867467578644874, 0.705540297302958)},
			{Tag: "D", Law: "piecewise_linear_3d", Params: kc(80, 10), Anchor: []float64{0, 1, 0}, Controller: affine(0.93, 1.07354552767919, 0.912513698505512)},
			{Tag: "E", Law: "piecewise_linear_3d", Params: kc(180, 10), Anchor: []float64{1, 0, 0}, Controller: affine(0.97, 1.11915146427997, 1.04454136665865)},
			{Tag: "F", Law: "piecewise_linear_3d", Params: kc(900, 10), Anchor: []float64{1, 0, 1}, Controller: affine(0.995, 0.923309265630969, 0.910998475422311)},
			{Tag: "G", Law: "piecewise_linear_3d", Params: kc(1000, 10), Anchor: []float64{1, 1, 1}, Controller: affine(0.995, 1.20519707931939, 1.19073471436736)},
			{Tag: "H", Law: "piecewise_linear_3d", Params: kc(470, 10), Anchor: []float64{1, 1, 0}, Controller: affine(0.985, 1.36106575888162, 1.32631514376099)},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Perturb returns a copy with every initial position and velocity
// component shifted by a uniform offset in [-scale, scale].
func (c *Config) Perturb(rng *rand.Rand, scale float64) *Config {
	out := c.Clone()
	for i := range out.Body.InitialPos {
		out.Body.InitialPos[i] += scale * (2*rng.Float64() - 1)
	}
	for i := range out.Body.InitialVel {
		out.Body.InitialVel[i] += scale * (2*rng.Float64() - 1)
	}
	return out
}
