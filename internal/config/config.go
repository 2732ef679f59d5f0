package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt             = 0.01
	DefaultSteps          = 500
	DefaultMass           = 1.0
	DefaultGravity        = 9.8
	DefaultSlackThreshold = 1e-10
)

// Body model names.
const (
	ModelPointMass   = "point_mass"
	ModelPointMass3D = "point_mass_3d"
)

// Config describes one experiment: a body, its cables and their
// controllers, and the run length.
type Config struct {
	Name           string        `yaml:"name"`
	Body           BodyConfig    `yaml:"body"`
	Dt             float64       `yaml:"dt"`
	Steps          int           `yaml:"steps"`
	Parallel       bool          `yaml:"parallel,omitempty"`
	ValidateState  bool          `yaml:"validate_state,omitempty"`
	SlackThreshold float64       `yaml:"slack_threshold"`
	Target         []float64     `yaml:"target,omitempty"`
	Bounds         *BoundsConfig `yaml:"bounds,omitempty"`
	Cables         []CableConfig `yaml:"cables"`
}

type BodyConfig struct {
	Model      string    `yaml:"model"`
	Mass       float64   `yaml:"mass"`
	Gravity    float64   `yaml:"gravity"`
	InitialPos []float64 `yaml:"initial_pos,flow"`
	InitialVel []float64 `yaml:"initial_vel,flow"`
}

// BoundsConfig is the axis-aligned box the point mass should stay in.
type BoundsConfig struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

type CableConfig struct {
	Tag        string             `yaml:"tag"`
	Law        string             `yaml:"law"`
	Params     map[string]float64 `yaml:"params,flow"`
	Anchor     []float64          `yaml:"anchor,flow"`
	Controller ControllerConfig   `yaml:"controller"`
}

// ControllerConfig names a controller type; the remaining keys are its
// constants (bar_v, or kappa, bar_ell and bar_v).
type ControllerConfig struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:",inline"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Body: BodyConfig{
			Model:      ModelPointMass,
			Mass:       DefaultMass,
			Gravity:    DefaultGravity,
			InitialPos: []float64{0, 0},
			InitialVel: []float64{0, 0},
		},
		Dt:             DefaultDt,
		Steps:          DefaultSteps,
		SlackThreshold: DefaultSlackThreshold,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML experiment over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Body.InitialPos, cfg.Body.InitialVel = nil, nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse experiment")
	}
	if len(cfg.Body.InitialVel) == 0 {
		cfg.Body.InitialVel = make([]float64, len(cfg.Body.InitialPos))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes an experiment as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Body.InitialPos = append([]float64(nil), c.Body.InitialPos...)
	out.Body.InitialVel = append([]float64(nil), c.Body.InitialVel...)
	out.Target = append([]float64(nil), c.Target...)
	if c.Bounds != nil {
		b := *c.Bounds
		out.Bounds = &b
	}
	out.Cables = make([]CableConfig, len(c.Cables))
	for i, cc := range c.Cables {
		cc.Params = cloneMap(cc.Params)
		cc.Anchor = append([]float64(nil), cc.Anchor...)
		cc.Controller.Params = cloneMap(cc.Controller.Params)
		out.Cables[i] = cc
	}
	return &out
}

// Tags returns the cable tags in file order.
func (c *Config) Tags() []string {
	tags := make([]string, len(c.Cables))
	for i, cc := range c.Cables {
		tags[i] = cc.Tag
	}
	return tags
}

func (c *Config) String() string {
	return c.Name + " (" + c.Body.Model + ", cables " + strings.Join(c.Tags(), ",") + ")"
}

func cloneMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
