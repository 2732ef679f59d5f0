// Package automation runs scripted batches and parameter sweeps of cable
// experiments.
package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/storage"
)

// Scenario is a scripted sequence of experiments.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Runs        []ScenarioStep `yaml:"runs"`

	dir string
}

// ScenarioStep names one experiment by preset or experiment file, with
// optional overrides. Params keys are config.SetParam paths.
type ScenarioStep struct {
	Preset string             `yaml:"preset,omitempty"`
	Config string             `yaml:"config,omitempty"`
	Steps  int                `yaml:"steps,omitempty"`
	Dt     float64            `yaml:"dt,omitempty"`
	Params map[string]float64 `yaml:"params,omitempty"`
	SaveAs string             `yaml:"save_as,omitempty"`
}

// StepResult is the outcome of one scenario step. RunID is empty when the
// run was not saved.
type StepResult struct {
	Name   string
	RunID  string
	Config *config.Config
	Result *sim.Result
}

// LoadScenario reads a scenario file. Relative experiment paths are
// resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrapf(err, "parse scenario %s", path)
	}
	if len(scenario.Runs) == 0 {
		return nil, errors.Wrapf(dynamo.ErrMissingParam, "scenario %s has no runs", path)
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// Resolve returns the validated experiment for step i.
func (s *Scenario) Resolve(i int) (*config.Config, error) {
	step := s.Runs[i]
	var cfg *config.Config
	switch {
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	case step.Preset != "":
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, errors.Errorf("unknown preset %q", step.Preset)
		}
	default:
		return nil, errors.Wrap(dynamo.ErrMissingParam, "step needs a preset or a config")
	}

	if step.Steps > 0 {
		cfg.Steps = step.Steps
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	for path, v := range step.Params {
		if err := cfg.SetParam(path, v); err != nil {
			return nil, err
		}
	}
	if step.SaveAs != "" {
		cfg.Name = step.SaveAs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order and saves each run when store
// is not nil. It stops at the first failing step and returns the results
// so far.
func RunScenario(
	ctx context.Context,
	scenario *Scenario,
	build config.Builder,
	store *storage.Store,
	logger *zap.Logger,
) ([]StepResult, error) {
	if build == nil {
		build = func(cfg *config.Config) (*sim.Simulator, error) { return cfg.NewSimulator() }
	}
	results := make([]StepResult, 0, len(scenario.Runs))

	for i := range scenario.Runs {
		cfg, err := scenario.Resolve(i)
		if err != nil {
			return results, errors.Wrapf(err, "step %d", i+1)
		}
		logger.Info("running scenario step",
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Runs)),
			zap.String("experiment", cfg.Name),
		)

		s, err := build(cfg)
		if err != nil {
			return results, errors.Wrapf(err, "step %d setup", i+1)
		}
		result, err := s.Run(ctx)
		if err != nil {
			return results, errors.Wrapf(err, "step %d run", i+1)
		}

		sr := StepResult{Name: cfg.Name, Config: cfg, Result: result}
		if store != nil {
			if sr.RunID, err = store.Save(cfg, result); err != nil {
				return results, errors.Wrapf(err, "step %d save", i+1)
			}
		}
		results = append(results, sr)
	}
	return results, nil
}

// Sweep varies one parameter linearly over [Min, Max].
type Sweep struct {
	Param  string
	Min    float64
	Max    float64
	Points int
}

// Values returns the sweep's parameter values.
func (s Sweep) Values() []float64 {
	if s.Points <= 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Points)
	step := (s.Max - s.Min) / float64(s.Points-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// SweepResult summarises one sweep point. TargetError is NaN when the
// experiment has no target and ExitedAt is -1 when it has no bounds or
// the body stayed inside. A failed point carries Err and no summary.
type SweepResult struct {
	Value       float64
	Final       dynamo.Vec
	TargetError float64
	SlackSteps  int
	ExitedAt    int
	Err         error
}

// RunSweep runs the base experiment once per sweep value. Points that
// fail to build or run are reported in their SweepResult; only a bad
// parameter path or a cancelled context aborts the sweep.
func RunSweep(
	ctx context.Context,
	base *config.Config,
	sweep Sweep,
	build config.Builder,
	logger *zap.Logger,
) ([]SweepResult, error) {
	if build == nil {
		build = func(cfg *config.Config) (*sim.Simulator, error) { return cfg.NewSimulator() }
	}
	if err := base.Clone().SetParam(sweep.Param, sweep.Min); err != nil {
		return nil, err
	}

	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		cfg := base.Clone()
		_ = cfg.SetParam(sweep.Param, v)

		sr := SweepResult{Value: v, TargetError: math.NaN(), ExitedAt: -1}
		result, err := runOne(ctx, cfg, build)
		if err != nil {
			sr.Err = err
		} else if err := summarise(&sr, cfg, result); err != nil {
			sr.Err = err
		}
		results = append(results, sr)

		logger.Debug("sweep point",
			zap.Int("point", i+1),
			zap.Int("of", len(values)),
			zap.String("param", sweep.Param),
			zap.Float64("value", v),
			zap.Error(sr.Err),
		)
	}
	return results, nil
}

func runOne(ctx context.Context, cfg *config.Config, build config.Builder) (*sim.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := build(cfg)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

func summarise(sr *SweepResult, cfg *config.Config, result *sim.Result) error {
	pos, _, err := result.Final().Split(result.Dim)
	if err != nil {
		return err
	}
	sr.Final = pos

	if len(cfg.Target) > 0 {
		target, err := dynamo.NewVec(cfg.Target...)
		if err != nil {
			return err
		}
		sr.TargetError = pos.Sub(target).Norm()
	}
	if cfg.Bounds != nil {
		if sr.ExitedAt, err = analysis.ExitedBox(result.States, result.Dim, cfg.Bounds.Lo, cfg.Bounds.Hi); err != nil {
			return err
		}
	}
	for _, n := range analysis.SlackCounts(result.Forces, result.Tags, cfg.SlackThreshold) {
		sr.SlackSteps += n
	}
	return nil
}
