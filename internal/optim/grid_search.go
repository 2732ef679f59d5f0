// Package optim searches experiment parameters for the best run.
package optim

import (
	"context"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
)

// Objective scores a completed run. Lower is better.
type Objective func(cfg *config.Config, result *sim.Result) (float64, error)

// TargetError scores a run by the final distance to the experiment's
// target.
func TargetError(cfg *config.Config, result *sim.Result) (float64, error) {
	if len(cfg.Target) == 0 {
		return 0, errors.Wrap(dynamo.ErrMissingParam, "experiment has no target")
	}
	target, err := dynamo.NewVec(cfg.Target...)
	if err != nil {
		return 0, err
	}
	pos, _, err := result.Final().Split(target.Dim())
	if err != nil {
		return 0, err
	}
	return pos.Sub(target).Norm(), nil
}

// Metric scores a run by one of its recorded metrics.
func Metric(name string) Objective {
	return func(_ *config.Config, result *sim.Result) (float64, error) {
		v, ok := result.Metrics[name]
		if !ok {
			return 0, errors.Errorf("optim: run has no metric %q", name)
		}
		return v, nil
	}
}

// Candidate is one point of the grid and its score.
type Candidate struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Outcome is the result of a search. Best is nil when every candidate
// failed.
type Outcome struct {
	Best       *Candidate
	Candidates []Candidate
	Failed     int
}

// GridSearch evaluates every combination of the given parameter values.
// Parameters are config.SetParam paths.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
	logger     *zap.Logger
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 {
		return nil, errors.Wrap(dynamo.ErrMissingParam, "grid search needs at least one parameter")
	}
	if len(params) != len(ranges) {
		return nil, errors.Wrapf(dynamo.ErrDimensionMismatch, "%d parameters, %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, errors.Wrapf(dynamo.ErrMissingParam, "parameter %q has no values", params[i])
		}
	}
	return &GridSearch{
		paramNames: params,
		ranges:     ranges,
		limit:      runtime.GOMAXPROCS(0),
		logger:     zap.NewNop(),
	}, nil
}

// SetLimit caps the number of runs in flight. n <= 0 removes the cap.
func (g *GridSearch) SetLimit(n int) { g.limit = n }

func (g *GridSearch) SetLogger(logger *zap.Logger) { g.logger = logger }

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// points enumerates the grid with the last parameter varying fastest.
func (g *GridSearch) points() []map[string]float64 {
	out := make([]map[string]float64, 0, g.Size())
	var walk func(depth int, current map[string]float64)
	walk = func(depth int, current map[string]float64) {
		if depth == len(g.paramNames) {
			out = append(out, current)
			return
		}
		for _, val := range g.ranges[depth] {
			next := make(map[string]float64, len(current)+1)
			for k, v := range current {
				next[k] = v
			}
			next[g.paramNames[depth]] = val
			walk(depth+1, next)
		}
	}
	walk(0, map[string]float64{})
	return out
}

// Search runs every grid point from a copy of base and returns the
// candidate with the lowest objective. Candidates that fail to build, run
// or score are counted and skipped. A nil build uses Config.NewSimulator.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	build config.Builder,
	objective Objective,
) (*Outcome, error) {
	if build == nil {
		build = func(cfg *config.Config) (*sim.Simulator, error) { return cfg.NewSimulator() }
	}
	points := g.points()
	candidates := make([]Candidate, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	if g.limit > 0 {
		eg.SetLimit(g.limit)
	}
	for i, params := range points {
		eg.Go(func() error {
			v, err := g.evaluate(ctx, base, params, build, objective)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			candidates[i] = Candidate{Params: params, Value: v, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &Outcome{Candidates: candidates}
	best := math.Inf(1)
	for i := range candidates {
		c := &candidates[i]
		if c.Err != nil || math.IsNaN(c.Value) {
			out.Failed++
			g.logger.Debug("candidate failed", zap.String("params", FormatParams(c.Params)), zap.Error(c.Err))
			continue
		}
		if c.Value < best {
			best = c.Value
			out.Best = c
		}
	}
	return out, nil
}

func (g *GridSearch) evaluate(
	ctx context.Context,
	base *config.Config,
	params map[string]float64,
	build config.Builder,
	objective Objective,
) (float64, error) {
	cfg := base.Clone()
	for _, name := range g.paramNames {
		if err := cfg.SetParam(name, params[name]); err != nil {
			return 0, err
		}
	}
	s, err := build(cfg)
	if err != nil {
		return 0, err
	}
	result, err := s.Run(ctx)
	if err != nil {
		return 0, err
	}
	return objective(cfg, result)
}

// FormatParams renders a parameter set as sorted name=value pairs.
func FormatParams(params map[string]float64) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + strconv.FormatFloat(params[name], 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// ParseAxis reads a "name=v1,v2,..." grid axis.
func ParseAxis(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok || name == "" || list == "" {
		return "", nil, errors.Errorf("optim: axis %q is not name=v1,v2,...", arg)
	}
	fields := strings.Split(list, ",")
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, errors.Wrapf(err, "optim: axis %q", arg)
		}
		values[i] = v
	}
	return name, values, nil
}
