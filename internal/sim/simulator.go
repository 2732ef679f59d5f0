package sim

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cablesim/internal/cable"
	"github.com/san-kum/cablesim/internal/control"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/integrators"
	"github.com/san-kum/cablesim/internal/physics"
)

// Simulator advances one point mass under a set of tagged cables and their
// paired controllers with explicit Euler steps. It owns the body for the
// duration of the run and is not safe for concurrent use.
type Simulator struct {
	body        *physics.PointMass
	cables      map[string]*cable.Cable
	controllers map[string]control.Controller
	tags        []string
	cfg         Config
	integrator  *integrators.Euler

	logger   *zap.Logger
	parallel bool
	validate bool

	metrics   []Metric
	observers []Observer

	phase  Phase
	step   int
	err    error
	result *Result
}

// New checks that every cable has a controller and the body's dimension,
// then seeds the histories with the body's current state.
func New(
	body *physics.PointMass,
	cables map[string]*cable.Cable,
	controllers map[string]control.Controller,
	cfg Config,
	opts ...Option,
) (*Simulator, error) {
	if body == nil {
		return nil, errors.New("sim: nil point mass")
	}
	if cfg.Steps <= 0 {
		return nil, errors.Wrapf(dynamo.ErrParameterBounds, "steps must be positive, got %d", cfg.Steps)
	}
	if !(cfg.Dt > 0) {
		return nil, errors.Wrapf(dynamo.ErrParameterBounds, "dt must be positive, got %g", cfg.Dt)
	}
	if len(cables) == 0 {
		return nil, errors.Wrap(dynamo.ErrMissingParam, "at least one cable is required")
	}

	tags := make([]string, 0, len(cables))
	for tag, c := range cables {
		if c == nil {
			return nil, errors.Errorf("sim: nil cable %q", tag)
		}
		if c.Dim() != body.Dim() {
			return nil, errors.Wrapf(dynamo.ErrDimensionMismatch, "cable %q is %v, body is %v", tag, c.Dim(), body.Dim())
		}
		if _, ok := controllers[tag]; !ok {
			return nil, errors.Wrapf(dynamo.ErrUnknownTag, "cable %q has no controller", tag)
		}
		tags = append(tags, tag)
	}
	for tag, ctrl := range controllers {
		if _, ok := cables[tag]; !ok {
			return nil, errors.Wrapf(dynamo.ErrUnknownTag, "controller %q has no cable", tag)
		}
		if ctrl == nil {
			return nil, errors.Errorf("sim: nil controller %q", tag)
		}
	}
	sort.Strings(tags)

	s := &Simulator{
		body:        body,
		cables:      cables,
		controllers: controllers,
		tags:        tags,
		cfg:         cfg,
		integrator:  integrators.NewEuler(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.result = &Result{
		Dim:      body.Dim(),
		Tags:     tags,
		States:   make([]dynamo.State, 0, cfg.Steps+1),
		Forces:   make([]map[string]float64, 0, cfg.Steps),
		Controls: make([]map[string]float64, 0, cfg.Steps),
		Times:    make([]float64, 0, cfg.Steps+1),
		Metrics:  make(map[string]float64),
	}
	s.result.States = append(s.result.States, body.State())
	s.result.Times = append(s.result.Times, 0)

	s.logger.Debug("simulator initialized",
		zap.Strings("cables", tags),
		zap.Stringer("dim", body.Dim()),
		zap.Int("steps", cfg.Steps),
		zap.Float64("dt", cfg.Dt),
		zap.Bool("parallel", s.parallel),
	)
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Phase() Phase             { return s.phase }
func (s *Simulator) Tags() []string           { return s.tags }
func (s *Simulator) Config() Config           { return s.cfg }
func (s *Simulator) Body() *physics.PointMass { return s.body }

// Step runs one pass of the pipeline and advances the body. It returns
// ErrCompleted once all configured steps are done, and the original
// failure after any step has failed.
func (s *Simulator) Step(ctx context.Context) (StepRecord, error) {
	if s.err != nil {
		return StepRecord{}, s.err
	}
	if s.phase == Completed {
		return StepRecord{}, dynamo.ErrCompleted
	}
	if s.phase == Initialized {
		for _, m := range s.metrics {
			m.Reset()
		}
		s.phase = Stepping
	}

	t := float64(s.step) * s.cfg.Dt
	x := s.body.State()

	rec, err := s.advance(ctx, x, t)
	if err != nil {
		s.err = &dynamo.SimulationError{Step: s.step, Time: t, State: x, Wrapped: err}
		s.phase = Completed
		s.logger.Debug("simulation failed", zap.Int("step", s.step), zap.Error(err))
		return StepRecord{}, s.err
	}

	s.step++
	s.result.States = append(s.result.States, rec.Next)
	s.result.Forces = append(s.result.Forces, rec.Forces)
	s.result.Controls = append(s.result.Controls, rec.Controls)
	s.result.Times = append(s.result.Times, float64(s.step)*s.cfg.Dt)

	for _, m := range s.metrics {
		m.Observe(rec)
	}
	for _, o := range s.observers {
		o.OnStep(rec)
	}

	if s.step == s.cfg.Steps {
		s.phase = Completed
		for _, m := range s.metrics {
			s.result.Metrics[m.Name()] = m.Value()
		}
	}
	return rec, nil
}

// Run steps until the configured number of steps is reached. On failure it
// returns a *dynamo.SimulationError and no histories.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	for s.phase != Completed {
		if _, err := s.Step(ctx); err != nil {
			return nil, err
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	s.logger.Info("simulation completed",
		zap.Int("steps", s.step),
		zap.Float64("t_final", s.result.Times[len(s.result.Times)-1]),
	)
	return s.result, nil
}

// Result returns the histories once the run has completed successfully.
func (s *Simulator) Result() (*Result, bool) {
	if s.phase != Completed || s.err != nil {
		return nil, false
	}
	return s.result, true
}

func (s *Simulator) advance(ctx context.Context, x dynamo.State, t float64) (StepRecord, error) {
	if err := ctx.Err(); err != nil {
		return StepRecord{}, err
	}

	snap := s.body.Snapshot()
	samples, err := s.evaluate(ctx, snap)
	if err != nil {
		return StepRecord{}, err
	}

	rec := StepRecord{
		Step:     s.step,
		Time:     t,
		State:    x,
		Forces:   make(map[string]float64, len(s.tags)),
		Controls: make(map[string]float64, len(s.tags)),
		Lengths:  make(map[string]float64, len(s.tags)),
	}
	forces := make([]dynamo.Vec, len(s.tags))
	for i, tag := range s.tags {
		forces[i] = samples[i].Vector.Neg()
		rec.Forces[tag] = samples[i].Force
		rec.Controls[tag] = samples[i].Control
		rec.Lengths[tag] = samples[i].Length
	}

	dx, err := s.body.DerivAt(snap, forces)
	if err != nil {
		return StepRecord{}, err
	}
	next, err := s.integrator.Step(x, dx, s.cfg.Dt)
	if err != nil {
		return StepRecord{}, err
	}
	if s.validate && !next.IsValid() {
		return StepRecord{}, dynamo.ErrInvalidState
	}
	if err := s.body.SetState(next); err != nil {
		return StepRecord{}, err
	}
	rec.Next = next.Clone()
	return rec, nil
}

// evaluate returns one sample per tag, in tag order.
func (s *Simulator) evaluate(ctx context.Context, snap physics.Snapshot) ([]cable.Sample, error) {
	samples := make([]cable.Sample, len(s.tags))
	if !s.parallel {
		for i, tag := range s.tags {
			sample, err := s.evaluateCable(tag, snap)
			if err != nil {
				return nil, err
			}
			samples[i] = sample
		}
		return samples, nil
	}

	g, _ := errgroup.WithContext(ctx)
	for i, tag := range s.tags {
		g.Go(func() error {
			sample, err := s.evaluateCable(tag, snap)
			if err != nil {
				return err
			}
			samples[i] = sample
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *Simulator) evaluateCable(tag string, snap physics.Snapshot) (cable.Sample, error) {
	c := s.cables[tag]
	length, err := c.Length(snap.Pos)
	if err != nil {
		return cable.Sample{}, errors.Wrapf(err, "cable %q", tag)
	}
	u := s.controllers[tag].Control(length)
	sample, err := c.Evaluate(snap.Pos, snap.Vel, u)
	if err != nil {
		return cable.Sample{}, errors.Wrapf(err, "cable %q", tag)
	}
	return sample, nil
}

// Run builds a simulator for the given body, cables and controllers and
// runs it to completion.
func Run(
	ctx context.Context,
	steps int,
	dt float64,
	body *physics.PointMass,
	cables map[string]*cable.Cable,
	controllers map[string]control.Controller,
	opts ...Option,
) (*Result, error) {
	s, err := New(body, cables, controllers, Config{Steps: steps, Dt: dt}, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}
