package sim

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Factory builds the simulator for run idx. Each run needs its own body,
// so simulators are never shared between runs.
type Factory func(idx int) (*Simulator, error)

// Ensemble runs independent simulations concurrently.
type Ensemble struct {
	factory Factory
	numRuns int
	limit   int
}

func NewEnsemble(factory Factory, numRuns int) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit caps the number of runs in flight. n <= 0 removes the cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run returns the results in run order. The first failure cancels the
// remaining runs.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, errors.Errorf("sim: ensemble needs at least one run, got %d", e.numRuns)
	}
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			s, err := e.factory(i)
			if err != nil {
				return errors.Wrapf(err, "run %d", i)
			}
			res, err := s.Run(ctx)
			if err != nil {
				return errors.Wrapf(err, "run %d", i)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
