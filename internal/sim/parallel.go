package sim

import (
	"context"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Ensemble runs the same parameters under several wind seeds concurrently.
// Each run gets its own Simulator; metrics come from a factory so no state is
// shared between goroutines.
type Ensemble struct {
	params    dynamo.Params
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

func NewEnsemble(p dynamo.Params, numRuns int, seedStart int64, metrics func() []Metric) *Ensemble {
	return &Ensemble{params: p, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	dynamo.ParallelFor(e.numRuns, 1, func(start, end int) {
		for idx := start; idx < end; idx++ {
			results[idx], errs[idx] = e.runOne(ctx, cfg, idx)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, cfg RunConfig, idx int) (*Result, error) {
	p := e.params
	p.Seed = e.seedStart + int64(idx)

	s, err := New(p)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		for _, m := range e.metrics() {
			s.AddMetric(m)
		}
	}
	return s.Run(ctx, cfg)
}
