package sim

import (
	"context"
	"sync"

	"github.com/san-kum/gravsim/internal/nbody"
)

// Ensemble runs independent engines that differ only by seed.
type Ensemble struct {
	params    nbody.Params
	numRuns   int
	seedStart int64
	metrics   func(p nbody.Params) []Metric
}

// NewEnsemble prepares numRuns engines seeded seedStart, seedStart+1, ...
// metrics is called once per run so runs never share metric state.
func NewEnsemble(p nbody.Params, numRuns int, seedStart int64, metrics func(p nbody.Params) []Metric) *Ensemble {
	return &Ensemble{params: p, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			p := e.params
			p.Seed = e.seedStart + int64(idx)

			eng, err := nbody.New(p)
			if err != nil {
				errs[idx] = err
				return
			}

			r := New(eng)
			if e.metrics != nil {
				for _, m := range e.metrics(p) {
					r.AddMetric(m)
				}
			}

			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
