package sim

import (
	"context"
	"sync"
)

// Ensemble runs many independent simulations in parallel. Each run gets
// its own Simulator (and therefore its own bodies) from the factory, so no
// momentum state is shared between goroutines.
type Ensemble struct {
	factory   func(run int, seed int64) (*Simulator, error)
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory func(run int, seed int64) (*Simulator, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s, err := e.factory(idx, cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
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
