package dynamics

import (
	"context"
	"sync"
)

// Ensemble runs many simulations of the same system in parallel. It is used
// to sweep initial conditions, e.g. to check a region-of-attraction estimate
// empirically against sampled trajectories.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart int64
	factories []func() Metric
}

func NewEnsemble(s *Simulator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart}
}

// AddMetricFactory registers a metric constructor. Each parallel run builds
// its own Metric instances from the factories, so runs never share mutable
// metric state. Metrics added to the base simulator are not propagated.
func (e *Ensemble) AddMetricFactory(fn func() Metric) {
	e.factories = append(e.factories, fn)
}

func (e *Ensemble) Run(ctx context.Context, x0 State, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s := New(e.base.dyn, e.base.integrator, e.base.controller)
			for _, fn := range e.factories {
				s.AddMetric(fn())
			}

			results[idx], errs[idx] = s.Run(ctx, x0, cfgCopy)
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

// RunInitialStates simulates one run per initial state. Results are indexed
// like the input. Each goroutine gets its own simulator and its own metric
// instances from the registered factories.
func (e *Ensemble) RunInitialStates(ctx context.Context, states []State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(states))
	errs := make([]error, len(states))

	var wg sync.WaitGroup
	for i := range states {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s := New(e.base.dyn, e.base.integrator, e.base.controller)
			for _, fn := range e.factories {
				s.AddMetric(fn())
			}
			results[idx], errs[idx] = s.Run(ctx, states[idx], cfg)
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
