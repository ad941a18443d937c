package sim

import (
	"context"
	"sync"
)

// RunEnsemble runs one independent headless simulation per config
// concurrently. Results are returned in config order.
func RunEnsemble(ctx context.Context, configs []Config, frames int, metrics func() []Metric) ([]*Result, error) {
	results := make([]*Result, len(configs))
	errs := make([]error, len(configs))

	var wg sync.WaitGroup
	for i := range configs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := New(configs[idx], nil, nil)
			if err != nil {
				errs[idx] = err
				return
			}
			if metrics != nil {
				for _, m := range metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, frames)
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
