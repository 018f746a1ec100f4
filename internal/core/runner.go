package core

import (
	"context"
	"sync"
	"time"
)

// Runner fans one query out per provider. Providers are independent by
// construction (own credential read, own HTTP call, own normalization),
// so no coordination beyond the WaitGroup is needed, and one provider's
// failure never affects another's result.
type Runner struct {
	providers []Provider
	timeout   time.Duration
}

func NewRunner(providers []Provider, timeout time.Duration) *Runner {
	return &Runner{providers: providers, timeout: timeout}
}

// QueryAll runs every provider concurrently and returns results keyed by
// provider ID. It holds no state between calls.
func (r *Runner) QueryAll(ctx context.Context) map[string]QueryResult {
	results := make(map[string]QueryResult, len(r.providers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range r.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()

			queryCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			res := p.Query(queryCtx)

			mu.Lock()
			results[p.ID()] = res
			mu.Unlock()
		}(p)
	}

	wg.Wait()
	return results
}
