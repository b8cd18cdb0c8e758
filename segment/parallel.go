package segment

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// forEachChannel runs fn(i) for every i in [0, n) on at most workers
// goroutines (NumCPU when workers <= 0). fn must write its result to slot i of
// a pre-sized slice so output order does not depend on scheduling.
// The first error cancels the remaining work and is returned.
func forEachChannel(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}
