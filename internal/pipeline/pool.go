package pipeline

import (
	"context"
	"sync"
)

type job[T any] struct {
	index int
	item  T
}

// runPool runs fn over items on a fixed number of workers. Each result lands
// in the slot of its item, so workers never share an accumulator.
func runPool[T any, R any](ctx context.Context, items []T, workers int, fn func(ctx context.Context, worker int, item T) R) []R {
	if len(items) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan job[T])
	results := make([]R, len(items))

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = fn(ctx, worker, j.item)
			}
		}(w)
	}
	for i, item := range items {
		jobs <- job[T]{index: i, item: item}
	}
	close(jobs)
	wg.Wait()
	return results
}
