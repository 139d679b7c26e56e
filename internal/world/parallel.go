package world

import "golang.org/x/sync/errgroup"

// parallel splits items into at most workers contiguous chunks and runs fn
// over every item. fn must not touch state shared between items other than
// through atomics.
func parallel[T any](workers int, items []T, fn func(T)) {
	if len(items) == 0 {
		return
	}
	workers = max(1, min(workers, len(items)))
	if workers == 1 {
		for _, it := range items {
			fn(it)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (len(items) + workers - 1) / workers
	for start := 0; start < len(items); start += chunk {
		part := items[start:min(start+chunk, len(items))]
		g.Go(func() error {
			for _, it := range part {
				fn(it)
			}
			return nil
		})
	}
	_ = g.Wait()
}
