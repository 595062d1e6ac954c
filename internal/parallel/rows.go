// Package parallel runs per-row work across goroutines.
//
// Each row is owned by exactly one worker, so callers may write into
// row-indexed result slots without further synchronization and gather them in
// row order afterwards.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRowsPerTask keeps small grids on a single goroutine.
const minRowsPerTask = 32

// Rows calls fn(row) for every row in [0, n). Rows are split into contiguous
// bands, one goroutine per band, capped at GOMAXPROCS.
func Rows(n int, fn func(row int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if n < minRowsPerTask || workers == 1 {
		for r := 0; r < n; r++ {
			fn(r)
		}
		return
	}

	band := (n + workers - 1) / workers
	if band < minRowsPerTask {
		band = minRowsPerTask
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += band {
		end := min(start+band, n)
		g.Go(func() error {
			for r := start; r < end; r++ {
				fn(r)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Gather evaluates fn for every row in parallel and concatenates the
// per-row results in row order.
func Gather[T any](n int, fn func(row int) []T) []T {
	parts := make([][]T, max(n, 0))
	Rows(n, func(r int) {
		parts[r] = fn(r)
	})

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
