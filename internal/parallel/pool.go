// Package parallel runs data-parallel loops over independent partitions on a
// fixed set of workers.
package parallel

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool is a fixed-size worker set. Every loop spawns at most Workers
// goroutines; each pulls partition indices until the range is exhausted.
type Pool struct {
	workers int
}

// NewPool returns a pool with the given number of workers.
// A value <= 0 uses GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Workers returns the number of workers. Worker ids passed to loop bodies are
// in [0, Workers()).
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) run(n int, body func(worker int, next func() (int, bool))) {
	if n <= 0 {
		return
	}
	workers := min(p.workers, n)
	var counter atomic.Int64
	next := func() (int, bool) {
		i := int(counter.Add(1) - 1)
		return i, i < n
	}
	if workers == 1 {
		body(0, next)
		return
	}
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			body(w, next)
			return nil
		})
	}
	_ = g.Wait()
}

// For calls fn for every index in [0, n). Calls for different indices may run
// concurrently; calls sharing a worker id never do.
func (p *Pool) For(n int, fn func(worker, i int)) {
	p.run(n, func(worker int, next func() (int, bool)) {
		for i, ok := next(); ok; i, ok = next() {
			fn(worker, i)
		}
	})
}

// Reduce folds fn over [0, n) with one accumulator per worker, starting from
// identity, and joins the per-worker results. join must be associative and
// commutative.
func Reduce[T any](p *Pool, n int, identity T, fn func(worker, i int, acc T) T, join func(a, b T) T) T {
	partial := make([]T, p.workers)
	for w := range partial {
		partial[w] = identity
	}
	p.run(n, func(worker int, next func() (int, bool)) {
		acc := partial[worker]
		for i, ok := next(); ok; i, ok = next() {
			acc = fn(worker, i, acc)
		}
		partial[worker] = acc
	})
	result := identity
	for _, acc := range partial {
		result = join(result, acc)
	}
	return result
}
