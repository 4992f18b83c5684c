package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool bounds how many operations run at once. Work beyond the ceiling
// queues until a slot frees up. Pools are shared by every fetch pipeline in
// the process, so the ceiling applies across sessions.
type Pool struct {
	name string
	size int
	sem  *semaphore.Weighted
}

// NewPool creates a pool allowing size concurrent operations.
// Sizes below one are raised to one.
func NewPool(name string, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		name: name,
		size: size,
		sem:  semaphore.NewWeighted(int64(size)),
	}
}

// Name returns the pool name used in errors and logs.
func (p *Pool) Name() string {
	return p.name
}

// Size returns the concurrency ceiling.
func (p *Pool) Size() int {
	return p.size
}

// Do runs fn on the calling goroutine once a slot is free.
// If ctx ends while waiting, fn is skipped and the context error returned.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%s pool: %w", p.name, err)
	}
	defer p.sem.Release(1)
	fn()
	return nil
}

// DoAll runs every fn in parallel under the ceiling and returns when all of
// them have finished or been skipped. It returns the first skip error.
func (p *Pool) DoAll(ctx context.Context, fns []func()) error {
	var g errgroup.Group
	for _, fn := range fns {
		g.Go(func() error {
			return p.Do(ctx, fn)
		})
	}
	return g.Wait()
}
