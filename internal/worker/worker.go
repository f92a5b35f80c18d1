package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Do once Stop has been called.
var ErrStopped = errors.New("worker: pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool bounds how many tasks run at the same time.
type Pool interface {
	// Submit hands t to a worker. After Stop it drops t.
	Submit(Task)
	// Do runs t on a worker and waits for it. It returns ctx.Err() if ctx
	// ends before a worker is free or before t finishes; t may still run.
	Do(ctx context.Context, t Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task), quit: make(chan struct{})}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case job := <-p.jobs:
					if job != nil {
						job()
					}
				case <-p.quit:
					return
				}
			}
		}()
	}
	return p
}

// jobs is never closed; senders racing with Stop see quit instead of a panic.
type pool struct {
	jobs     chan Task
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func (p *pool) Submit(t Task) {
	select {
	case p.jobs <- t:
	case <-p.quit:
	}
}

func (p *pool) Do(ctx context.Context, t Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.quit:
		return ErrStopped
	default:
	}
	done := make(chan struct{})
	job := func() {
		defer close(done)
		t()
	}
	select {
	case p.jobs <- job:
	case <-p.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop waits for running tasks and is safe to call more than once.
func (p *pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}
