// Package bridge runs operations on a shared worker pool while the calling
// goroutine blocks for the result.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/sourcegraph/conc/pool"
)

var errNoResult = errors.New("task returned neither a result nor an error")

// Envelope is the only value passed from a task back to its caller. Exactly
// one of Data and Error is set.
type Envelope[T any] struct {
	Data  *T
	Error string
}

func (e Envelope[T]) Err() error {
	if e.Error == "" {
		return nil
	}
	return errors.New(e.Error)
}

// Pool is created once at startup and shared by reference. It is never
// reconfigured.
type Pool struct {
	ctx  context.Context
	pool *pool.Pool
}

func NewPool(ctx context.Context, maxGoroutines int) *Pool {
	p := pool.New()
	if maxGoroutines > 0 {
		p = p.WithMaxGoroutines(maxGoroutines)
	}
	return &Pool{ctx: ctx, pool: p}
}

// Close waits for the tasks in flight. The pool must not be used afterwards.
func (p *Pool) Close() {
	p.pool.Wait()
}

// Run submits task to the pool and blocks until it completes. A panicking
// task is reported through the envelope.
func Run[T any](p *Pool, task func(ctx context.Context) (*T, error)) Envelope[T] {
	done := make(chan Envelope[T], 1)
	p.pool.Go(func() {
		var envelope Envelope[T]
		defer func() {
			if r := recover(); r != nil {
				envelope = Envelope[T]{Error: fmt.Sprintf("task panicked: %v\n%s", r, debug.Stack())}
			}
			done <- envelope
		}()

		data, err := task(p.ctx)
		switch {
		case err != nil:
			envelope.Error = err.Error()
		case data == nil:
			envelope.Error = errNoResult.Error()
		default:
			envelope.Data = data
		}
	})
	return <-done
}
