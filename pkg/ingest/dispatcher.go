package ingest

import (
	"context"
	"fmt"
)

// Dispatcher runs mutations on a Pool and hands their outcome back through a
// completion callback.
type Dispatcher struct {
	pool Pool
}

// NewDispatcher wraps a started pool.
func NewDispatcher(pool Pool) *Dispatcher {
	return &Dispatcher{pool: pool}
}

// Dispatch runs fn on the dispatcher's pool. onComplete is called exactly
// once: with fn's result, with the submit error when the pool refuses the
// job, with the context error when the job is dequeued after the caller's or
// the pool's context is done, or with an error when fn panics.
func Dispatch[T any](ctx context.Context, d *Dispatcher, fn func(ctx context.Context) (T, error), onComplete func(T, error)) {
	job := func(jobCtx context.Context) (err error) {
		var result T
		defer func() {
			if r := recover(); r != nil {
				var zero T
				result, err = zero, fmt.Errorf("dispatched job panicked: %v", r)
			}
			if onComplete != nil {
				onComplete(result, err)
			}
		}()
		if err := jobCtx.Err(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err = fn(ctx)
		return err
	}
	if err := d.pool.SubmitCtx(ctx, job); err != nil && onComplete != nil {
		var zero T
		onComplete(zero, err)
	}
}
