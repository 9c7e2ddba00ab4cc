package worker

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one dispatched item
type Outcome[R any] struct {
	Value R
	Err   error
}

// OK reports whether the item completed without error
func (o Outcome[R]) OK() bool {
	return o.Err == nil
}

// PanicError wraps a panic recovered from a dispatched function
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in worker: %v", e.Value)
}

// Run applies fn to every item with at most limit calls in flight.
// Items are admitted in input order and out[i] always corresponds to items[i].
// A failing or panicking call only affects its own outcome. Items not yet
// admitted when ctx is cancelled fail with ctx.Err() and fn is not called.
func Run[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) []Outcome[R] {
	out := make([]Outcome[R], len(items))
	if len(items) == 0 {
		return out
	}
	if limit <= 0 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i] = Outcome[R]{Err: err}
				return nil
			}
			out[i] = call(ctx, item, fn)
			return nil
		})
	}
	_ = g.Wait() // errors captured per outcome

	return out
}

func call[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (outcome Outcome[R]) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome[R]{Err: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()

	value, err := fn(ctx, item)
	return Outcome[R]{Value: value, Err: err}
}
