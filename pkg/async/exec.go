package async

import (
	"context"
	"fmt"
)

// ExecFuture represents the result of an asynchronous computation that only returns an error.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Await waits for the asynchronous function to complete and returns its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// Done returns a channel closed when the function has finished.
func (f *ExecFuture) Done() <-chan struct{} {
	return f.done
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Exec runs fn(ctx, param) in a new goroutine. A pre-cancelled context skips
// the call and resolves the future with ctx.Err(). A panic in fn is recovered
// and reported as an error wrapping ErrPanic.
//
// Callers that only want fire-and-forget semantics may drop the future.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.err = fn(ctx, param)
	}()

	return f
}

// ExecAll waits for all futures and returns the first non-nil error in argument order.
func ExecAll(futures ...*ExecFuture) error {
	var first error
	for _, future := range futures {
		if err := future.Await(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
