package socket

import (
	"context"
	"time"
)

// Future is the pending result of an asynchronous socket operation.
// It completes exactly once.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func goFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.value, f.err = fn()
		close(f.done)
	}()
	return f
}

func failedFuture[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done is closed once the operation has completed.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the operation completes and returns its result.
// It may be called any number of times.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// aLongTimeAgo is a deadline in the past; setting it wakes a pending
// read, write or accept with a timeout error.
var aLongTimeAgo = time.Unix(1, 0)

// interruptible runs op and, if ctx ends while op is still pending,
// forces it out by moving the deadline into the past.  It reports
// whether that happened.  The deadline is cleared again before
// returning, so the socket stays usable.
func interruptible(ctx context.Context, setDeadline func(time.Time) error, op func()) bool {
	if ctx.Done() == nil {
		op()
		return false
	}

	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = setDeadline(aLongTimeAgo)
		close(fired)
	})
	op()
	if stop() {
		return false
	}
	<-fired
	_ = setDeadline(time.Time{})
	return true
}
