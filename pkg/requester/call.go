package requester

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrPending is returned by Call.Result before the call completed.
var ErrPending = errors.New("call still pending")

// Call is the handle of a request that completes once. It completes after
// the request's handler has returned.
type Call[T any] struct {
	id   atomic.Uint32
	path string

	once   sync.Once
	done   chan struct{}
	result T
	err    error
}

func newCall[T any](path string) *Call[T] {
	return &Call[T]{
		path: path,
		done: make(chan struct{}),
	}
}

// ID returns the request id, or 0 if the request was never sent.
func (c *Call[T]) ID() uint32 {
	return c.id.Load()
}

// Path returns the resolved node path, or the path as given if it could not
// be resolved.
func (c *Call[T]) Path() string {
	return c.path
}

// Done is closed when the call has completed.
func (c *Call[T]) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call completes or ctx is done.
func (c *Call[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.result, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking, or ErrPending.
func (c *Call[T]) Result() (T, error) {
	select {
	case <-c.done:
		return c.result, c.err
	default:
		var zero T
		return zero, ErrPending
	}
}

func (c *Call[T]) setID(id uint32) {
	c.id.Store(id)
}

func (c *Call[T]) complete(result T, err error) {
	c.once.Do(func() {
		c.result = result
		c.err = err
		close(c.done)
	})
}
