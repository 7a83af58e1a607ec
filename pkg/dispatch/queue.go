package dispatch

import (
	"sync"
)

// Queue runs pushed functions one at a time, in push order, on its own
// goroutine.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []func()
	closed bool
	done   chan struct{}

	onPanic func(recovered any)
}

// NewQueue creates a queue and starts its goroutine. onPanic, if non-nil, is
// called with the recovered value when a pushed function panics; the queue
// keeps running either way.
func NewQueue(onPanic func(recovered any)) *Queue {
	q := &Queue{
		done:    make(chan struct{}),
		onPanic: onPanic,
	}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Push appends fn to the queue. It never blocks and never runs fn on the
// calling goroutine. After Close, fn runs on a goroutine of its own.
func (q *Queue) Push(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		go q.call(fn)
		return
	}
	q.items = append(q.items, fn)
	q.mu.Unlock()
	q.cond.Signal()
}

// Len returns the number of functions waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting work. Functions already queued still run; Done is
// closed once they have.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Done is closed when the queue goroutine has exited.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		q.call(fn)
	}
}

func (q *Queue) call(fn func()) {
	defer func() {
		if r := recover(); r != nil && q.onPanic != nil {
			q.onPanic(r)
		}
	}()
	fn()
}
