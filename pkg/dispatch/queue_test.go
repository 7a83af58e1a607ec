package dispatch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePreservesOrder(t *testing.T) {
	q := NewQueue(nil)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i // per-iteration copy (module targets go 1.21 loop semantics)
		q.Push(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	q.Close()

	select {
	case <-q.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not drain")
	}

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestQueueRunsOneAtATime(t *testing.T) {
	q := NewQueue(nil)
	defer q.Close()

	block := make(chan struct{})
	ran := make(chan struct{})
	q.Push(func() { <-block })

	q.Push(func() { close(ran) })

	select {
	case <-ran:
		t.Fatal("second function ran before the first finished")
	case <-time.After(20 * time.Millisecond):
	}
	close(block)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("function never ran")
	}
}

func TestQueueRecoversPanics(t *testing.T) {
	recovered := make(chan any, 1)
	q := NewQueue(func(r any) { recovered <- r })
	defer q.Close()

	ran := make(chan struct{})
	q.Push(func() { panic("boom") })
	q.Push(func() { close(ran) })

	select {
	case r := <-recovered:
		assert.Equal(t, "boom", r)
	case <-time.After(2 * time.Second):
		t.Fatal("panic not reported")
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("queue stopped after panic")
	}
}

func TestQueuePushAfterClose(t *testing.T) {
	q := NewQueue(nil)
	q.Close()
	<-q.Done()

	ran := make(chan struct{})
	q.Push(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("function pushed after Close never ran")
	}
	assert.Equal(t, 0, q.Len())
}
