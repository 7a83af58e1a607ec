package requester_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dslink-go/dslink/pkg/requester"
	"github.com/dslink-go/dslink/pkg/wire"
)

const testTimeout = 2 * time.Second

// fakeLink records sent requests.
type fakeLink struct {
	mu   sync.Mutex
	sent []*wire.Request
	err  error
	ch   chan *wire.Request
}

func newFakeLink() *fakeLink {
	return &fakeLink{ch: make(chan *wire.Request, 4096)}
}

func (l *fakeLink) Send(req *wire.Request) error {
	l.mu.Lock()
	err := l.err
	if err == nil {
		l.sent = append(l.sent, req)
	}
	l.mu.Unlock()

	if err != nil {
		return err
	}
	l.ch <- req
	return nil
}

func (l *fakeLink) failWith(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

// next returns the next sent request.
func (l *fakeLink) next(t *testing.T) *wire.Request {
	t.Helper()
	select {
	case req := <-l.ch:
		return req
	case <-time.After(testTimeout):
		t.Fatal("no request sent")
		return nil
	}
}

func (l *fakeLink) count(method wire.Method) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, req := range l.sent {
		if req.Method == method {
			n++
		}
	}
	return n
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRequester(t *testing.T, link requester.Link) *requester.Requester {
	t.Helper()
	cfg := requester.DefaultConfig()
	cfg.Logger = quietLogger()
	r, err := requester.NewRequester(link, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func wait[T any](t *testing.T, call *requester.Call[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	res, err := call.Wait(ctx)
	if ctx.Err() != nil {
		t.Fatal("call did not complete")
	}
	return res, err
}

func closed(id uint32) *wire.Response {
	return &wire.Response{RequestID: id, Stream: wire.StreamClosed}
}

func refused(id uint32, typ, msg, detail string) *wire.Response {
	return &wire.Response{
		RequestID: id,
		Stream:    wire.StreamClosed,
		Error:     &wire.Error{Type: typ, Msg: msg, Detail: detail},
	}
}
