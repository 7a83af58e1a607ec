package examples

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dslink-go/dslink/pkg/requester"
	"github.com/dslink-go/dslink/pkg/wire"
)

const linkPath = "/downstream/dual"

// demoResponder answers requests the way the dual demo responder does.
type demoResponder struct {
	mu sync.Mutex
	r  *requester.Requester
}

func (d *demoResponder) attach(r *requester.Requester) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.r = r
}

func (d *demoResponder) Send(req *wire.Request) error {
	go d.respond(req)
	return nil
}

func (d *demoResponder) respond(req *wire.Request) {
	d.mu.Lock()
	r := d.r
	d.mu.Unlock()

	resp := &wire.Response{RequestID: req.RequestID, Stream: wire.StreamClosed}
	switch {
	case req.Method == wire.MethodClose:
		return
	case req.Method == wire.MethodList:
		resp.Stream = wire.StreamOpen
		resp.Updates = []any{
			[]any{"$is", "node"},
			[]any{"settable", map[string]any{"$writable": "write"}},
			[]any{"dynamic", map[string]any{"$type": "number"}},
			[]any{"action", map[string]any{"$invokable": "read"}},
		}
	case req.Method == wire.MethodInvoke && req.Path == linkPath+ActionPath:
		resp.Updates = []any{[]any{"ok"}}
	case req.Method == wire.MethodInvoke:
		resp.Error = &wire.Error{Type: wire.ErrorTypeInvalidPath, Msg: "node not found", Detail: req.Path}
	}
	r.HandleResponse(resp)

	if req.Method == wire.MethodSubscribe {
		for i := 1; i <= 3; i++ {
			r.HandleSubscriptionUpdate(&wire.SubscriptionUpdate{Path: req.Path, Value: i, Timestamp: time.Now()})
		}
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunDualRequester(t *testing.T) {
	responder := &demoResponder{}
	cfg := requester.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := requester.NewRequester(responder, cfg)
	require.NoError(t, err)
	defer r.Close()
	responder.attach(r)

	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(out, nil))

	d := RunDualRequester(r, linkPath, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))

	res, err := d.Invoke.Result()
	require.NoError(t, err)
	require.Equal(t, 1, res.Table.Len())

	missing, err := d.InvokeError.Result()
	require.Error(t, err)
	require.NotNil(t, missing.InvokeError())
	assert.NotEmpty(t, missing.InvokeError().Message)
	assert.Equal(t, linkPath+MissingPath, missing.InvokeError().Detail)

	assert.Eventually(t, func() bool { return d.Dynamic.Delivered() == 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, d.Stop(r))
	<-d.List.Done()
	<-d.Dynamic.Done()

	logged := out.String()
	assert.Contains(t, logged, "set the new value on the responder")
	assert.Contains(t, logged, "path="+linkPath+"/values/dynamic")
	assert.Contains(t, logged, "received new dynamic value")
	assert.Contains(t, logged, "value=ok")
	assert.Contains(t, logged, "invocation error (as desired)")
	assert.NotContains(t, logged, "path="+linkPath+"/values/$is")
}

func TestDualRequesterWaitReportsSucceedingMissingNode(t *testing.T) {
	responder := &demoResponder{}
	cfg := requester.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := requester.NewRequester(&acceptAll{responder: responder}, cfg)
	require.NoError(t, err)
	defer r.Close()
	responder.attach(r)

	d := RunDualRequester(r, linkPath, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), errMissingSucceeded)
}

// acceptAll answers every invocation with an empty table.
type acceptAll struct {
	responder *demoResponder
}

func (a *acceptAll) Send(req *wire.Request) error {
	if req.Method != wire.MethodInvoke {
		return a.responder.Send(req)
	}
	go func() {
		a.responder.mu.Lock()
		r := a.responder.r
		a.responder.mu.Unlock()
		r.HandleResponse(&wire.Response{RequestID: req.RequestID, Stream: wire.StreamClosed})
	}()
	return nil
}
