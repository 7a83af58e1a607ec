package requester

import (
	"errors"
	"sync"

	"github.com/dslink-go/dslink/pkg/correlation"
	"github.com/dslink-go/dslink/pkg/subscription"
	"github.com/dslink-go/dslink/pkg/value"
	"github.com/dslink-go/dslink/pkg/wire"
)

// oneShot delivers the single outcome of a request: the handler runs on the
// result queue, then the call completes. Later outcomes are dropped.
type oneShot[T any] struct {
	r       *Requester
	call    *Call[T]
	handler func(T)

	mu       sync.Mutex
	finished bool
}

func (o *oneShot[T]) finish(result T, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.finished {
		return
	}
	o.finished = true
	o.r.results.Push(func() {
		defer o.call.complete(result, err)
		if o.handler != nil {
			o.handler(result)
		}
	})
}

// setPending waits for the acknowledgement of a set.
type setPending struct {
	oneShot[*SetResponse]
	path  string
	value value.Value
}

func (p *setPending) Terminal(*wire.Response) bool { return true }

func (p *setPending) Deliver(resp *wire.Response) {
	res := &SetResponse{Path: p.path, Value: p.value}
	if resp.HasError() {
		res.Err = newRemoteError(wire.MethodSet, p.path, resp.Error)
	}
	p.finish(res, res.Err)
}

func (p *setPending) Fail(err error) {
	p.finish(&SetResponse{Path: p.path, Value: p.value, Err: err}, err)
}

// invokePending collects the rows of an invocation until its stream ends.
type invokePending struct {
	oneShot[*InvokeResponse]
	path string

	columns   []wire.Column
	rows      []Row
	decodeErr error
}

// Terminal ends the invocation on an error or on any response that does
// not announce more to come.
func (p *invokePending) Terminal(resp *wire.Response) bool {
	if resp.HasError() {
		return true
	}
	return resp.Stream != wire.StreamOpen && resp.Stream != wire.StreamInitialize
}

func (p *invokePending) Deliver(resp *wire.Response) {
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	if !resp.HasError() && p.decodeErr == nil {
		p.collect(resp)
	}
	decodeErr := p.decodeErr
	table := &Table{Columns: p.columns, Rows: p.rows}
	p.mu.Unlock()

	if p.Terminal(resp) {
		res := &InvokeResponse{Path: p.path}
		switch {
		case resp.HasError():
			_, res.Err = DecodeInvoke(resp)
		case decodeErr != nil:
			res.Err = decodeErr
		default:
			res.Table = table
		}
		p.finish(res, res.Err)
	}
}

// collect appends the rows of one response. Called with p.mu held.
func (p *invokePending) collect(resp *wire.Response) {
	if resp.Columns != nil {
		p.columns = copyColumns(resp.Columns)
	}
	if p.rows == nil && !hasResult(resp) {
		_, p.decodeErr = DecodeInvoke(resp)
		return
	}
	rows, err := decodeRows(p.columns, resp.Updates)
	if err != nil {
		err.RequestID = resp.RequestID
		p.decodeErr = err
		return
	}
	if p.rows == nil {
		p.rows = make([]Row, 0, len(rows))
	}
	p.rows = append(p.rows, rows...)
}

func (p *invokePending) Fail(err error) {
	p.finish(&InvokeResponse{Path: p.path, Err: err}, err)
}

// listPending feeds the batches of a list stream to its handler.
type listPending struct {
	oneShot[*ListResponse]
	path string
}

func (p *listPending) Terminal(resp *wire.Response) bool {
	return resp.IsClosed() || resp.HasError()
}

func (p *listPending) Deliver(resp *wire.Response) {
	res := &ListResponse{Path: p.path, Closed: p.Terminal(resp)}

	if resp.HasError() {
		res.Err = newRemoteError(wire.MethodList, p.path, resp.Error)
	} else if batch, err := DecodeListUpdates(p.path, resp.Updates); err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.RequestID = resp.RequestID
		}
		res.Err = err
	} else {
		res.Updates = batch.Updates
		res.Configs = batch.Configs
		res.Attributes = batch.Attributes
	}

	if res.Closed {
		p.finish(res, res.Err)
		return
	}
	p.batch(res)
}

// batch delivers a non-terminal response unless the stream already ended.
func (p *listPending) batch(res *ListResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished {
		return
	}
	p.r.results.Push(func() {
		if p.handler != nil {
			p.handler(res)
		}
	})
}

func (p *listPending) Fail(err error) {
	p.finish(&ListResponse{Path: p.path, Closed: true, Err: err}, err)
}

// subscribePending keeps a subscribe request registered for as long as the
// subscription lives. Its response only matters if it is a refusal.
type subscribePending struct {
	r   *Requester
	sub *subscription.Subscription
}

func (p *subscribePending) Terminal(*wire.Response) bool { return false }

func (p *subscribePending) Deliver(resp *wire.Response) {
	if !resp.HasError() {
		return
	}
	p.r.endSubscription(p.sub, newRemoteError(wire.MethodSubscribe, p.sub.Path(), resp.Error))
}

func (p *subscribePending) Fail(err error) {
	p.r.endSubscription(p.sub, err)
}

// ackPending waits for the acknowledgement of a fire-and-forget request.
type ackPending struct {
	r      *Requester
	method wire.Method
	path   string
}

func (p *ackPending) Terminal(*wire.Response) bool { return true }

func (p *ackPending) Deliver(resp *wire.Response) {
	if resp.HasError() {
		p.r.logger.Warn("request refused",
			"method", p.method.String(),
			"path", p.path,
			"error", resp.Error.Message())
	}
}

func (p *ackPending) Fail(err error) {
	if errors.Is(err, ErrLinkClosed) {
		return
	}
	p.r.logger.Warn("request failed",
		"method", p.method.String(),
		"path", p.path,
		"error", err)
}

var (
	_ correlation.Pending = (*setPending)(nil)
	_ correlation.Pending = (*invokePending)(nil)
	_ correlation.Pending = (*listPending)(nil)
	_ correlation.Pending = (*subscribePending)(nil)
	_ correlation.Pending = (*ackPending)(nil)
)
