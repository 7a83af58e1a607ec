package requester

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dslink-go/dslink/pkg/correlation"
	"github.com/dslink-go/dslink/pkg/dispatch"
	"github.com/dslink-go/dslink/pkg/log"
	"github.com/dslink-go/dslink/pkg/subscription"
	"github.com/dslink-go/dslink/pkg/value"
	"github.com/dslink-go/dslink/pkg/wire"
)

// Link sends requests to the responder.
type Link interface {
	// Send hands req to the transport. It must not block on the response.
	Send(req *wire.Request) error
}

// SetResponse is delivered to a SetHandler once per set.
type SetResponse struct {
	Path  string
	Value value.Value

	// Err is a *RemoteError or a transport error.
	Err error
}

// SetHandler receives the outcome of a set.
type SetHandler func(*SetResponse)

// ListStream is the handle of an open list request.
type ListStream struct {
	*Call[*ListResponse]

	r       *Requester
	pending *listPending
}

// Close ends the stream: the handler receives its closing delivery and the
// responder is asked to stop. Closing a stream that already ended does
// nothing.
func (s *ListStream) Close() error {
	id := s.ID()
	if id == 0 {
		return nil
	}
	if _, ok := s.r.registry.Cancel(id); !ok {
		return nil
	}
	s.pending.finish(&ListResponse{Path: s.Path(), Closed: true}, nil)
	s.r.logState(log.StateEntityStream, "OPEN", "CLOSED", s.Path(), "closed by requester")
	return s.r.send(&wire.Request{RequestID: id, Method: wire.MethodClose})
}

// InvokeOption configures an invoke request.
type InvokeOption func(*wire.Request)

// WithPermit caps the permission the invocation runs with.
func WithPermit(permit string) InvokeOption {
	return func(req *wire.Request) {
		req.Permit = permit
	}
}

// SubscribeOption configures a subscribe request.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	qos uint8
}

// WithQoS sets the subscription QoS level (0-3).
func WithQoS(qos uint8) SubscribeOption {
	return func(o *subscribeOptions) {
		o.qos = qos
	}
}

// Requester issues requests over a link and routes their responses.
type Requester struct {
	link      Link
	config    Config
	sessionID string

	logger         *slog.Logger
	protocolLogger log.Logger
	fileLogger     *log.FileLogger

	registry *correlation.Registry
	subs     *subscription.Manager
	results  *dispatch.Queue

	mu       sync.Mutex
	closed   bool
	closeErr error
}

// NewRequester creates a requester sending over link.
func NewRequester(link Link, config Config) (*Requester, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Requester{
		link:      link,
		config:    config,
		sessionID: uuid.NewString(),
		logger:    config.Logger,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	if config.ProtocolLogPath != "" {
		fl, err := log.NewFileLogger(config.ProtocolLogPath)
		if err != nil {
			return nil, fmt.Errorf("open protocol log: %w", err)
		}
		r.fileLogger = fl
	}
	switch {
	case r.fileLogger != nil && config.ProtocolLogger != nil:
		r.protocolLogger = log.NewMultiLogger(config.ProtocolLogger, r.fileLogger)
	case r.fileLogger != nil:
		r.protocolLogger = r.fileLogger
	default:
		r.protocolLogger = config.ProtocolLogger
	}

	r.registry = correlation.NewRegistry(
		correlation.WithMaxPending(config.MaxPending),
		correlation.WithUnknownHandler(r.handleUnknown),
	)
	r.subs = subscription.NewManagerWithConfig(subscription.Config{
		MaxSubscriptions: config.MaxSubscriptions,
	}, r.recoverHandler("subscription"))
	r.results = dispatch.NewQueue(r.recoverHandler("result"))

	r.logState(log.StateEntitySession, "", "OPEN", "", "")
	return r, nil
}

// SessionID returns the id protocol log events of this requester carry.
func (r *Requester) SessionID() string {
	return r.sessionID
}

// Set writes v to the node at path.
func (r *Requester) Set(path string, v value.Value, handler SetHandler) *Call[*SetResponse] {
	call := newCall[*SetResponse](path)
	p := &setPending{
		oneShot: oneShot[*SetResponse]{r: r, call: call, handler: handler},
		path:    path,
		value:   v,
	}

	abs, err := r.config.resolvePath(path)
	if err != nil {
		p.Fail(err)
		return call
	}
	call.path, p.path = abs, abs

	r.issue(&wire.Request{Method: wire.MethodSet, Path: abs, Value: v}, p, call.setID)
	return call
}

// List opens a list stream on the node at path. The handler runs once per
// response batch; the last delivery has Closed set.
func (r *Requester) List(path string, handler ListHandler) *ListStream {
	call := newCall[*ListResponse](path)
	p := &listPending{
		oneShot: oneShot[*ListResponse]{r: r, call: call, handler: handler},
		path:    path,
	}
	stream := &ListStream{Call: call, r: r, pending: p}

	abs, err := r.config.resolvePath(path)
	if err != nil {
		p.Fail(err)
		return stream
	}
	call.path, p.path = abs, abs

	if r.issue(&wire.Request{Method: wire.MethodList, Path: abs}, p, call.setID) {
		r.logState(log.StateEntityStream, "", "OPEN", abs, "")
	}
	return stream
}

// Invoke calls the action at path with params (Null, a Map or a Sequence).
// Streamed results are collected; the handler runs once, when the stream
// ends.
func (r *Requester) Invoke(path string, params value.Value, handler InvokeHandler, opts ...InvokeOption) *Call[*InvokeResponse] {
	call := newCall[*InvokeResponse](path)
	p := &invokePending{
		oneShot: oneShot[*InvokeResponse]{r: r, call: call, handler: handler},
		path:    path,
	}

	abs, err := r.config.resolvePath(path)
	if err != nil {
		p.Fail(err)
		return call
	}
	call.path, p.path = abs, abs

	req := &wire.Request{Method: wire.MethodInvoke, Path: abs, Params: params}
	for _, opt := range opts {
		opt(req)
	}
	r.issue(req, p, call.setID)
	return call
}

// Subscribe registers handler for value updates of the node at path.
// Subscribing again to a subscribed path replaces its handler without a new
// request; the QoS of the live subscription is kept. The returned subscription's Done channel is closed when it ends,
// whether by Unsubscribe, link loss or a failure reported by Err.
func (r *Requester) Subscribe(path string, handler subscription.Handler, opts ...SubscribeOption) *subscription.Subscription {
	o := subscribeOptions{qos: r.config.DefaultQoS}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := r.config.resolvePath(path)
	if err != nil {
		return subscription.Failed(path, err)
	}
	if r.IsClosed() {
		return subscription.Failed(abs, r.linkClosedErr())
	}

	sub, needsRequest, err := r.subs.Subscribe(abs, o.qos, handler)
	if err != nil {
		return subscription.Failed(abs, err)
	}
	if !needsRequest {
		if sub.QoS() != o.qos {
			r.logger.Warn("subscription already live, keeping its qos",
				"path", abs,
				"qos", sub.QoS(),
				"requested_qos", o.qos)
		}
		return sub
	}

	r.logState(log.StateEntitySubscription, subscription.StateUnsubscribed.String(), subscription.StateSubscribed.String(), abs, "")
	sent := r.issue(&wire.Request{Method: wire.MethodSubscribe, Path: abs, QoS: o.qos},
		&subscribePending{r: r, sub: sub}, sub.SetRequestID)

	// An Unsubscribe that ran while the request was being issued left the
	// remote side to us.
	if sub.Issued() && sent {
		r.releaseSubscription(abs, sub.RequestID())
	}
	return sub
}

// Unsubscribe stops updates for path. It returns false, and sends nothing,
// if the path was not subscribed.
func (r *Requester) Unsubscribe(path string) bool {
	abs, err := r.config.resolvePath(path)
	if err != nil {
		return false
	}
	sub, ok := r.subs.Unsubscribe(abs)
	if !ok {
		return false
	}
	r.logState(log.StateEntitySubscription, subscription.StateSubscribed.String(), subscription.StateUnsubscribed.String(), abs, "unsubscribed")

	if id, ok := sub.Release(); ok {
		r.releaseSubscription(abs, id)
	}
	return true
}

// releaseSubscription drops the subscribe request id and tells the
// responder to stop sending updates for path.
func (r *Requester) releaseSubscription(path string, id uint32) {
	if id != 0 {
		r.registry.Cancel(id)
	}
	r.issue(&wire.Request{Method: wire.MethodUnsubscribe, Path: path},
		&ackPending{r: r, method: wire.MethodUnsubscribe, path: path}, nil)
}

// Subscriptions returns the subscribed paths in sorted order.
func (r *Requester) Subscriptions() []string {
	return r.subs.Paths()
}

// Pending returns the number of requests waiting for a response, including
// live subscriptions.
func (r *Requester) Pending() int {
	return r.registry.Len()
}

// HandleResponse routes a response read from the link to its request.
func (r *Requester) HandleResponse(resp *wire.Response) {
	info, ok := r.registry.Resolve(resp)

	var latency *time.Duration
	if ok {
		d := time.Since(info.IssuedAt)
		latency = &d
	}
	r.logResponse(resp, latency)
}

// HandleSubscriptionUpdate routes a value update read from the link to the
// subscription of its path.
func (r *Requester) HandleSubscriptionUpdate(update *wire.SubscriptionUpdate) {
	r.logUpdate(update)

	v, err := value.FromAny(update.Value)
	if err != nil {
		r.logger.Warn("dropping malformed subscription update",
			"path", update.Path,
			"error", err)
		r.logError(log.LayerSubscription, err.Error(), 0, "decode update for "+update.Path)
		return
	}
	if !r.subs.Deliver(update.Path, v, update.Timestamp) {
		r.logger.Debug("dropping update for unsubscribed path", "path", update.Path)
	}
}

// HandleClose tears the session down after the link went away. Every
// outstanding request fails with ErrLinkClosed (wrapping cause, if any) and
// every subscription ends. Later requests fail with ErrLinkClosed.
func (r *Requester) HandleClose(cause error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.closeErr = cause
	r.mu.Unlock()

	err := r.linkClosedErr()
	failed := r.registry.FailAll(err, true)
	ended := r.subs.ClearAll(err)

	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	r.logState(log.StateEntitySession, "OPEN", "CLOSED", "", reason)
	r.logger.Info("link closed",
		"session", r.sessionID,
		"failed_requests", failed,
		"ended_subscriptions", len(ended),
		"cause", cause)
}

// IsClosed reports whether the link has closed.
func (r *Requester) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close tears the session down and releases its resources. Deliveries
// already queued still run.
func (r *Requester) Close() error {
	r.HandleClose(nil)
	r.results.Close()
	r.subs.Close(ErrLinkClosed)
	if r.fileLogger != nil {
		return r.fileLogger.Close()
	}
	return nil
}

// issue registers p and sends req under the allocated id. If the request
// cannot be sent, p fails instead. It returns true if req was sent.
func (r *Requester) issue(req *wire.Request, p correlation.Pending, assign func(uint32)) bool {
	id, err := r.registry.Register(req.Method, req.Path, p)
	if err != nil {
		if errors.Is(err, correlation.ErrClosed) {
			err = r.linkClosedErr()
		}
		p.Fail(err)
		return false
	}
	req.RequestID = id
	if assign != nil {
		assign(id)
	}

	if err := r.send(req); err != nil {
		r.registry.Fail(id, err)
		return false
	}
	return true
}

// send hands req to the link, wrapping a failure in ErrSendFailed.
func (r *Requester) send(req *wire.Request) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	r.logRequest(req)
	if err := r.link.Send(req); err != nil {
		r.logger.Warn("send failed",
			"rid", req.RequestID,
			"method", req.Method.String(),
			"path", req.Path,
			"error", err)
		r.logError(log.LayerLink, err.Error(), req.RequestID, "send "+req.Method.String())
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}

// endSubscription ends sub with err unless it already ended.
func (r *Requester) endSubscription(sub *subscription.Subscription, err error) {
	if id := sub.RequestID(); id != 0 {
		r.registry.Cancel(id)
	}
	if !r.subs.Remove(sub, err) {
		return
	}
	if !errors.Is(err, ErrLinkClosed) {
		r.logger.Warn("subscription failed", "path", sub.Path(), "error", err)
	}
	r.logState(log.StateEntitySubscription, subscription.StateSubscribed.String(), subscription.StateUnsubscribed.String(), sub.Path(), err.Error())
}

func (r *Requester) handleUnknown(resp *wire.Response) {
	r.logger.Warn("response for unknown request id", "rid", resp.RequestID, "stream", string(resp.Stream))
	r.logError(log.LayerCorrelation, "unknown request id", resp.RequestID, "resolve response")
}

func (r *Requester) linkClosedErr() error {
	r.mu.Lock()
	cause := r.closeErr
	r.mu.Unlock()
	if cause != nil {
		return fmt.Errorf("%w: %w", ErrLinkClosed, cause)
	}
	return ErrLinkClosed
}

func (r *Requester) recoverHandler(queue string) func(any) {
	return func(recovered any) {
		r.logger.Error("handler panicked", "queue", queue, "panic", recovered)
	}
}
