package subscription

import (
	"errors"
	"sync"
	"time"

	"github.com/dslink-go/dslink/pkg/value"
)

// Subscription errors.
var (
	ErrResourceExhausted    = errors.New("maximum subscriptions reached")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidQoS           = errors.New("invalid qos level")
)

// Default subscription limits.
const (
	DefaultMaxSubscriptions = 1024
	MaxQoS                  = 3
)

// State is the per-path subscription state.
type State uint8

const (
	// StateUnsubscribed means no handler is registered for the path.
	StateUnsubscribed State = iota
	// StateSubscribed means updates for the path reach the handler.
	StateSubscribed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnsubscribed:
		return "UNSUBSCRIBED"
	case StateSubscribed:
		return "SUBSCRIBED"
	default:
		return "UNKNOWN"
	}
}

// Update is one value pushed for a subscribed path.
type Update struct {
	Path  string
	Value value.Value

	// Timestamp is when the responder sampled the value; zero if it did
	// not say.
	Timestamp time.Time

	// Sequence numbers updates per path from 1 in arrival order.
	Sequence uint64
}

// Handler receives updates for one path.
type Handler func(Update)

// Config holds subscription manager configuration.
type Config struct {
	// MaxSubscriptions is the maximum number of subscribed paths.
	MaxSubscriptions int
}

// DefaultConfig returns the default subscription configuration.
func DefaultConfig() Config {
	return Config{
		MaxSubscriptions: DefaultMaxSubscriptions,
	}
}

// Subscription is the state of one subscribed path.
type Subscription struct {
	mu sync.RWMutex

	path    string
	qos     uint8
	handler Handler
	state   State

	requestID uint32
	done      chan struct{}
	err       error

	// issuing is set until the subscribe request has been handed to the
	// link. released records an Unsubscribe that came in meanwhile.
	issuing  bool
	released bool

	seq        uint64
	delivered  uint64
	lastValue  value.Value
	lastUpdate time.Time
}

// Path returns the subscribed node path.
func (s *Subscription) Path() string {
	return s.path
}

// QoS returns the quality of service level requested for the path.
func (s *Subscription) QoS() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.qos
}

// State returns the current state.
func (s *Subscription) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsActive returns true while the path is subscribed.
func (s *Subscription) IsActive() bool {
	return s.State() == StateSubscribed
}

// RequestID returns the id of the subscribe request carrying this path.
func (s *Subscription) RequestID() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requestID
}

// SetRequestID records the id of the subscribe request carrying this path.
func (s *Subscription) SetRequestID(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestID = id
}

// Issued marks the subscribe request as handed to the link. It returns
// true if the path was unsubscribed while the request was being issued, in
// which case the caller must cancel the request and unsubscribe remotely.
func (s *Subscription) Issued() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issuing = false
	released := s.released
	s.released = false
	return released
}

// Release claims the subscribe request of an unsubscribed path. It returns
// the request id and true if the caller must cancel it and unsubscribe
// remotely. While the request is still being issued it returns false and
// Issued hands the release to the issuer.
func (s *Subscription) Release() (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.issuing {
		s.released = true
		return 0, false
	}
	return s.requestID, true
}

// Done is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns why the subscription ended: nil after Unsubscribe, the
// failure otherwise. It returns nil while the subscription is active.
func (s *Subscription) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// LastValue returns the most recent value received and when it arrived.
func (s *Subscription) LastValue() (value.Value, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastValue, s.lastUpdate, s.seq > 0
}

// Delivered returns how many updates reached a handler.
func (s *Subscription) Delivered() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delivered
}

// record numbers an incoming update and caches it as the last value.
func (s *Subscription) record(v value.Value, ts time.Time, now time.Time) (Update, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubscribed {
		return Update{}, false
	}
	s.seq++
	s.lastValue = v
	s.lastUpdate = now
	return Update{Path: s.path, Value: v, Timestamp: ts, Sequence: s.seq}, true
}

// currentHandler returns the handler to run now, or nil once the path has
// been unsubscribed.
func (s *Subscription) currentHandler() Handler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubscribed || s.handler == nil {
		return nil
	}
	s.delivered++
	return s.handler
}

func (s *Subscription) deactivate(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubscribed {
		return false
	}
	s.state = StateUnsubscribed
	s.handler = nil
	s.err = err
	close(s.done)
	return true
}

func newSubscription(path string, qos uint8, handler Handler) *Subscription {
	return &Subscription{
		path:    path,
		qos:     qos,
		handler: handler,
		state:   StateSubscribed,
		done:    make(chan struct{}),
		issuing: true,
	}
}

// Failed returns a subscription for path that ended with err before it
// started.
func Failed(path string, err error) *Subscription {
	s := &Subscription{
		path:  path,
		state: StateUnsubscribed,
		done:  make(chan struct{}),
		err:   err,
	}
	close(s.done)
	return s
}
