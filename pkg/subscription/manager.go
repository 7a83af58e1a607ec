package subscription

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dslink-go/dslink/pkg/dispatch"
	"github.com/dslink-go/dslink/pkg/value"
)

// Manager tracks subscribed paths and delivers their updates in order.
type Manager struct {
	mu sync.RWMutex

	config Config
	subs   map[string]*Subscription
	queue  *dispatch.Queue
	now    func() time.Time
}

// NewManager creates a new subscription manager with default configuration.
func NewManager(onPanic func(recovered any)) *Manager {
	return NewManagerWithConfig(DefaultConfig(), onPanic)
}

// NewManagerWithConfig creates a new subscription manager. onPanic receives
// values recovered from panicking handlers.
func NewManagerWithConfig(config Config, onPanic func(recovered any)) *Manager {
	if config.MaxSubscriptions <= 0 {
		config.MaxSubscriptions = DefaultMaxSubscriptions
	}
	return &Manager{
		config: config,
		subs:   make(map[string]*Subscription),
		queue:  dispatch.NewQueue(onPanic),
		now:    time.Now,
	}
}

// Subscribe registers handler for path. It returns the subscription and
// whether the caller must send a subscribe request for it, which is only
// the case for a path that was not subscribed. Subscribing to a subscribed
// path replaces its handler and returns the existing subscription; qos only
// applies to new subscriptions.
func (m *Manager) Subscribe(path string, qos uint8, handler Handler) (*Subscription, bool, error) {
	if qos > MaxQoS {
		return nil, false, fmt.Errorf("%w: %d", ErrInvalidQoS, qos)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sub, ok := m.subs[path]; ok {
		sub.mu.Lock()
		sub.handler = handler
		sub.mu.Unlock()
		return sub, false, nil
	}

	if len(m.subs) >= m.config.MaxSubscriptions {
		return nil, false, ErrResourceExhausted
	}

	sub := newSubscription(path, qos, handler)
	m.subs[path] = sub
	return sub, true, nil
}

// Unsubscribe removes path. It returns the removed subscription, or false if
// the path was not subscribed; a second call for the same path is a no-op.
func (m *Manager) Unsubscribe(path string) (*Subscription, bool) {
	m.mu.Lock()
	sub, ok := m.subs[path]
	if ok {
		delete(m.subs, path)
	}
	m.mu.Unlock()

	if !ok || !sub.deactivate(nil) {
		return nil, false
	}
	return sub, true
}

// Remove ends sub with err if it is still the subscription registered for
// its path. It returns false when sub had already ended or was replaced.
func (m *Manager) Remove(sub *Subscription, err error) bool {
	m.mu.Lock()
	current, ok := m.subs[sub.path]
	if ok && current == sub {
		delete(m.subs, sub.path)
	}
	m.mu.Unlock()

	if !ok || current != sub {
		return false
	}
	return sub.deactivate(err)
}

// Deliver queues an update for path. It returns false when the path is not
// subscribed and the update was dropped.
func (m *Manager) Deliver(path string, v value.Value, ts time.Time) bool {
	m.mu.RLock()
	sub, ok := m.subs[path]
	now := m.now
	m.mu.RUnlock()
	if !ok {
		return false
	}

	update, ok := sub.record(v, ts, now())
	if !ok {
		return false
	}

	m.queue.Push(func() {
		if h := sub.currentHandler(); h != nil {
			h(update)
		}
	})
	return true
}

// ClearAll ends every subscription with err (e.g. on link loss) and returns
// them sorted by path.
func (m *Manager) ClearAll(err error) []*Subscription {
	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[string]*Subscription)
	m.mu.Unlock()

	out := make([]*Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.deactivate(err) {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

// Close ends all subscriptions with err and stops the delivery queue once
// it has drained.
func (m *Manager) Close(err error) []*Subscription {
	subs := m.ClearAll(err)
	m.queue.Close()
	return subs
}

// Get returns the subscription for path.
func (m *Manager) Get(path string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subs[path]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

// Count returns the number of subscribed paths.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// Paths returns the subscribed paths in sorted order.
func (m *Manager) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.subs))
	for p := range m.subs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
