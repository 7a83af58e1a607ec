package correlation

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dslink-go/dslink/pkg/wire"
)

// Registry errors.
var (
	ErrExhausted = errors.New("too many pending requests")
	ErrClosed    = errors.New("registry is closed")
)

// Pending is the caller-side state waiting on a request id.
//
// Terminal and Deliver are called for every response matching the id,
// Fail at most once when the registry gives up on the entry. Deliver and
// Fail run outside the registry lock and must not block.
type Pending interface {
	// Terminal reports whether resp ends the request.
	Terminal(resp *wire.Response) bool

	// Deliver hands a response to the caller.
	Deliver(resp *wire.Response)

	// Fail ends the request without a response.
	Fail(err error)
}

// Info describes a pending entry.
type Info struct {
	ID       uint32
	Method   wire.Method
	Path     string
	IssuedAt time.Time
}

type entry struct {
	info    Info
	pending Pending
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxPending caps the number of simultaneously pending ids.
// Zero means no cap.
func WithMaxPending(n int) Option {
	return func(r *Registry) {
		r.maxPending = n
	}
}

// WithUnknownHandler sets the hook called for responses whose id is not
// pending.
func WithUnknownHandler(fn func(resp *wire.Response)) Option {
	return func(r *Registry) {
		r.onUnknown = fn
	}
}

// WithClock overrides the time source used for IssuedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// Registry maps request ids to pending entries.
type Registry struct {
	mu      sync.Mutex
	next    uint32
	entries map[uint32]*entry
	closed  bool

	maxPending int
	onUnknown  func(resp *wire.Response)
	now        func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		next:    1,
		entries: make(map[uint32]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register allocates a fresh id for p and stores it.
func (r *Registry) Register(method wire.Method, path string, p Pending) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}
	if r.maxPending > 0 && len(r.entries) >= r.maxPending {
		return 0, ErrExhausted
	}

	id := r.allocateLocked()
	r.entries[id] = &entry{
		info: Info{
			ID:       id,
			Method:   method,
			Path:     path,
			IssuedAt: r.now(),
		},
		pending: p,
	}
	return id, nil
}

// allocateLocked returns the next id that is neither reserved nor pending.
// At most len(entries)+1 candidates are in use or reserved, so the loop
// terminates.
func (r *Registry) allocateLocked() uint32 {
	for {
		id := r.next
		r.next++
		if id == wire.SubscriptionRequestID {
			continue
		}
		if _, inUse := r.entries[id]; inUse {
			continue
		}
		return id
	}
}

// Resolve delivers resp to the entry pending on resp.RequestID. The entry is
// removed first if the response is terminal for it. It returns the entry's
// info and false when no entry was pending.
func (r *Registry) Resolve(resp *wire.Response) (Info, bool) {
	r.mu.Lock()
	e, ok := r.entries[resp.RequestID]
	if !ok {
		onUnknown := r.onUnknown
		r.mu.Unlock()
		if onUnknown != nil {
			onUnknown(resp)
		}
		return Info{}, false
	}
	if e.pending.Terminal(resp) {
		delete(r.entries, resp.RequestID)
	}
	r.mu.Unlock()

	e.pending.Deliver(resp)
	return e.info, true
}

// Cancel removes the entry for id without delivering anything.
func (r *Registry) Cancel(id uint32) (Pending, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	delete(r.entries, id)
	return e.pending, true
}

// Fail removes the entry for id and fails it with err.
func (r *Registry) Fail(id uint32, err error) bool {
	p, ok := r.Cancel(id)
	if ok {
		p.Fail(err)
	}
	return ok
}

// FailAll fails every pending entry with err, in id order, and empties the
// registry. If closeAfter is true, later Register calls fail with ErrClosed.
func (r *Registry) FailAll(err error, closeAfter bool) int {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[uint32]*entry)
	if closeAfter {
		r.closed = true
	}
	r.mu.Unlock()

	ids := make([]uint32, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		entries[id].pending.Fail(err)
	}
	return len(ids)
}

// Lookup returns the info of the entry pending on id.
func (r *Registry) Lookup(id uint32) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return Info{}, false
	}
	return e.info, true
}

// Len returns the number of pending entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// IsClosed reports whether FailAll closed the registry.
func (r *Registry) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
