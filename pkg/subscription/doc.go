// Package subscription manages a requester's value subscriptions, keyed by
// node path.
//
// Each path moves through a two-state machine:
//
//	Unsubscribed ──Subscribe──► Subscribed ──Unsubscribe / ClearAll──► Unsubscribed
//
// # Handlers
//
// A path has exactly one handler. Subscribing again to a path that is
// already subscribed replaces the handler (last write wins) and keeps the
// request already on the link; the caller is told to issue a subscribe
// request only for a path that was not subscribed.
//
// # Delivery
//
// Updates are numbered per path in arrival order and pushed onto a
// dispatch.Queue that belongs to the manager alone, so subscription traffic
// never delays request results. The handler is looked up when an update is
// about to run: once Unsubscribe returns, queued updates for the path are
// dropped instead of delivered.
//
// # Lifecycle
//
// Subscriptions do not survive link loss. ClearAll ends every path with the
// given error; the caller must subscribe again on a new link. A
// Subscription's Done channel is closed when it ends, after which Err
// reports the reason.
package subscription
