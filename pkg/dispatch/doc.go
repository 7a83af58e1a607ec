// Package dispatch runs handler callbacks off the caller's stack.
//
// A Queue is an unbounded FIFO drained by one goroutine, so callbacks
// pushed in some order run in that order and never concurrently with each
// other. Pushing never blocks, which keeps slow handlers from stalling the
// goroutine that feeds responses in from the link.
//
// A requester uses one Queue for request results and a separate one for
// subscription updates, so a busy subscription cannot delay the completion
// of a set or invoke (and vice versa).
package dispatch
