// Package correlation tracks outstanding requests until their responses
// arrive.
//
// The Registry allocates request ids and maps each one to the Pending entry
// waiting for it. Ids are allocated under the registry lock and skip every id
// that is still pending, so two in-flight requests never share an id even
// after the 32-bit counter wraps. Id 0 is never allocated: responders use it
// for subscription updates.
//
// # Lifecycle
//
//	Register ──► pending ──Resolve(terminal)──► removed, delivered
//	                │
//	                ├──Resolve(non-terminal)──► delivered, stays pending
//	                ├──Cancel────────────────► removed, not delivered
//	                └──FailAll───────────────► removed, failed
//
// Whether a response is terminal is decided by the entry itself: set and
// invoke entries finish on their first closing response, list entries when
// the stream closes, subscribe entries never.
//
// Responses for ids that are not pending (duplicates, late arrivals after a
// teardown) are reported to the unknown-response hook and otherwise dropped.
package correlation
