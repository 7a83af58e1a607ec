// Package wire defines the structured message shapes a requester exchanges
// with its link.
//
// The link collaborator owns the byte-level encoding. This package only
// describes what a request, a response and a subscription update look like
// once decoded, so the requester core never touches bytes.
//
// # Message Types
//
// There are three message types:
//   - Request: requester to responder (set, list, invoke, subscribe,
//     unsubscribe, close)
//   - Response: responder to requester, correlated by RequestID
//   - SubscriptionUpdate: responder to requester, keyed by node path
//
// # Streams
//
// A response carries the state of the stream it belongs to. Set and
// unsubscribe responses close immediately. List and invoke streams may stay
// open and deliver several responses before closing.
//
// # Payload Shapes
//
// Response.Updates holds the decoded payload tree as produced by the link's
// decoder (nil, bool, numbers, string, []any, map[string]any). List updates
// use the DSA shapes:
//
//	["childName", {...}]                       // child added / present
//	{"name": "childName", "change": "remove"}  // child removed
//
// Invoke updates are rows, each an array of column values.
package wire
