// Package requester implements the requester side of a DSLink session: it
// issues set, list, invoke and subscribe operations against a remote node
// tree over one shared link and routes the asynchronous responses back to
// the caller.
//
// # Link
//
// The requester does not own a transport. It hands structured requests to a
// Link and is fed by the embedding application:
//
//	r, _ := requester.NewRequester(link, requester.DefaultConfig())
//	// on every message read from the link:
//	r.HandleResponse(resp)
//	r.HandleSubscriptionUpdate(update)
//	// when the link goes away:
//	r.HandleClose(err)
//
// # Delivery
//
// Handlers never run on the caller's stack. Set, list and invoke results are
// delivered one at a time on the requester's result queue; subscription
// updates go through a separate queue owned by the subscription manager, in
// arrival order per path. Every set and invoke reaches its handler exactly
// once, a list stream ends with exactly one delivery that has Closed set,
// and both happen even when the link closes with requests outstanding.
//
// Failures arrive the same way as results. Issue methods never return an
// error or panic for a bad path, a closed link or a send failure; the error
// is in the delivered response and in the returned handle.
//
// # Errors
//
//   - ErrInvalidPath: the path is empty or cannot be resolved.
//   - ErrLinkClosed: the link closed before a response arrived, or was
//     already closed.
//   - ErrSendFailed: the link rejected the request.
//   - *RemoteError: the responder refused a set or list.
//   - *InvokeError: the responder reported an invocation error.
//   - *DecodeError: a response did not have the shape its method requires.
package requester
