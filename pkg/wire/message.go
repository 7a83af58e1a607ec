package wire

import (
	"fmt"
	"strings"
	"time"

	"github.com/dslink-go/dslink/pkg/value"
)

// SubscriptionRequestID is reserved: responders push subscription updates
// on it, so it is never allocated to a request.
const SubscriptionRequestID uint32 = 0

// Request is a requester-to-responder message.
type Request struct {
	RequestID uint32
	Method    Method
	Path      string

	// Value is the value to write (set).
	Value value.Value

	// Params are the invoke parameters (invoke). Null when absent.
	Params value.Value

	// Permit optionally caps the permission the invoke runs with.
	Permit string

	// QoS is the subscription quality of service level (subscribe, 0-3).
	QoS uint8
}

// Validate checks if the request is well formed.
func (r *Request) Validate() error {
	if r.RequestID == SubscriptionRequestID {
		return fmt.Errorf("request id 0 is reserved for subscription updates")
	}
	if !r.Method.IsValid() {
		return fmt.Errorf("invalid method: %d", r.Method)
	}
	if r.Method != MethodClose && !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("invalid path: %q", r.Path)
	}
	if r.Method == MethodSubscribe && r.QoS > 3 {
		return fmt.Errorf("invalid qos: %d", r.QoS)
	}
	return nil
}

// Column describes one column of an invoke result table.
type Column struct {
	Name string
	Type string
}

// Response is a responder-to-requester message correlated by RequestID.
type Response struct {
	RequestID uint32
	Stream    StreamState

	// Updates is the decoded payload: list entries or invoke rows.
	Updates []any

	// Columns describes invoke result rows when the responder sends them.
	Columns []Column

	// Error is set when the responder refused or failed the request.
	Error *Error
}

// IsClosed returns true if this is the last response of its stream.
func (r *Response) IsClosed() bool {
	return r.Stream.IsClosed()
}

// HasError returns true if the responder reported an error.
func (r *Response) HasError() bool {
	return r.Error != nil
}

// SubscriptionUpdate is a value update pushed for a subscribed path.
type SubscriptionUpdate struct {
	Path      string
	Value     any
	Timestamp time.Time
}
