package log

import (
	"time"

	"github.com/dslink-go/dslink/pkg/wire"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the requester session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// LinkName is the name of the link the requester runs on, if known.
	LinkName string `cbor:"6,keyasint,omitempty"`

	// One of these is set.
	Message     *MessageEvent     `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which part of the requester captured the event.
type Layer uint8

const (
	// LayerLink is the link boundary (structured messages in and out).
	LayerLink Layer = 0
	// LayerCorrelation is request id bookkeeping.
	LayerCorrelation Layer = 1
	// LayerSubscription is per-path subscription handling.
	LayerSubscription Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerLink:
		return "LINK"
	case LayerCorrelation:
		return "CORRELATION"
	case LayerSubscription:
		return "SUBSCRIPTION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a request, response or update.
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures a structured message crossing the link.
type MessageEvent struct {
	// Type distinguishes request/response/update.
	Type MessageType `cbor:"1,keyasint"`

	// RequestID correlates request/response pairs (0 for updates).
	RequestID uint32 `cbor:"2,keyasint"`

	// For requests: the method.
	Method *wire.Method `cbor:"3,keyasint,omitempty"`

	// Path is the node path (requests and updates).
	Path string `cbor:"4,keyasint,omitempty"`

	// For responses: the stream state.
	Stream wire.StreamState `cbor:"5,keyasint,omitempty"`

	// For responses: the responder error, if any.
	ErrorType string `cbor:"6,keyasint,omitempty"`

	// Payload is a CBOR-compatible rendition of the message body.
	Payload any `cbor:"7,keyasint,omitempty"`

	// Latency is the time from issuing the request to this response.
	Latency *time.Duration `cbor:"8,keyasint,omitempty"`
}

// MessageType distinguishes request/response/update.
type MessageType uint8

const (
	// MessageTypeRequest indicates a request message.
	MessageTypeRequest MessageType = 0
	// MessageTypeResponse indicates a response message.
	MessageTypeResponse MessageType = 1
	// MessageTypeUpdate indicates a subscription update.
	MessageTypeUpdate MessageType = 2
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	case MessageTypeUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures session, stream and subscription lifecycle.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Path of the stream or subscription, if any.
	Path string `cbor:"4,keyasint,omitempty"`

	// Reason for the change (if available).
	Reason string `cbor:"5,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntitySession indicates a requester session state change.
	StateEntitySession StateEntity = 0
	// StateEntitySubscription indicates a subscription state change.
	StateEntitySubscription StateEntity = 1
	// StateEntityStream indicates a list or invoke stream state change.
	StateEntityStream StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntitySession:
		return "SESSION"
	case StateEntitySubscription:
		return "SUBSCRIPTION"
	case StateEntityStream:
		return "STREAM"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// RequestID of the affected request, if any.
	RequestID uint32 `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
