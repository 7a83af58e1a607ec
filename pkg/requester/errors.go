package requester

import (
	"errors"
	"fmt"

	"github.com/dslink-go/dslink/pkg/wire"
)

// Requester errors.
var (
	ErrLinkClosed  = errors.New("link closed")
	ErrSendFailed  = errors.New("send failed")
	ErrInvalidPath = errors.New("invalid path")
)

// RemoteError is a refusal reported by the responder for a set or list
// request.
type RemoteError struct {
	Method wire.Method
	Path   string
	Type   string
	Msg    string
	Detail string
	Phase  string
}

func newRemoteError(method wire.Method, path string, e *wire.Error) *RemoteError {
	return &RemoteError{
		Method: method,
		Path:   path,
		Type:   e.Type,
		Msg:    e.Message(),
		Detail: e.Detail,
		Phase:  e.Phase,
	}
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s (%s)", e.Method, e.Path, e.Msg, e.Detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Msg)
}

// InvokeError is an error reported by the responder for an invocation.
type InvokeError struct {
	Message string
	Detail  string
}

func (e *InvokeError) Error() string {
	if e.Detail != "" {
		return "invoke: " + e.Message + ": " + e.Detail
	}
	return "invoke: " + e.Message
}

// DecodeError reports a response that does not have the shape its request
// method requires.
type DecodeError struct {
	Method    wire.Method
	RequestID uint32

	// Index of the offending entry in the response updates, -1 if the
	// response as a whole is malformed.
	Index int

	Reason string
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decode %s response %d: entry %d: %s", e.Method, e.RequestID, e.Index, e.Reason)
	}
	return fmt.Sprintf("decode %s response %d: %s", e.Method, e.RequestID, e.Reason)
}
