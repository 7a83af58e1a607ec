package wire

// Error is the structured error a responder attaches to a response.
//
// Type is a short machine-readable code such as "permissionDenied" or
// "invalidPath". Msg is human-readable, Detail optional.
type Error struct {
	Type   string `cbor:"1,keyasint,omitempty"`
	Msg    string `cbor:"2,keyasint,omitempty"`
	Detail string `cbor:"3,keyasint,omitempty"`
	Phase  string `cbor:"4,keyasint,omitempty"`
	Path   string `cbor:"5,keyasint,omitempty"`
}

// Message returns Msg, falling back to Type when the responder sent no text.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Type
}

// Common error types sent by responders.
const (
	ErrorTypePermissionDenied = "permissionDenied"
	ErrorTypeInvalidMethod    = "invalidMethod"
	ErrorTypeNotImplemented   = "notImplemented"
	ErrorTypeInvalidPath      = "invalidPath"
	ErrorTypeInvalidPaths     = "invalidPaths"
	ErrorTypeInvalidValue     = "invalidValue"
	ErrorTypeInvalidParameter = "invalidParameter"
	ErrorTypeDisconnected     = "disconnected"
	ErrorTypeFailed           = "failed"
)
