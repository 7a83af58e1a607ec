package wire

// StreamState is the state of the stream a response belongs to.
type StreamState string

const (
	// StreamUnset means the responder did not report a state.
	StreamUnset StreamState = ""

	// StreamInitialize is sent with the first batch of an open stream.
	StreamInitialize StreamState = "initialize"

	// StreamOpen means more responses will follow.
	StreamOpen StreamState = "open"

	// StreamClosed means the stream ended with this response.
	StreamClosed StreamState = "closed"
)

// IsClosed returns true if no further responses will follow.
func (s StreamState) IsClosed() bool {
	return s == StreamClosed
}

// IsValid returns true for the unset state and the three known states.
func (s StreamState) IsValid() bool {
	switch s {
	case StreamUnset, StreamInitialize, StreamOpen, StreamClosed:
		return true
	default:
		return false
	}
}
