package wire

// Method is the requester operation carried by a Request.
type Method uint8

const (
	// MethodSet writes a value to a node.
	MethodSet Method = 1

	// MethodList opens a diff stream over a node's children.
	MethodList Method = 2

	// MethodInvoke invokes an action node.
	MethodInvoke Method = 3

	// MethodSubscribe registers for value updates on a node.
	MethodSubscribe Method = 4

	// MethodUnsubscribe cancels a subscription.
	MethodUnsubscribe Method = 5

	// MethodClose closes an open list or invoke stream.
	MethodClose Method = 6
)

// String returns the method name as it appears on the wire.
func (m Method) String() string {
	switch m {
	case MethodSet:
		return "set"
	case MethodList:
		return "list"
	case MethodInvoke:
		return "invoke"
	case MethodSubscribe:
		return "subscribe"
	case MethodUnsubscribe:
		return "unsubscribe"
	case MethodClose:
		return "close"
	default:
		return "unknown"
	}
}

// IsValid returns true if the method is a known requester method.
func (m Method) IsValid() bool {
	return m >= MethodSet && m <= MethodClose
}

// ParseMethod parses a wire method name.
func ParseMethod(s string) (Method, bool) {
	for m := MethodSet; m <= MethodClose; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}
