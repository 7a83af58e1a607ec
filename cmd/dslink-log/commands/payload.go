package commands

import (
	"fmt"

	"github.com/dslink-go/dslink/pkg/value"
)

// payloadValue converts a decoded log payload into a Value. Payloads read
// back from CBOR carry interface-keyed maps, which FromAny accepts.
func payloadValue(p any) (value.Value, bool) {
	v, err := value.FromAny(p)
	if err != nil {
		return value.Value{}, false
	}
	return v, true
}

// formatPayload renders a payload deterministically.
func formatPayload(p any) string {
	if v, ok := payloadValue(p); ok {
		if s, isString := v.AsString(); isString {
			return fmt.Sprintf("%q", s)
		}
		return v.String()
	}
	return fmt.Sprintf("%v", p)
}

// jsonPayload returns a form of p that encoding/json can marshal.
func jsonPayload(p any) any {
	if v, ok := payloadValue(p); ok {
		return v.Any()
	}
	return fmt.Sprintf("%v", p)
}
