package value

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode encodes Values deterministically so protocol log captures of the
// same payload are byte-identical.
var encMode cbor.EncMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create value CBOR encoder mode: %v", err))
	}
}

// MarshalCBOR implements cbor.Marshaler.
func (v Value) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(v.Any())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (v *Value) UnmarshalCBOR(data []byte) error {
	var raw any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ cbor.Marshaler   = Value{}
	_ cbor.Unmarshaler = (*Value)(nil)
)
