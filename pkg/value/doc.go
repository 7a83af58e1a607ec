// Package value implements the dynamic, self-describing datum exchanged with
// a remote node tree.
//
// A Value is a closed tagged union with six kinds:
//
//	Null, Bool, Number, String, Map, Sequence
//
// Numbers carry float64 precision. Maps are keyed by string and their
// iteration order carries no meaning. Sequences are ordered.
//
// Values are immutable once constructed: constructors copy the maps and
// slices they are given and accessors hand out copies. Two Values are
// compared structurally with Equal.
//
// # Conversion
//
// Link collaborators hand the requester decoded payload trees made of plain
// Go types (map[string]any, []any, float64, ...). FromAny turns such a tree
// into a Value and Any turns it back. There is no implicit coercion between
// kinds: AsNumber fails with ErrNotNumber on anything but a Number.
//
// # Formatting
//
// String renders a deterministic representation for logging and debugging.
// Map keys are printed in sorted order. It is not a wire encoding.
package value
