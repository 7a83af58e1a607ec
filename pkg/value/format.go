package value

import (
	"strconv"
	"strings"
)

// String returns a deterministic rendering of v for logs. A top-level String
// value renders as its raw text; strings nested in containers are quoted.
func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(v.n, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindMap:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			v.m[k].format(sb)
		}
		sb.WriteByte('}')
	case KindSequence:
		sb.WriteByte('[')
		for i, e := range v.seq {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.format(sb)
		}
		sb.WriteByte(']')
	default:
		sb.WriteString("<invalid>")
	}
}
