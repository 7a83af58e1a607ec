package requester

import (
	"fmt"
	"strings"

	"github.com/dslink-go/dslink/pkg/value"
	"github.com/dslink-go/dslink/pkg/wire"
)

// List change markers.
const (
	listChangeUpdate = "update"
	listChangeRemove = "remove"
)

// ListUpdate is one change to the children of a listed node.
type ListUpdate struct {
	// Path is the child's node path.
	Path string

	// Name is the child's name.
	Name string

	// Value is the child's metadata as sent by the responder (usually a map
	// of its configs). Null for removals.
	Value value.Value

	// Removed is true if the child is gone.
	Removed bool
}

// ListBatch is the decoded content of one list response.
type ListBatch struct {
	// Updates are the child changes, in wire order. Never nil.
	Updates []ListUpdate

	// Configs are the node's "$" entries and Attributes its "@" entries.
	// A removed entry maps to Null. Nil when the batch has none.
	Configs    map[string]value.Value
	Attributes map[string]value.Value
}

// ListResponse is delivered to a ListHandler once per response batch.
type ListResponse struct {
	Path string

	Updates    []ListUpdate
	Configs    map[string]value.Value
	Attributes map[string]value.Value

	// Closed is set on the last delivery of the stream.
	Closed bool

	// Err is a *RemoteError, *DecodeError or a transport error.
	Err error
}

// ListHandler receives list deliveries.
type ListHandler func(*ListResponse)

// DecodeListUpdates decodes the raw update entries of a list response for
// the node at path. Entries have one of three shapes:
//
//	[name, value]                                 child added or changed
//	{"name": n, "change": "remove"}               child removed
//	{"name": n, "change": "update", "value": v}   child added or changed
//
// Names starting with "$" or "@" are node configs and attributes; they are
// collected in the batch's maps instead of producing updates. An empty input
// decodes to an empty batch. Any other shape is a *DecodeError.
func DecodeListUpdates(path string, raw []any) (*ListBatch, error) {
	batch := &ListBatch{Updates: make([]ListUpdate, 0, len(raw))}

	for i, entry := range raw {
		name, v, removed, reason := decodeListEntry(entry)
		if reason != "" {
			return nil, &DecodeError{Method: wire.MethodList, Index: i, Reason: reason}
		}

		switch {
		case strings.HasPrefix(name, "$"):
			batch.Configs = setMeta(batch.Configs, name, v, removed)
		case strings.HasPrefix(name, "@"):
			batch.Attributes = setMeta(batch.Attributes, name, v, removed)
		default:
			batch.Updates = append(batch.Updates, ListUpdate{
				Path:    childPath(path, name),
				Name:    name,
				Value:   v,
				Removed: removed,
			})
		}
	}
	return batch, nil
}

func setMeta(m map[string]value.Value, name string, v value.Value, removed bool) map[string]value.Value {
	if m == nil {
		m = make(map[string]value.Value)
	}
	if removed {
		v = value.Null()
	}
	m[name] = v
	return m
}

// decodeListEntry returns the entry's name, value and removal flag, or a
// non-empty reason if the entry is malformed.
func decodeListEntry(entry any) (string, value.Value, bool, string) {
	v, err := value.FromAny(entry)
	if err != nil {
		return "", value.Value{}, false, err.Error()
	}

	switch v.Kind() {
	case value.KindSequence:
		if v.Len() == 0 {
			return "", value.Value{}, false, "empty entry"
		}
		name, ok := v.Index(0).AsString()
		if !ok {
			return "", value.Value{}, false, fmt.Sprintf("name is %s, not string", v.Index(0).Kind())
		}
		if name == "" {
			return "", value.Value{}, false, "empty name"
		}
		if v.Len() < 2 {
			return name, value.Null(), false, ""
		}
		return name, v.Index(1), false, ""

	case value.KindMap:
		nv, _ := v.Get("name")
		name, ok := nv.AsString()
		if !ok || name == "" {
			return "", value.Value{}, false, "missing name"
		}
		change := listChangeUpdate
		if cv, ok := v.Get("change"); ok {
			if change, ok = cv.AsString(); !ok {
				return "", value.Value{}, false, fmt.Sprintf("change is %s, not string", cv.Kind())
			}
		}
		switch change {
		case listChangeRemove:
			return name, value.Null(), true, ""
		case listChangeUpdate:
			val, _ := v.Get("value")
			return name, val, false, ""
		default:
			return "", value.Value{}, false, fmt.Sprintf("unknown change %q", change)
		}

	default:
		return "", value.Value{}, false, fmt.Sprintf("entry is %s, not sequence or map", v.Kind())
	}
}
