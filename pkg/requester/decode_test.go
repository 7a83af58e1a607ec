package requester

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dslink-go/dslink/pkg/value"
	"github.com/dslink-go/dslink/pkg/wire"
)

var valueEqual = cmp.Comparer(value.Value.Equal)

func TestDecodeListUpdates(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		raw   []any
		want  []ListUpdate
		confs []string
		attrs []string
	}{
		{
			name: "empty",
			path: "/values",
			raw:  nil,
			want: []ListUpdate{},
		},
		{
			name: "pairs",
			path: "/values",
			raw:  []any{[]any{"a", map[string]any{"$is": "node"}}, []any{"b"}},
			want: []ListUpdate{
				{Path: "/values/a", Name: "a", Value: value.Map(map[string]value.Value{"$is": value.String("node")})},
				{Path: "/values/b", Name: "b", Value: value.Null()},
			},
		},
		{
			name: "keyed changes",
			path: "/",
			raw: []any{
				map[string]any{"name": "gone", "change": "remove"},
				map[string]any{"name": "new", "change": "update", "value": map[string]any{"$type": "bool"}},
				map[any]any{"name": "plain"},
			},
			want: []ListUpdate{
				{Path: "/gone", Name: "gone", Value: value.Null(), Removed: true},
				{Path: "/new", Name: "new", Value: value.Map(map[string]value.Value{"$type": value.String("bool")})},
				{Path: "/plain", Name: "plain", Value: value.Null()},
			},
		},
		{
			name:  "configs and attributes",
			path:  "/values/settable",
			raw:   []any{[]any{"$is", "node"}, []any{"$writable", "write"}, []any{"@unit", "V"}, []any{"child", nil}},
			want:  []ListUpdate{{Path: "/values/settable/child", Name: "child", Value: value.Null()}},
			confs: []string{"$is", "$writable"},
			attrs: []string{"@unit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := DecodeListUpdates(tt.path, tt.raw)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, batch.Updates, valueEqual); diff != "" {
				t.Errorf("updates mismatch (-want +got):\n%s", diff)
			}
			assert.ElementsMatch(t, tt.confs, keys(batch.Configs))
			assert.ElementsMatch(t, tt.attrs, keys(batch.Attributes))
		})
	}
}

func TestDecodeListUpdatesRemovedConfig(t *testing.T) {
	batch, err := DecodeListUpdates("/n", []any{map[string]any{"name": "$name", "change": "remove"}})
	require.NoError(t, err)
	assert.Empty(t, batch.Updates)
	assert.True(t, batch.Configs["$name"].IsNull())
}

func TestDecodeListUpdatesMalformed(t *testing.T) {
	tests := []struct {
		name  string
		raw   []any
		index int
	}{
		{"number entry", []any{[]any{"ok"}, 7}, 1},
		{"empty pair", []any{[]any{}}, 0},
		{"non-string name", []any{[]any{1, "x"}}, 0},
		{"empty name", []any{[]any{""}}, 0},
		{"map without name", []any{map[string]any{"change": "remove"}}, 0},
		{"unknown change", []any{map[string]any{"name": "a", "change": "rename"}}, 0},
		{"unsupported type", []any{struct{}{}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeListUpdates("/values", tt.raw)
			var de *DecodeError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, wire.MethodList, de.Method)
			assert.Equal(t, tt.index, de.Index)
			assert.NotEmpty(t, de.Reason)
		})
	}
}

func TestDecodeInvoke(t *testing.T) {
	t.Run("rows in wire order", func(t *testing.T) {
		table, err := DecodeInvoke(&wire.Response{
			RequestID: 3,
			Stream:    wire.StreamClosed,
			Updates:   []any{[]any{"a", 1}, []any{"b", 2.5, true}},
		})
		require.NoError(t, err)
		want := []Row{
			{value.String("a"), value.Int(1)},
			{value.String("b"), value.Number(2.5), value.Bool(true)},
		}
		if diff := cmp.Diff(want, table.Rows, valueEqual); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("zero rows", func(t *testing.T) {
		table, err := DecodeInvoke(&wire.Response{RequestID: 3, Stream: wire.StreamClosed})
		require.NoError(t, err)
		assert.NotNil(t, table.Rows)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("columns only", func(t *testing.T) {
		table, err := DecodeInvoke(&wire.Response{Columns: []wire.Column{{Name: "x", Type: "number"}}})
		require.NoError(t, err)
		assert.Equal(t, 0, table.ColumnIndex("x"))
		assert.Equal(t, -1, table.ColumnIndex("y"))
		_, ok := table.Get(0, "x")
		assert.False(t, ok)
	})

	t.Run("error is authoritative", func(t *testing.T) {
		table, err := DecodeInvoke(&wire.Response{
			Stream:  wire.StreamClosed,
			Updates: []any{7},
			Error:   &wire.Error{Type: wire.ErrorTypeInvalidPath},
		})
		assert.Nil(t, table)
		var ie *InvokeError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, wire.ErrorTypeInvalidPath, ie.Message)
		assert.Empty(t, ie.Detail)
	})

	t.Run("no markers", func(t *testing.T) {
		_, err := DecodeInvoke(&wire.Response{RequestID: 9})
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, uint32(9), de.RequestID)
		assert.Equal(t, -1, de.Index)
		var ie *InvokeError
		assert.False(t, errors.As(err, &ie))
	})

	t.Run("scalar row", func(t *testing.T) {
		_, err := DecodeInvoke(&wire.Response{RequestID: 4, Stream: wire.StreamClosed, Updates: []any{"x"}})
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, uint32(4), de.RequestID)
		assert.Equal(t, 0, de.Index)
	})

	t.Run("keyed row without columns", func(t *testing.T) {
		_, err := DecodeInvoke(&wire.Response{Stream: wire.StreamClosed, Updates: []any{map[string]any{"a": 1}}})
		var de *DecodeError
		assert.ErrorAs(t, err, &de)
	})
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "invoke: not found: /x", (&InvokeError{Message: "not found", Detail: "/x"}).Error())
	assert.Equal(t, "invoke: not found", (&InvokeError{Message: "not found"}).Error())

	re := newRemoteError(wire.MethodSet, "/a", &wire.Error{Type: wire.ErrorTypePermissionDenied})
	assert.Equal(t, "set /a: permissionDenied", re.Error())

	de := &DecodeError{Method: wire.MethodList, RequestID: 2, Index: 1, Reason: "bad"}
	assert.Equal(t, "decode list response 2: entry 1: bad", de.Error())
}

func keys(m map[string]value.Value) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
