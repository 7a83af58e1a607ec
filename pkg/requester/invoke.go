package requester

import (
	"errors"
	"fmt"

	"github.com/dslink-go/dslink/pkg/value"
	"github.com/dslink-go/dslink/pkg/wire"
)

// Row is one result row, values in column order.
type Row []value.Value

// Table is the result of an invocation.
type Table struct {
	// Columns describe the row values when the responder sent them.
	Columns []wire.Column

	// Rows in the order the responder sent them. Never nil.
	Rows []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value of the named column in row i.
func (t *Table) Get(i int, column string) (value.Value, bool) {
	c := t.ColumnIndex(column)
	if i < 0 || i >= len(t.Rows) || c < 0 || c >= len(t.Rows[i]) {
		return value.Null(), false
	}
	return t.Rows[i][c], true
}

// InvokeResponse is delivered to an InvokeHandler once per invocation.
type InvokeResponse struct {
	Path string

	// Table is nil when Err is set.
	Table *Table

	// Err is an *InvokeError, a *DecodeError or a transport error.
	Err error
}

// HasError returns true if the invocation failed.
func (r *InvokeResponse) HasError() bool {
	return r.Err != nil
}

// InvokeError returns the responder's error, or nil if the invocation did
// not fail remotely.
func (r *InvokeResponse) InvokeError() *InvokeError {
	var ie *InvokeError
	if errors.As(r.Err, &ie) {
		return ie
	}
	return nil
}

// InvokeHandler receives the outcome of an invocation.
type InvokeHandler func(*InvokeResponse)

// DecodeInvoke decodes a single invoke response. A response carrying an
// error yields an *InvokeError and its rows are ignored. A response with
// neither an error nor any result marker (rows, columns or a stream state)
// is a *DecodeError.
func DecodeInvoke(resp *wire.Response) (*Table, error) {
	if resp.HasError() {
		return nil, &InvokeError{Message: resp.Error.Message(), Detail: resp.Error.Detail}
	}
	if !hasResult(resp) {
		return nil, &DecodeError{
			Method:    wire.MethodInvoke,
			RequestID: resp.RequestID,
			Index:     -1,
			Reason:    "response has neither error nor result",
		}
	}

	rows, err := decodeRows(resp.Columns, resp.Updates)
	if err != nil {
		err.RequestID = resp.RequestID
		return nil, err
	}
	return &Table{Columns: copyColumns(resp.Columns), Rows: rows}, nil
}

func hasResult(resp *wire.Response) bool {
	return len(resp.Updates) > 0 || resp.Columns != nil || resp.Stream != wire.StreamUnset
}

// decodeRows decodes rows given as sequences, or as maps keyed by column
// name when columns are known.
func decodeRows(columns []wire.Column, raw []any) ([]Row, *DecodeError) {
	rows := make([]Row, 0, len(raw))
	for i, r := range raw {
		v, err := value.FromAny(r)
		if err != nil {
			return nil, &DecodeError{Method: wire.MethodInvoke, Index: i, Reason: err.Error()}
		}

		switch v.Kind() {
		case value.KindSequence:
			seq, _ := v.AsSeq()
			rows = append(rows, Row(seq))
		case value.KindMap:
			if len(columns) == 0 {
				return nil, &DecodeError{Method: wire.MethodInvoke, Index: i, Reason: "keyed row without columns"}
			}
			row := make(Row, len(columns))
			for c, col := range columns {
				row[c], _ = v.Get(col.Name)
			}
			rows = append(rows, row)
		default:
			return nil, &DecodeError{
				Method: wire.MethodInvoke,
				Index:  i,
				Reason: fmt.Sprintf("row is %s, not sequence", v.Kind()),
			}
		}
	}
	return rows, nil
}

func copyColumns(columns []wire.Column) []wire.Column {
	if columns == nil {
		return nil
	}
	return append([]wire.Column(nil), columns...)
}
