package log

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeEvents(t *testing.T, events ...Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events"+FileExtension)
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, e)
	}
}

func TestFilteredReader(t *testing.T) {
	const (
		sessionA = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
		sessionB = "6fa459ea-ee8a-3ca4-894e-db77e160355e"
	)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path := writeEvents(t,
		Event{Timestamp: base, SessionID: sessionA, Direction: DirectionOut, Layer: LayerLink,
			Message: &MessageEvent{Type: MessageTypeRequest, RequestID: 1, Path: "/values/settable"}},
		Event{Timestamp: base.Add(time.Second), SessionID: sessionA, Direction: DirectionIn, Layer: LayerLink,
			Message: &MessageEvent{Type: MessageTypeResponse, RequestID: 1}},
		Event{Timestamp: base.Add(2 * time.Second), SessionID: sessionB, Direction: DirectionIn, Layer: LayerSubscription,
			Category: CategoryState, StateChange: &StateChangeEvent{Entity: StateEntitySubscription, NewState: "SUBSCRIBED", Path: "/values/dynamic"}},
		Event{Timestamp: base.Add(3 * time.Second), SessionID: sessionB, Layer: LayerCorrelation, Category: CategoryError,
			Error: &ErrorEventData{Layer: LayerCorrelation, Message: "unknown request id", RequestID: 44}},
	)

	dirIn := DirectionIn
	layerLink := LayerLink
	catErr := CategoryError
	end := base.Add(2 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 4},
		{"Session", Filter{SessionID: sessionB}, 2},
		{"SessionShortID", Filter{SessionID: "1b4e28ba"}, 2},
		{"Direction", Filter{Direction: &dirIn}, 3},
		{"Layer", Filter{Layer: &layerLink}, 2},
		{"Category", Filter{Category: &catErr}, 1},
		{"PathPrefix", Filter{PathPrefix: "/values"}, 2},
		{"TimeEnd", Filter{TimeEnd: &end}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader: %v", err)
			}
			defer r.Close()
			if got := len(readAll(t, r)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.dlog")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderStopsAtTruncatedEvent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path := writeEvents(t,
		Event{Timestamp: base, SessionID: "a"},
		Event{Timestamp: base.Add(time.Second), SessionID: "a"},
	)

	partial, err := EncodeEvent(Event{Timestamp: base.Add(2 * time.Second), SessionID: "a"})
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.Write(partial[:len(partial)/2]); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	if got := len(readAll(t, r)); got != 2 {
		t.Errorf("got %d events, want the 2 complete ones", got)
	}
}
