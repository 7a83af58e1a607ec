package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dslink-go/dslink/pkg/log"
	"github.com/dslink-go/dslink/pkg/wire"
)

// createTestLogFile writes events to a fresh log file and returns its path.
func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test"+log.FileExtension)
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func methodPtr(m wire.Method) *wire.Method { return &m }

func durationPtr(d time.Duration) *time.Duration { return &d }

// sampleSession returns the events of a short session: a set request and
// its response, followed by an update and an unknown id error.
func sampleSession(sessionID string, start time.Time) []log.Event {
	return []log.Event{
		{
			Timestamp: start,
			SessionID: sessionID,
			LinkName:  "dual-requester",
			Direction: log.DirectionOut,
			Layer:     log.LayerLink,
			Category:  log.CategoryMessage,
			Message: &log.MessageEvent{
				Type:      log.MessageTypeRequest,
				RequestID: 1,
				Method:    methodPtr(wire.MethodSet),
				Path:      "/downstream/dual/values/settable",
				Payload:   "Hello world!",
			},
		},
		{
			Timestamp: start.Add(3 * time.Millisecond),
			SessionID: sessionID,
			LinkName:  "dual-requester",
			Direction: log.DirectionIn,
			Layer:     log.LayerLink,
			Category:  log.CategoryMessage,
			Message: &log.MessageEvent{
				Type:      log.MessageTypeResponse,
				RequestID: 1,
				Stream:    wire.StreamClosed,
				Latency:   durationPtr(3 * time.Millisecond),
			},
		},
		{
			Timestamp: start.Add(time.Second),
			SessionID: sessionID,
			Direction: log.DirectionIn,
			Layer:     log.LayerSubscription,
			Category:  log.CategoryMessage,
			Message: &log.MessageEvent{
				Type:    log.MessageTypeUpdate,
				Path:    "/downstream/dual/values/dynamic",
				Payload: map[string]any{"value": 42, "ok": true},
			},
		},
		{
			Timestamp: start.Add(2 * time.Second),
			SessionID: sessionID,
			Direction: log.DirectionIn,
			Layer:     log.LayerCorrelation,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:     log.LayerCorrelation,
				Message:   "response for unknown request id",
				RequestID: 99,
			},
		},
	}
}
