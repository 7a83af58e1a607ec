package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/dslink-go/dslink/pkg/log"
)

func readAll(t *testing.T, path string) []log.Event {
	t.Helper()

	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		e, err := reader.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		events = append(events, e)
	}
}

func TestRunFilter(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := append(sampleSession("1b4e28ba-2fa1-4001", start), sampleSession("6fa459ea-ee8a-4002", start.Add(time.Minute))...)
	path := createTestLogFile(t, events)

	tests := []struct {
		name string
		opts FilterOptions
		want int
	}{
		{"no filter", FilterOptions{}, 8},
		{"by session", FilterOptions{SessionID: "6fa459ea-ee8a-4002"}, 4},
		{"by short session id", FilterOptions{SessionID: shortenID("6fa459ea-ee8a-4002")}, 4},
		{"by layer", FilterOptions{Layer: "LINK"}, 4},
		{"by direction", FilterOptions{Direction: "out"}, 2},
		{"by category", FilterOptions{Category: "error"}, 2},
		{"by path prefix", FilterOptions{PathPrefix: "/downstream/dual/values/dyn"}, 2},
		{"by time range", FilterOptions{TimeStart: "2026-01-28T10:00:30Z", TimeEnd: "2026-01-28T10:01:01Z"}, 2},
		{"combined", FilterOptions{SessionID: "1b4e28ba-2fa1-4001", Direction: "in", Layer: "link"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Output = filepath.Join(t.TempDir(), "out"+log.FileExtension)

			n, err := RunFilter(path, tt.opts)
			if err != nil {
				t.Fatalf("RunFilter: %v", err)
			}
			if n != tt.want {
				t.Errorf("RunFilter returned %d, want %d", n, tt.want)
			}
			if got := len(readAll(t, tt.opts.Output)); got != tt.want {
				t.Errorf("output has %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestFilterOptionsBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		opts FilterOptions
	}{
		{"layer", FilterOptions{Layer: "transport"}},
		{"direction", FilterOptions{Direction: "sideways"}},
		{"category", FilterOptions{Category: "control"}},
		{"time start", FilterOptions{TimeStart: "yesterday"}},
		{"time end", FilterOptions{TimeEnd: "2026-13-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.opts.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunFilterInvalidOptionsWritesNothing(t *testing.T) {
	path := createTestLogFile(t, nil)
	out := filepath.Join(t.TempDir(), "out"+log.FileExtension)

	if _, err := RunFilter(path, FilterOptions{Output: out, Layer: "bogus"}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := log.NewReader(out); err == nil {
		t.Error("output file should not have been created")
	}
}
