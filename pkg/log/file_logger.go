package log

import (
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileExtension is the conventional extension of protocol log files.
const FileExtension = ".dlog"

// FileLogger writes protocol events as a CBOR stream.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	w       io.WriteCloser
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
	dropped uint64
}

// NewFileLogger creates a FileLogger that appends to the file at path,
// creating it with permissions 0644 if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return NewStreamLogger(f), nil
}

// NewStreamLogger creates a FileLogger writing to w. Close closes w.
func NewStreamLogger(w io.WriteCloser) *FileLogger {
	return &FileLogger{
		w:       w,
		encoder: NewEncoder(w),
	}
}

// Log writes an event. Encoding errors are counted, not returned: logging
// must not disrupt the requester.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		l.dropped++
	}
}

// Dropped returns how many events could not be encoded.
func (l *FileLogger) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close closes the underlying writer. It is safe to call Close multiple
// times; later Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.w.Close()
}

var _ Logger = (*FileLogger)(nil)
