// Package log provides structured protocol logging for a DSLink requester.
//
// This package defines the Logger interface and Event types for capturing
// what crosses the link (requests, responses, subscription updates) and what
// happens to it inside the requester (stream and subscription state changes,
// late or malformed responses). It is separate from operational logging
// (slog): protocol capture is a machine-readable trace for debugging.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: append to a CBOR file
//	fl, _ := log.NewFileLogger("/var/log/dslink/requester.dlog")
//	cfg.ProtocolLogger = fl
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Event Types
//
// Events are captured at three layers:
//   - Link: messages crossing the link boundary (MessageEvent)
//   - Correlation: request bookkeeping (late responses, teardown)
//   - Subscription: per-path subscription state
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys and the
// .dlog extension. The dslink-log command views and summarizes them.
package log
