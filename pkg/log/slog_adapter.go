package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.LinkName != "" {
		attrs = append(attrs, slog.String("link", event.LinkName))
	}

	switch {
	case event.Message != nil:
		attrs = append(attrs,
			slog.Uint64("rid", uint64(event.Message.RequestID)),
			slog.String("msg_type", event.Message.Type.String()),
		)
		if event.Message.Method != nil {
			attrs = append(attrs, slog.String("method", event.Message.Method.String()))
		}
		if event.Message.Path != "" {
			attrs = append(attrs, slog.String("path", event.Message.Path))
		}
		if event.Message.Stream != "" {
			attrs = append(attrs, slog.String("stream", string(event.Message.Stream)))
		}
		if event.Message.ErrorType != "" {
			attrs = append(attrs, slog.String("error_type", event.Message.ErrorType))
		}
		if event.Message.Latency != nil {
			attrs = append(attrs, slog.Duration("latency", *event.Message.Latency))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Path != "" {
			attrs = append(attrs, slog.String("path", event.StateChange.Path))
		}
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.RequestID != 0 {
			attrs = append(attrs, slog.Uint64("rid", uint64(event.Error.RequestID)))
		}
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
