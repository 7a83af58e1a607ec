// Package commands implements the dslink-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/dslink-go/dslink/pkg/log"
)

// ViewOptions controls the view command.
type ViewOptions struct {
	Filter log.Filter

	// Color enables ANSI colors.
	Color bool
}

// printer formats events, optionally in color.
type printer struct {
	in, out, errc, state func(a ...interface{}) string
}

func newPrinter(enabled bool) *printer {
	if !enabled {
		plain := fmt.Sprint
		return &printer{in: plain, out: plain, errc: plain, state: plain}
	}
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return &printer{
		in:    mk(color.FgCyan),
		out:   mk(color.FgGreen),
		errc:  mk(color.FgRed, color.Bold),
		state: mk(color.FgYellow),
	}
}

// formatEvent writes a human-readable representation of the event to w.
func (p *printer) formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenID(event.SessionID)

	dir := p.in(event.Direction.String())
	if event.Direction == log.DirectionOut {
		dir = p.out(event.Direction.String())
	}

	var typeLabel string
	switch {
	case event.Message != nil:
		typeLabel = event.Message.Type.String()
	case event.StateChange != nil:
		typeLabel = p.state("STATE")
	case event.Error != nil:
		typeLabel = p.errc("ERROR")
	default:
		typeLabel = "UNKNOWN"
	}

	fmt.Fprintf(w, "%s [session:%s] %s %s %s", ts, session, dir, event.Layer.String(), typeLabel)
	if event.LinkName != "" {
		fmt.Fprintf(w, " (%s)", event.LinkName)
	}
	fmt.Fprintln(w)

	switch {
	case event.Message != nil:
		p.formatMessageDetails(w, event.Message)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func (p *printer) formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	if msg.Type != log.MessageTypeUpdate {
		fmt.Fprintf(w, "  RequestID: %d\n", msg.RequestID)
	}
	if msg.Method != nil {
		fmt.Fprintf(w, "  Method: %s\n", msg.Method.String())
	}
	if msg.Path != "" {
		fmt.Fprintf(w, "  Path: %s\n", msg.Path)
	}
	if msg.Stream != "" {
		fmt.Fprintf(w, "  Stream: %s\n", msg.Stream)
	}
	if msg.ErrorType != "" {
		fmt.Fprintf(w, "  Error: %s\n", p.errc(msg.ErrorType))
	}
	if msg.Latency != nil {
		fmt.Fprintf(w, "  Latency: %s\n", formatDuration(*msg.Latency))
	}
	if msg.Payload != nil {
		fmt.Fprintf(w, "  Payload: %s\n", formatPayload(msg.Payload))
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.Path != "" {
		fmt.Fprintf(w, "  Path: %s\n", sc.Path)
	}
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.RequestID != 0 {
		fmt.Fprintf(w, "  RequestID: %d\n", err.RequestID)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// RunView executes the view command.
func RunView(path string, opts ViewOptions, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, opts.Filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	p := newPrinter(opts.Color)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		p.formatEvent(output, event)
	}
	return nil
}
