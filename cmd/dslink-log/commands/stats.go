package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dslink-go/dslink/pkg/log"
	"github.com/dslink-go/dslink/pkg/wire"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	RequestsByMethod  map[wire.Method]int
	Sessions          map[string]*SessionStats
	Updates           int
	RemoteErrors      int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single requester session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	LinkName  string

	// Latency over responses that reported one.
	Responses    int
	TotalLatency time.Duration
	MaxLatency   time.Duration
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		RequestsByMethod:  make(map[wire.Method]int),
		Sessions:          make(map[string]*SessionStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}
	if event.LinkName != "" && sess.LinkName == "" {
		sess.LinkName = event.LinkName
	}

	if msg := event.Message; msg != nil {
		switch msg.Type {
		case log.MessageTypeRequest:
			if msg.Method != nil {
				s.RequestsByMethod[*msg.Method]++
			}
		case log.MessageTypeResponse:
			if msg.ErrorType != "" {
				s.RemoteErrors++
			}
			if msg.Latency != nil {
				sess.Responses++
				sess.TotalLatency += *msg.Latency
				if *msg.Latency > sess.MaxLatency {
					sess.MaxLatency = *msg.Latency
				}
			}
		case log.MessageTypeUpdate:
			s.Updates++
		}
	}

	if event.Error != nil {
		s.Errors++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== DSLink Requester Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerLink, log.LayerCorrelation, log.LayerSubscription} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.RequestsByMethod) > 0 {
		fmt.Fprintln(w, "Requests by Method:")
		for _, m := range []wire.Method{wire.MethodSet, wire.MethodList, wire.MethodInvoke, wire.MethodSubscribe, wire.MethodUnsubscribe, wire.MethodClose} {
			if count := stats.RequestsByMethod[m]; count > 0 {
				fmt.Fprintf(w, "  %-14s %d\n", m.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if stats.Updates > 0 {
		fmt.Fprintf(w, "Subscription Updates: %d\n", stats.Updates)
	}
	if stats.RemoteErrors > 0 {
		fmt.Fprintf(w, "Remote Errors: %d\n", stats.RemoteErrors)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(s.id), s.stats.Events, duration)
			if s.stats.LinkName != "" {
				fmt.Fprintf(w, "           Link: %s\n", s.stats.LinkName)
			}
			if s.stats.Responses > 0 {
				avg := s.stats.TotalLatency / time.Duration(s.stats.Responses)
				fmt.Fprintf(w, "           Latency: avg %s, max %s over %d responses\n",
					formatDuration(avg), formatDuration(s.stats.MaxLatency), s.stats.Responses)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
