package roster

import (
	"log/slog"
)

// EventKind identifies a signal emitted to the presentation layer.
type EventKind uint8

const (
	// EventRosterChanged fires after a confirmed change to the roster.
	EventRosterChanged EventKind = iota
	// EventScrollToTop asks the presentation layer to bring the edit form into view.
	EventScrollToTop
)

func (k EventKind) String() string {
	switch k {
	case EventRosterChanged:
		return "roster_changed"
	case EventScrollToTop:
		return "scroll_to_top"
	default:
		return "unknown"
	}
}

// Event is a signal emitted by the Store.
type Event struct {
	Kind     EventKind
	MemberID string
}

// Listener receives Store events. It is called synchronously.
type Listener func(Event)

// Reporter is the observability sink for absorbed remote failures.
type Reporter interface {
	Report(op string, err error)
}

// SlogReporter logs remote failures with log/slog.
type SlogReporter struct{}

// Report logs the failure at ERROR.
func (SlogReporter) Report(op string, err error) {
	slog.Error("roster_remote_failed", "op", op, "error", err)
}
