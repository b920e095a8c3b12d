package audit

import (
	"context"

	domain "gymroster/internal/domain/audit"
)

// DefaultLimit caps List when the caller passes a non-positive limit.
const DefaultLimit = 50

// Store persists audit events.
type Store interface {
	// Save persists an audit event.
	// PRE: event passes Validate
	// POST: Event is persisted
	Save(ctx context.Context, event domain.Event) error

	// List returns matching events, newest first.
	// POST: At most limit events
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Category   domain.Category
	ResourceID string
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
