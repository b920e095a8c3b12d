package member

import (
	"context"
	"errors"

	domain "gymroster/internal/domain/member"
)

// ErrNotFound is returned when no member has the requested id.
var ErrNotFound = errors.New("member not found")

// Store persists Member state for the remote authority.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Member, error)
}
