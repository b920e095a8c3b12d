package projections

import (
	"context"

	domainMember "gymroster/internal/domain/member"
)

// MemberStore interface for member queries.
type MemberStore interface {
	List(ctx context.Context) ([]domainMember.Member, error)
}
