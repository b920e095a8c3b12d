package projections

import (
	"context"
	"time"

	"gymroster/internal/domain/member"
)

// GetExpiredMembersQuery carries input for the expired-members projection.
type GetExpiredMembersQuery struct {
	Now time.Time // reference instant; zero means time.Now()
}

// GetExpiredMembersDeps holds dependencies for GetExpiredMembers.
type GetExpiredMembersDeps struct {
	MemberStore MemberStore
}

// ExpiredMemberResult represents a single expired membership.
type ExpiredMemberResult struct {
	MemberID    string
	Name        string
	Email       string
	ExpiredOn   string // YYYY-MM-DD
	DaysExpired int
}

// QueryGetExpiredMembers returns members whose membership date is before the reference instant.
// PRE: none
// POST: Results keep roster order; every result classifies Expired at query.Now
func QueryGetExpiredMembers(ctx context.Context, query GetExpiredMembersQuery, deps GetExpiredMembersDeps) ([]ExpiredMemberResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return nil, err
	}

	results := []ExpiredMemberResult{}
	for _, m := range members {
		if member.Classify(m, now) != member.StatusExpired {
			continue
		}
		results = append(results, ExpiredMemberResult{
			MemberID:    m.ID,
			Name:        m.Name,
			Email:       m.Email,
			ExpiredOn:   member.FormatDate(m.MembershipDate),
			DaysExpired: int(now.Sub(m.MembershipDate).Hours() / 24),
		})
	}
	return results, nil
}
