package projections

import (
	"context"
	"time"

	"gymroster/internal/domain/member"
)

// RecentMembersLimit is how many members the dashboard lists.
const RecentMembersLimit = 4

// GetRosterSummaryQuery carries query parameters.
type GetRosterSummaryQuery struct {
	Now time.Time // reference instant; zero means time.Now()
}

// GetRosterSummaryDeps holds dependencies for GetRosterSummary.
type GetRosterSummaryDeps struct {
	MemberStore MemberStore
}

// RecentMember is one dashboard row.
type RecentMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
	Joined string `json:"joined"`
}

// GetRosterSummaryResult carries the dashboard counts.
type GetRosterSummaryResult struct {
	Total   int            `json:"total"`
	Active  int            `json:"active"`
	Expired int            `json:"expired"`
	Recent  []RecentMember `json:"recent"`
}

// QueryGetRosterSummary computes dashboard counts from one reference instant.
// PRE: none
// POST: Active + Expired == Total; Recent holds at most RecentMembersLimit rows in roster order
func QueryGetRosterSummary(ctx context.Context, query GetRosterSummaryQuery, deps GetRosterSummaryDeps) (GetRosterSummaryResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return GetRosterSummaryResult{}, err
	}

	active, expired := member.Count(members, now)
	result := GetRosterSummaryResult{
		Total:   len(members),
		Active:  active,
		Expired: expired,
		Recent:  []RecentMember{},
	}
	for i, m := range members {
		if i == RecentMembersLimit {
			break
		}
		result.Recent = append(result.Recent, RecentMember{
			ID:     m.ID,
			Name:   m.Name,
			Email:  m.Email,
			Status: string(member.Classify(m, now)),
			Joined: member.FormatDate(m.MembershipDate),
		})
	}
	return result, nil
}
