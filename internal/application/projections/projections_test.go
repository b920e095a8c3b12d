package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	domainMember "gymroster/internal/domain/member"
)

type mockMemberStore struct {
	members []domainMember.Member
	err     error
}

// List returns the seeded members.
// PRE: none
// POST: Returns seeded members or the seeded error
func (m *mockMemberStore) List(_ context.Context) ([]domainMember.Member, error) {
	return m.members, m.err
}

func day(s string) time.Time {
	t, _ := domainMember.ParseDate(s)
	return t
}

func seededStore() *mockMemberStore {
	return &mockMemberStore{members: []domainMember.Member{
		{ID: "m1", Name: "Alice", Email: "alice@test.com", MembershipDate: day("2099-01-01")},
		{ID: "m2", Name: "Bob", Email: "bob@test.com", MembershipDate: day("2024-05-01")},
		{ID: "m3", Name: "Carol", Email: "carol@test.com", MembershipDate: day("2024-06-01")},
		{ID: "m4", Name: "Dan", Email: "dan@test.com", MembershipDate: day("2023-01-01")},
		{ID: "m5", Name: "Eve", Email: "eve@test.com", MembershipDate: day("2030-01-01")},
	}}
}

// TestQueryGetExpiredMembers verifies only expired members are returned, in order.
func TestQueryGetExpiredMembers(t *testing.T) {
	now := day("2024-06-01")
	got, err := QueryGetExpiredMembers(context.Background(), GetExpiredMembersQuery{Now: now}, GetExpiredMembersDeps{MemberStore: seededStore()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].MemberID != "m2" || got[1].MemberID != "m4" {
		t.Fatalf("expired = %+v, want [m2 m4]", got)
	}
	if got[0].DaysExpired != 31 || got[0].ExpiredOn != "2024-05-01" {
		t.Errorf("m2 = %+v, want 31 days since 2024-05-01", got[0])
	}
}

// TestQueryGetExpiredMembers_StoreError verifies store errors propagate.
func TestQueryGetExpiredMembers_StoreError(t *testing.T) {
	boom := errors.New("boom")
	_, err := QueryGetExpiredMembers(context.Background(), GetExpiredMembersQuery{}, GetExpiredMembersDeps{MemberStore: &mockMemberStore{err: boom}})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

// TestQueryGetRosterSummary verifies counts and the recent list.
func TestQueryGetRosterSummary(t *testing.T) {
	now := day("2024-06-01")
	res, err := QueryGetRosterSummary(context.Background(), GetRosterSummaryQuery{Now: now}, GetRosterSummaryDeps{MemberStore: seededStore()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 5 || res.Active != 3 || res.Expired != 2 {
		t.Errorf("counts = %d/%d/%d, want 5/3/2", res.Total, res.Active, res.Expired)
	}
	if len(res.Recent) != RecentMembersLimit {
		t.Fatalf("recent = %d, want %d", len(res.Recent), RecentMembersLimit)
	}
	if res.Recent[2].Status != "active" || res.Recent[2].Joined != "2024-06-01" {
		t.Errorf("boundary member = %+v, want active", res.Recent[2])
	}
}

// TestQueryGetRosterSummary_Empty verifies an empty roster yields zero counts.
func TestQueryGetRosterSummary_Empty(t *testing.T) {
	res, err := QueryGetRosterSummary(context.Background(), GetRosterSummaryQuery{}, GetRosterSummaryDeps{MemberStore: &mockMemberStore{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || res.Recent == nil {
		t.Errorf("result = %+v", res)
	}
}
