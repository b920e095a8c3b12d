package member_test

import (
	"reflect"
	"strings"
	"testing"

	"gymroster/internal/domain/member"
)

func sampleRoster() []member.Member {
	return []member.Member{
		{ID: "1", Name: "Alice", Email: "a@x.com"},
		{ID: "2", Name: "Bob", Email: "bob@gym.io"},
		{ID: "3", Name: "Carol", Email: "carol@ALICE.org"},
	}
}

func ids(ms []member.Member) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

// TestFilter tests name/email substring matching.
func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns everything", "", []string{"1", "2", "3"}},
		{"name prefix", "ali", []string{"1", "3"}},
		{"case insensitive name", "BOB", []string{"2"}},
		{"email only", "gym.io", []string{"2"}},
		{"no match", "zed", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(member.Filter(sampleRoster(), tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

// TestFilter_AliceBob covers the two-member example.
func TestFilter_AliceBob(t *testing.T) {
	roster := []member.Member{{ID: "1", Name: "Alice", Email: "a@x.com"}, {ID: "2", Name: "Bob", Email: "b@x.com"}}
	got := member.Filter(roster, "ali")
	if len(got) != 1 || got[0].Name != "Alice" {
		t.Fatalf("Filter = %+v, want [Alice]", got)
	}
}

// TestFilter_SubsequenceProperty checks soundness and completeness for several queries.
func TestFilter_SubsequenceProperty(t *testing.T) {
	roster := sampleRoster()
	for _, q := range []string{"a", "o", "X.COM", "@", "carol", "li"} {
		got := member.Filter(roster, q)
		lq := strings.ToLower(q)

		// Every returned member matches and appears in roster order.
		pos := 0
		for _, m := range got {
			if !member.Matches(m, lq) {
				t.Errorf("query %q returned non-matching %q", q, m.ID)
			}
			for pos < len(roster) && roster[pos].ID != m.ID {
				pos++
			}
			if pos == len(roster) {
				t.Fatalf("query %q result %v is not a subsequence", q, ids(got))
			}
			pos++
		}

		// No omitted member matches.
		want := 0
		for _, m := range roster {
			if member.Matches(m, lq) {
				want++
			}
		}
		if want != len(got) {
			t.Errorf("query %q returned %d members, want %d", q, len(got), want)
		}
	}
}

// TestFilter_DoesNotMutateInput verifies the filter is pure.
func TestFilter_DoesNotMutateInput(t *testing.T) {
	roster := sampleRoster()
	before := append([]member.Member(nil), roster...)

	got := member.Filter(roster, "")
	got[0].Name = "changed"
	member.Filter(roster, "bob")

	if !reflect.DeepEqual(roster, before) {
		t.Errorf("input mutated: %+v", roster)
	}
}
