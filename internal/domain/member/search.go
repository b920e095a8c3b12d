package member

import "strings"

// Filter returns the members whose name or email contains query, ignoring case.
// PRE: none
// POST: Result is a subsequence of members; empty query returns every member in order
// INVARIANT: members is not mutated
func Filter(members []Member, query string) []Member {
	out := make([]Member, 0, len(members))
	if query == "" {
		return append(out, members...)
	}
	q := strings.ToLower(query)
	for _, m := range members {
		if Matches(m, q) {
			out = append(out, m)
		}
	}
	return out
}

// Matches reports whether m's name or email contains the lower-cased query.
func Matches(m Member, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(m.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(m.Email), lowerQuery)
}
