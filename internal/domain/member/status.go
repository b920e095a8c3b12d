package member

import "time"

// Status is the derived membership state. It is never stored on a Member.
type Status string

// Business rule constants
const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Classify derives a member's status at the reference instant now.
// PRE: now is supplied by the caller, sampled once per logical read
// POST: Returns StatusActive iff MembershipDate >= now
// INVARIANT: A membership date equal to now is Active
func Classify(m Member, now time.Time) Status {
	if m.MembershipDate.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// IsActive reports whether the member is active at now.
func (m Member) IsActive(now time.Time) bool {
	return Classify(m, now) == StatusActive
}

// Count tallies active and expired members against a single instant.
// PRE: now is the reference instant for the whole read
// POST: active + expired == len(members)
func Count(members []Member, now time.Time) (active, expired int) {
	for _, m := range members {
		if Classify(m, now) == StatusActive {
			active++
		}
	}
	return active, len(members) - active
}
