package roster

import "gymroster/internal/domain/member"

// Session tracks the single in-progress edit, if any.
// The zero value is the Empty state.
type Session struct {
	target  member.Member
	editing bool
}

// Begin binds the session to m.
// PRE: m exists in the current roster
// POST: Session is Editing(m.ID) with m's current field values
// INVARIANT: Re-binding to the same id keeps the original snapshot
func (s *Session) Begin(m member.Member) {
	if s.editing && s.target.ID == m.ID {
		return
	}
	s.target = m
	s.editing = true
}

// Clear returns the session to Empty.
func (s *Session) Clear() {
	*s = Session{}
}

// Active reports whether an edit is in progress.
func (s Session) Active() bool {
	return s.editing
}

// ID returns the bound member id, or "" when Empty.
func (s Session) ID() string {
	return s.target.ID
}

// Target returns the member values captured when the edit began.
func (s Session) Target() (member.Member, bool) {
	return s.target, s.editing
}
