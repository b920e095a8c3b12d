package member

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// DateLayout is the wire format for membership dates (ISO-8601 calendar date).
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyName    = errors.New("member name cannot be empty")
	ErrNameTooLong  = errors.New("member name cannot exceed 100 characters")
	ErrInvalidEmail = errors.New("member email must be valid")
	ErrMissingDate  = errors.New("membership date is required")
	ErrInvalidDate  = errors.New("membership date must be YYYY-MM-DD")
)

// Member is a roster entry. ID is assigned by the remote authority.
type Member struct {
	ID             string
	Name           string
	Email          string
	MembershipDate time.Time
}

// Draft carries the editable fields of a member, without an identifier.
type Draft struct {
	Name           string
	Email          string
	MembershipDate time.Time
}

// Validate checks if the Draft has valid data.
// PRE: Draft struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !strings.Contains(d.Email, "@") {
		return ErrInvalidEmail
	}
	if d.MembershipDate.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// Validate checks the member's editable fields.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m Member) Validate() error {
	return m.Draft().Validate()
}

// Draft returns the editable fields of the member.
// INVARIANT: Member fields are not mutated
func (m Member) Draft() Draft {
	return Draft{Name: m.Name, Email: m.Email, MembershipDate: m.MembershipDate}
}

// WithID builds a Member from the draft using the given identifier.
// PRE: id was assigned by the remote authority
// POST: Returns a Member carrying the draft fields
func (d Draft) WithID(id string) Member {
	return Member{ID: id, Name: d.Name, Email: d.Email, MembershipDate: d.MembershipDate}
}

// ParseDate parses a wire membership date.
// Accepts YYYY-MM-DD and full RFC 3339 timestamps.
// PRE: none
// POST: Returns the parsed instant in UTC, or ErrInvalidDate
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders a membership date in wire format.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
