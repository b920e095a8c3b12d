package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gymroster/internal/domain/member"
)

// Store errors
var (
	ErrRemote        = errors.New("remote gateway rejected the request")
	ErrUnknownMember = errors.New("member is not in the roster")
	ErrInvalidDraft  = errors.New("member draft is invalid")
)

// Deps holds dependencies for Store.
type Deps struct {
	Gateway  Gateway
	Reporter Reporter // defaults to SlogReporter
	Listener Listener // optional
}

// Summary carries the roster counts for one reference instant.
type Summary struct {
	Total   int
	Active  int
	Expired int
}

// Row pairs a member with its status for display.
type Row struct {
	Member member.Member
	Status member.Status
}

// Store owns the canonical roster and is its only mutation surface.
//
// Gateway calls are not serialised: concurrent mutations are folded in
// whichever order their responses arrive. The mutex guards only the swap of
// local state and is never held across a Gateway call.
type Store struct {
	gateway  Gateway
	reporter Reporter
	listener Listener

	mu      sync.Mutex
	members []member.Member
	query   string
	session Session
}

// NewStore creates an empty Store.
// PRE: deps.Gateway is non-nil
// POST: Roster is empty, Edit Session is Empty, query is ""
func NewStore(deps Deps) *Store {
	reporter := deps.Reporter
	if reporter == nil {
		reporter = SlogReporter{}
	}
	return &Store{
		gateway:  deps.Gateway,
		reporter: reporter,
		listener: deps.Listener,
	}
}

// Load replaces the roster with the Gateway's collection.
// PRE: none
// POST: On success roster equals the Gateway response in order; on failure roster is unchanged
func (s *Store) Load(ctx context.Context) error {
	list, err := s.gateway.List(ctx)
	if err != nil {
		return s.fail("load", err)
	}

	s.mu.Lock()
	s.members = append([]member.Member(nil), list...)
	s.mu.Unlock()

	slog.Debug("roster_event", "event", "roster_loaded", "count", len(list))
	s.emit(Event{Kind: EventRosterChanged})
	return nil
}

// Submit creates or updates a member depending on the Edit Session.
// PRE: draft passes Validate
// POST: Editing(k) -> Update(k) applied in place and session cleared;
// Empty -> Create applied at the end of the roster.
// On failure roster and session are unchanged.
func (s *Store) Submit(ctx context.Context, draft member.Draft) (member.Member, error) {
	if err := draft.Validate(); err != nil {
		return member.Member{}, fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}

	s.mu.Lock()
	editing, id := s.session.Active(), s.session.ID()
	s.mu.Unlock()

	if editing {
		return s.update(ctx, id, draft)
	}
	return s.create(ctx, draft)
}

func (s *Store) create(ctx context.Context, draft member.Draft) (member.Member, error) {
	created, err := s.gateway.Create(ctx, draft)
	if err != nil {
		return member.Member{}, s.fail("create", err)
	}

	s.mu.Lock()
	next := make([]member.Member, 0, len(s.members)+1)
	next = append(next, s.members...)
	s.members = append(next, created)
	s.mu.Unlock()

	slog.Info("member_event", "event", "member_created", "member_id", created.ID)
	s.emit(Event{Kind: EventRosterChanged, MemberID: created.ID})
	return created, nil
}

func (s *Store) update(ctx context.Context, id string, draft member.Draft) (member.Member, error) {
	updated, err := s.gateway.Update(ctx, id, draft)
	if err != nil {
		return member.Member{}, s.fail("update", err)
	}

	s.mu.Lock()
	next := make([]member.Member, len(s.members))
	for i, m := range s.members {
		if m.ID == id {
			m = updated
		}
		next[i] = m
	}
	s.members = next
	if s.session.ID() == id {
		s.session.Clear()
	}
	s.mu.Unlock()

	slog.Info("member_event", "event", "member_updated", "member_id", id)
	s.emit(Event{Kind: EventRosterChanged, MemberID: id})
	return updated, nil
}

// Remove deletes a member through the Gateway.
// PRE: id is non-empty
// POST: On success exactly the entries with id are gone, others keep their order;
// on failure roster is unchanged
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, id); err != nil {
		return s.fail("delete", err)
	}

	s.mu.Lock()
	next := make([]member.Member, 0, len(s.members))
	for _, m := range s.members {
		if m.ID != id {
			next = append(next, m)
		}
	}
	s.members = next
	s.mu.Unlock()

	slog.Info("member_event", "event", "member_deleted", "member_id", id)
	s.emit(Event{Kind: EventRosterChanged, MemberID: id})
	return nil
}

// BeginEdit binds the Edit Session to the member with id.
// PRE: id exists in the current roster
// POST: Session is Editing(id) and EventScrollToTop is emitted;
// an unknown id returns ErrUnknownMember and leaves the session unchanged
func (s *Store) BeginEdit(id string) (member.Member, error) {
	s.mu.Lock()
	m, ok := find(s.members, id)
	if !ok {
		s.mu.Unlock()
		return member.Member{}, fmt.Errorf("%w: %s", ErrUnknownMember, id)
	}
	s.session.Begin(m)
	target, _ := s.session.Target()
	s.mu.Unlock()

	s.emit(Event{Kind: EventScrollToTop, MemberID: id})
	return target, nil
}

// CancelEdit clears the Edit Session without contacting the Gateway.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	s.session.Clear()
	s.mu.Unlock()
}

// Editing returns the member currently being edited.
func (s *Store) Editing() (member.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Target()
}

// Search records query and returns the recomputed Filtered View.
// INVARIANT: Roster is not mutated
func (s *Store) Search(query string) []member.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	return member.Filter(s.members, query)
}

// Query returns the last applied search query.
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// View returns the Filtered View for the current roster and query.
func (s *Store) View() []member.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return member.Filter(s.members, s.query)
}

// Members returns a copy of the roster.
func (s *Store) Members() []member.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]member.Member(nil), s.members...)
}

// Recent returns up to n members from the head of the roster.
func (s *Store) Recent(n int) []member.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.members) {
		n = len(s.members)
	}
	if n < 0 {
		n = 0
	}
	return append([]member.Member(nil), s.members[:n]...)
}

// Summary counts the roster against a single instant.
// PRE: now is sampled once by the caller for the whole read
// POST: Active + Expired == Total
func (s *Store) Summary(now time.Time) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, expired := member.Count(s.members, now)
	return Summary{Total: len(s.members), Active: active, Expired: expired}
}

// Rows returns the Filtered View with each member's status at now.
func (s *Store) Rows(now time.Time) []Row {
	view := s.View()
	rows := make([]Row, len(view))
	for i, m := range view {
		rows[i] = Row{Member: m, Status: member.Classify(m, now)}
	}
	return rows
}

// fail reports an absorbed remote failure and wraps it for the caller.
func (s *Store) fail(op string, err error) error {
	s.reporter.Report(op, err)
	return fmt.Errorf("%s: %w: %w", op, ErrRemote, err)
}

func (s *Store) emit(e Event) {
	if s.listener != nil {
		s.listener(e)
	}
}

func find(members []member.Member, id string) (member.Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return member.Member{}, false
}
