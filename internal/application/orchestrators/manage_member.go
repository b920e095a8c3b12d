package orchestrators

import (
	"context"
	"log/slog"

	"gymroster/internal/domain/member"

	"github.com/google/uuid"
)

// MemberStore defines the interface for member persistence.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]member.Member, error)
}

// MemberDeps holds dependencies for the member orchestrators.
type MemberDeps struct {
	MemberStore MemberStore
}

// ExecuteListMembers returns the full roster in insertion order.
// PRE: none
// POST: Returns every stored member
func ExecuteListMembers(ctx context.Context, deps MemberDeps) ([]member.Member, error) {
	return deps.MemberStore.List(ctx)
}

// ExecuteCreateMember assigns an id and stores a new member.
// PRE: draft passes Validate
// POST: Member created with a fresh UUID; the created record is returned
// INVARIANT: ids are assigned here and nowhere else
func ExecuteCreateMember(ctx context.Context, draft member.Draft, deps MemberDeps) (member.Member, error) {
	if err := draft.Validate(); err != nil {
		return member.Member{}, err
	}

	m := draft.WithID(uuid.New().String())
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "member_created", "member_id", m.ID)
	return m, nil
}

// ExecuteUpdateMember replaces the editable fields of an existing member.
// PRE: id exists; draft passes Validate
// POST: Member fields replaced; id unchanged
func ExecuteUpdateMember(ctx context.Context, id string, draft member.Draft, deps MemberDeps) (member.Member, error) {
	if err := draft.Validate(); err != nil {
		return member.Member{}, err
	}
	if _, err := deps.MemberStore.GetByID(ctx, id); err != nil {
		return member.Member{}, err
	}

	m := draft.WithID(id)
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "member_updated", "member_id", id)
	return m, nil
}

// ExecuteDeleteMember removes a member.
// PRE: id exists
// POST: Member removed
func ExecuteDeleteMember(ctx context.Context, id string, deps MemberDeps) error {
	if err := deps.MemberStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("member_event", "event", "member_deleted", "member_id", id)
	return nil
}
