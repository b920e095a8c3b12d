package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "gymroster/internal/adapters/email"
	"gymroster/internal/adapters/report"
	"gymroster/internal/application/projections"
)

// ReminderSubject is the subject line of every renewal reminder.
const ReminderSubject = "Your gym membership has expired"

// SendRenewalRemindersInput carries input for the orchestrator.
type SendRenewalRemindersInput struct {
	Now time.Time // reference instant; zero means deps.Now()
}

// SendRenewalRemindersDeps holds dependencies for SendRenewalReminders.
type SendRenewalRemindersDeps struct {
	MemberStore projections.MemberStore
	Sender      emailAdapter.Sender
	From        string // empty uses the sender default
	ReplyTo     string
	Now         func() time.Time
}

// ExecuteSendRenewalReminders emails every member whose membership is Expired.
// PRE: Sender is configured
// POST: One message per expired member; returns the number accepted by the sender
func ExecuteSendRenewalReminders(ctx context.Context, input SendRenewalRemindersInput, deps SendRenewalRemindersDeps) (int, error) {
	now := input.Now
	if now.IsZero() {
		now = time.Now()
		if deps.Now != nil {
			now = deps.Now()
		}
	}

	expired, err := projections.QueryGetExpiredMembers(ctx, projections.GetExpiredMembersQuery{Now: now}, projections.GetExpiredMembersDeps{
		MemberStore: deps.MemberStore,
	})
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	reqs := make([]emailAdapter.SendRequest, 0, len(expired))
	for _, e := range expired {
		body, err := report.HTML(reminderMarkdown(e))
		if err != nil {
			return 0, fmt.Errorf("render reminder for %s: %w", e.MemberID, err)
		}
		reqs = append(reqs, emailAdapter.SendRequest{
			To:      []string{e.Email},
			Subject: ReminderSubject,
			HTML:    body,
			From:    deps.From,
			ReplyTo: deps.ReplyTo,
		})
	}

	results, err := deps.Sender.SendBatch(ctx, reqs)
	if err != nil {
		slog.Error("member_event", "event", "reminders_failed", "accepted", len(results), "error", err)
		return len(results), err
	}

	slog.Info("member_event", "event", "reminders_sent", "count", len(results))
	return len(results), nil
}

func reminderMarkdown(e projections.ExpiredMemberResult) string {
	return fmt.Sprintf("Hi %s,\n\nYour membership lapsed on **%s** (%d days ago).\nReply to this email or visit the front desk to renew.\n",
		report.Escape(e.Name), e.ExpiredOn, e.DaysExpired)
}
