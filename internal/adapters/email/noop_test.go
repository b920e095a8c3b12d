package email

import (
	"context"
	"testing"
)

var _ Sender = (*NoopSender)(nil)
var _ Sender = (*ResendSender)(nil)

// TestNoopSender_RecordsBatch verifies the noop sender keeps requests in order.
func TestNoopSender_RecordsBatch(t *testing.T) {
	s := NewNoopSender()
	reqs := []SendRequest{
		{To: []string{"a@test.com"}, Subject: "one"},
		{To: []string{"b@test.com"}, Subject: "two"},
	}
	results, err := s.SendBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].MessageID == results[1].MessageID {
		t.Errorf("results = %+v, want two distinct ids", results)
	}

	sent := s.Sent()
	if len(sent) != 2 || sent[1].Subject != "two" {
		t.Errorf("sent = %+v", sent)
	}
}

// TestResendSender_Params verifies the default sender fills an empty From.
func TestResendSender_Params(t *testing.T) {
	s := NewResendSender("re_test", "Gym <noreply@gym.test>")
	p := s.params(SendRequest{To: []string{"a@test.com"}, Subject: "hi"})
	if p.From != "Gym <noreply@gym.test>" {
		t.Errorf("From = %q, want default", p.From)
	}
	p = s.params(SendRequest{From: "x@gym.test"})
	if p.From != "x@gym.test" {
		t.Errorf("From = %q, want override", p.From)
	}
}
