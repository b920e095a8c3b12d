package audit

import (
	"errors"
	"testing"
	"time"
)

// TestNewEvent verifies builders and validation.
func TestNewEvent(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.FixedZone("NZST", 12*3600))
	e := NewEvent("acct-1", "admin@gym.test", CategoryMember, ActionCreate, now).
		WithResource("m1").
		WithDescription("created Alice").
		WithIP("10.0.0.1")

	if e.ID == "" {
		t.Error("ID should be assigned")
	}
	if e.Timestamp.Location() != time.UTC || !e.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v in UTC", e.Timestamp, now)
	}
	if e.ResourceID != "m1" || e.Description != "created Alice" || e.IPAddress != "10.0.0.1" {
		t.Errorf("event = %+v", e)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

// TestEvent_Validate verifies missing fields are rejected.
func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  error
	}{
		{"no actor", Event{Action: ActionLogin}, ErrMissingActor},
		{"no action", Event{ActorID: "a"}, ErrMissingAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.event.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
