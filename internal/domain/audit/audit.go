package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category groups audit events by the resource they touch.
type Category string

const (
	CategoryAccount Category = "account"
	CategoryMember  Category = "member"
)

// Action is what happened to the resource.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionLogin     Action = "login"
	ActionReminders Action = "reminders"
)

// Domain errors
var (
	ErrMissingActor  = errors.New("audit event requires an actor")
	ErrMissingAction = errors.New("audit event requires an action")
)

// Event is one audit log entry.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	ActorID     string    `json:"actorId"`
	ActorEmail  string    `json:"actorEmail"`
	ResourceID  string    `json:"resourceId,omitempty"`
	Description string    `json:"description,omitempty"`
	IPAddress   string    `json:"ipAddress,omitempty"`
}

// NewEvent creates an audit event stamped at now.
// PRE: actorID and action are non-empty
// POST: Returns an Event with a fresh id
func NewEvent(actorID, actorEmail string, category Category, action Action, now time.Time) Event {
	return Event{
		ID:         uuid.New().String(),
		Timestamp:  now.UTC(),
		Category:   category,
		Action:     action,
		ActorID:    actorID,
		ActorEmail: actorEmail,
	}
}

// WithResource sets the affected resource id.
func (e Event) WithResource(id string) Event {
	e.ResourceID = id
	return e
}

// WithDescription sets a human-readable summary.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithIP records the client address.
func (e Event) WithIP(ip string) Event {
	e.IPAddress = ip
	return e
}

// Validate checks the event carries an actor and an action.
// PRE: none
// POST: Returns nil if the event can be persisted
func (e Event) Validate() error {
	if e.ActorID == "" {
		return ErrMissingActor
	}
	if e.Action == "" {
		return ErrMissingAction
	}
	return nil
}
