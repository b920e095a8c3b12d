package email

import (
	"context"
	"time"
)

// SendRequest is one outbound message.
type SendRequest struct {
	To      []string // recipient addresses
	From    string   // overrides the sender default when set
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is the provider's acknowledgement of one message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers membership mail through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
