package email

import (
	"context"
	"errors"

	"github.com/newsletter/newsletter/internal/domain"
)

// ErrDispatch is matched by every error a Sender returns when the provider
// did not accept the message.
var ErrDispatch = errors.New("email dispatch failed")

// Sender is the interface that all email providers must implement.
type Sender interface {
	// Send delivers msg. It makes at most one attempt.
	Send(ctx context.Context, msg Message) error
}

// Message represents an email message to be sent.
type Message struct {
	To       domain.SubscriberEmail // recipient, validated at the boundary
	Subject  string
	HTMLBody string
	TextBody string
}
