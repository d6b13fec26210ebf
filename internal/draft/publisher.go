package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

type draftStore interface {
	CreateDraftReply(ctx context.Context, rec mailbox.DraftRecord) (string, error)
}

// Publisher saves reply drafts without altering their text.
type Publisher struct {
	store draftStore
}

// NewPublisher creates a Publisher on top of a mailbox draft store.
func NewPublisher(store draftStore) *Publisher {
	return &Publisher{store: store}
}

// Publish creates a new reply draft in conversationID and returns its ID.
func (p *Publisher) Publish(ctx context.Context, conversationID, recipient, subject, body string) (string, error) {
	id, err := p.store.CreateDraftReply(ctx, mailbox.DraftRecord{
		ConversationID: conversationID,
		Recipient:      recipient,
		Subject:        subject,
		Body:           body,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDraftCreationFailed, err)
	}
	if id == "" {
		return "", fmt.Errorf("%w: %w", ErrDraftCreationFailed, errors.New("empty draft id"))
	}

	return id, nil
}
