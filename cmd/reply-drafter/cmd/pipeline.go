package cmd

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/time/rate"

	"github.com/hal9000y/gmail-reply-drafter/internal/completion"
	"github.com/hal9000y/gmail-reply-drafter/internal/config"
	"github.com/hal9000y/gmail-reply-drafter/internal/draft"
	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

type mailboxBackend interface {
	GetConversation(ctx context.Context, id string) (mailbox.Conversation, error)
	CreateDraftReply(ctx context.Context, rec mailbox.DraftRecord) (string, error)
}

// newCompletionClient stacks throttling under retries so every attempt is rate limited.
func newCompletionClient(cfg *config.Config) (completion.Client, error) {
	if err := cfg.ResolveAPIKey(); err != nil {
		return nil, err
	}

	oc, err := completion.NewOpenAI(completion.Settings{
		APIKey:  cfg.Completion.APIKey,
		Model:   cfg.Completion.Model,
		BaseURL: cfg.Completion.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("completion.NewOpenAI failed: %w", err)
	}

	var client completion.Client = oc
	if rpm := cfg.Completion.RequestsPerMinute; rpm > 0 {
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
		client = completion.NewThrottled(client, limiter)
	}

	return completion.NewRetrying(client, cfg.RetryPolicy()), nil
}

func newDrafter(cfg *config.Config, backend mailboxBackend) (*draft.Drafter, error) {
	client, err := newCompletionClient(cfg)
	if err != nil {
		return nil, err
	}

	return draft.NewDrafter(
		backend,
		draft.NewComposer(cfg.DraftIdentity(), cfg.CompletionParams()),
		client,
		draft.NewPublisher(backend),
		cfg.DegradedPolicy(),
	), nil
}

func senderAddress(cfg *config.Config) mail.Address {
	return mail.Address{Name: cfg.Identity.DisplayName, Address: cfg.Identity.Email}
}
