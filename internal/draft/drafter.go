package draft

import (
	"context"
	"fmt"
	"log"

	"github.com/hal9000y/gmail-reply-drafter/internal/completion"
	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

// DegradedPolicy decides what happens when completion falls back.
type DegradedPolicy int

const (
	// DegradedSave saves the fallback text as the draft body and reports success.
	DegradedSave DegradedPolicy = iota
	// DegradedReject creates no draft and returns ErrGenerationDegraded.
	DegradedReject
)

// ParseDegradedPolicy reads the configuration spelling of a policy.
func ParseDegradedPolicy(s string) (DegradedPolicy, error) {
	switch s {
	case "save", "":
		return DegradedSave, nil
	case "reject":
		return DegradedReject, nil
	default:
		return 0, fmt.Errorf("unknown degraded policy %q", s)
	}
}

// Outcome describes a created draft.
type Outcome struct {
	DraftID string
	Action  Action
	// Degraded is set when the body is the fallback text.
	Degraded bool
}

const degradedNotice = "返信文の生成に失敗したため、定型文で保存されています。"

// Summary is the confirmation shown to the user after a draft is saved.
func (o Outcome) Summary() string {
	msg := fmt.Sprintf("%s に基づく返信の下書きがスレッドに紐づけられて保存されました。ドラフトID: %s", o.Action, o.DraftID)
	if o.Degraded {
		msg += "\n" + degradedNotice
	}
	return msg
}

type conversationSource interface {
	GetConversation(ctx context.Context, id string) (mailbox.Conversation, error)
}

// Drafter runs the drafting pipeline: extract, compose, complete, publish.
// It holds no per-call state and may be shared between goroutines.
type Drafter struct {
	source    conversationSource
	composer  *Composer
	client    completion.Client
	publisher *Publisher
	policy    DegradedPolicy
}

// NewDrafter wires the pipeline stages together.
func NewDrafter(
	source conversationSource,
	composer *Composer,
	client completion.Client,
	publisher *Publisher,
	policy DegradedPolicy,
) *Drafter {
	return &Drafter{
		source:    source,
		composer:  composer,
		client:    client,
		publisher: publisher,
		policy:    policy,
	}
}

// Draft creates a reply draft in conversationID following action.
func (d *Drafter) Draft(ctx context.Context, conversationID string, action Action) (Outcome, error) {
	if !action.Valid() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	conv, err := d.source.GetConversation(ctx, conversationID)
	if err != nil {
		return Outcome{}, fmt.Errorf("source.GetConversation failed: %w", err)
	}

	rc, err := Extract(conv)
	if err != nil {
		return Outcome{}, fmt.Errorf("extract %s failed: %w", conversationID, err)
	}

	req, err := d.composer.Compose(action, rc)
	if err != nil {
		return Outcome{}, fmt.Errorf("composer.Compose failed: %w", err)
	}

	res := d.client.Complete(ctx, req)
	if res.Fallback {
		log.Printf("Reply generation for %s (%s) fell back: %v", conversationID, action, res.Err)
		if d.policy == DegradedReject {
			if res.Err == nil {
				return Outcome{}, ErrGenerationDegraded
			}
			return Outcome{}, fmt.Errorf("%w: %w", ErrGenerationDegraded, res.Err)
		}
	}

	draftID, err := d.publisher.Publish(ctx, conversationID, rc.Sender, rc.Subject, res.Text)
	if err != nil {
		return Outcome{}, fmt.Errorf("publisher.Publish failed: %w", err)
	}

	log.Printf("Saved reply draft %s for %s (%s)", draftID, conversationID, action)

	return Outcome{
		DraftID:  draftID,
		Action:   action,
		Degraded: res.Fallback,
	}, nil
}
