// Package draft turns a conversation and a chosen action into a reply draft.
package draft

import "errors"

var (
	// ErrEmptyConversation indicates there is no message to reply to.
	ErrEmptyConversation = errors.New("conversation has no messages")
	// ErrUnknownAction indicates an action outside the catalog.
	ErrUnknownAction = errors.New("unknown action")
	// ErrDraftCreationFailed indicates the mailbox rejected the draft.
	ErrDraftCreationFailed = errors.New("draft creation failed")
	// ErrGenerationDegraded is returned instead of saving fallback text
	// when the drafter runs with DegradedReject.
	ErrGenerationDegraded = errors.New("reply generation degraded")
)
