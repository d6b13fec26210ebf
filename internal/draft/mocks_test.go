package draft_test

import (
	"context"
	"sync"

	"github.com/hal9000y/gmail-reply-drafter/internal/completion"
	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

type sourceMock struct {
	GetConversationFunc func(ctx context.Context, id string) (mailbox.Conversation, error)

	mu    sync.Mutex
	calls []string
}

func (m *sourceMock) GetConversation(ctx context.Context, id string) (mailbox.Conversation, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()

	return m.GetConversationFunc(ctx, id)
}

func (m *sourceMock) GetConversationCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.calls...)
}

type storeMock struct {
	CreateDraftReplyFunc func(ctx context.Context, rec mailbox.DraftRecord) (string, error)

	mu    sync.Mutex
	calls []mailbox.DraftRecord
}

func (m *storeMock) CreateDraftReply(ctx context.Context, rec mailbox.DraftRecord) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, rec)
	m.mu.Unlock()

	return m.CreateDraftReplyFunc(ctx, rec)
}

func (m *storeMock) CreateDraftReplyCalls() []mailbox.DraftRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mailbox.DraftRecord(nil), m.calls...)
}

type clientMock struct {
	CompleteFunc func(ctx context.Context, req completion.Request) completion.Result

	mu    sync.Mutex
	calls []completion.Request
}

func (m *clientMock) Complete(ctx context.Context, req completion.Request) completion.Result {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	return m.CompleteFunc(ctx, req)
}

func (m *clientMock) CompleteCalls() []completion.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]completion.Request(nil), m.calls...)
}
