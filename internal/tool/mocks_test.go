package tool_test

import (
	"context"
	"sync"

	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-reply-drafter/internal/draft"
	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

type mailSvcMock struct {
	GetConversationFunc     func(ctx context.Context, id string) (mailbox.Conversation, error)
	SearchConversationsFunc func(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListThreadsResponse, error)

	mu          sync.Mutex
	searchCalls []int64
}

func (m *mailSvcMock) GetConversation(ctx context.Context, id string) (mailbox.Conversation, error) {
	return m.GetConversationFunc(ctx, id)
}

func (m *mailSvcMock) SearchConversations(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListThreadsResponse, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, maxResults)
	m.mu.Unlock()

	return m.SearchConversationsFunc(ctx, q, pageToken, maxResults)
}

func (m *mailSvcMock) SearchConversationsMaxResults() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]int64(nil), m.searchCalls...)
}

type drafterMock struct {
	DraftFunc func(ctx context.Context, conversationID string, action draft.Action) (draft.Outcome, error)

	mu    sync.Mutex
	calls int
}

func (m *drafterMock) Draft(ctx context.Context, conversationID string, action draft.Action) (draft.Outcome, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	return m.DraftFunc(ctx, conversationID, action)
}

func (m *drafterMock) DraftCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}
