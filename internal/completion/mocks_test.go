package completion_test

import (
	"context"
	"sync"

	"github.com/hal9000y/gmail-reply-drafter/internal/completion"
)

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
