package draft_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-reply-drafter/internal/completion"
	"github.com/hal9000y/gmail-reply-drafter/internal/draft"
	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

func newMeetingSource() *sourceMock {
	return &sourceMock{
		GetConversationFunc: func(_ context.Context, id string) (mailbox.Conversation, error) {
			switch id {
			case "t-meeting":
				return mailbox.Conversation{
					ID: id,
					Messages: []mailbox.Message{
						{Sender: "a@x.com", Subject: "Meeting", Body: "Can we meet Friday?", Position: 0},
					},
				}, nil
			case "t-empty":
				return mailbox.Conversation{ID: id}, nil
			default:
				return mailbox.Conversation{}, fmt.Errorf("thread not found: %s", id)
			}
		},
	}
}

func newDraftStore() *storeMock {
	return &storeMock{
		CreateDraftReplyFunc: func(_ context.Context, rec mailbox.DraftRecord) (string, error) {
			return "r-" + rec.ConversationID, nil
		},
	}
}

func textClient(text string) *clientMock {
	return &clientMock{
		CompleteFunc: func(context.Context, completion.Request) completion.Result {
			return completion.Text(text)
		},
	}
}

func failingClient() *clientMock {
	return &clientMock{
		CompleteFunc: func(context.Context, completion.Request) completion.Result {
			return completion.Fallback(errors.New("dial tcp: connection refused"))
		},
	}
}

func newDrafter(src *sourceMock, clt *clientMock, store *storeMock, policy draft.DegradedPolicy) *draft.Drafter {
	return draft.NewDrafter(
		src,
		draft.NewComposer(testIdentity, testParams),
		clt,
		draft.NewPublisher(store),
		policy,
	)
}

func TestDraftEndToEnd(t *testing.T) {
	src := newMeetingSource()
	clt := textClient("了解です。...")
	store := newDraftStore()

	out, err := newDrafter(src, clt, store, draft.DegradedSave).Draft(context.Background(), "t-meeting", draft.ActionAgree)
	require.NoError(t, err)

	assert.Equal(t, draft.Outcome{DraftID: "r-t-meeting", Action: draft.ActionAgree}, out)

	require.Len(t, clt.CompleteCalls(), 1)
	assert.Contains(t, clt.CompleteCalls()[0].User, "同意の姿勢で")
	assert.Contains(t, clt.CompleteCalls()[0].User, "Can we meet Friday?")

	assert.Equal(t, []mailbox.DraftRecord{{
		ConversationID: "t-meeting",
		Recipient:      "a@x.com",
		Subject:        "Meeting",
		Body:           "了解です。...",
	}}, store.CreateDraftReplyCalls())
}

func TestDraftTransportFailureSavesFallback(t *testing.T) {
	store := newDraftStore()

	out, err := newDrafter(newMeetingSource(), failingClient(), store, draft.DegradedSave).
		Draft(context.Background(), "t-meeting", draft.ActionAgree)
	require.NoError(t, err)

	assert.Equal(t, "r-t-meeting", out.DraftID)
	assert.True(t, out.Degraded)

	calls := store.CreateDraftReplyCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, completion.FallbackText, calls[0].Body)
	assert.NotEmpty(t, calls[0].Body)
	assert.Equal(t, "a@x.com", calls[0].Recipient)
}

func TestDraftTransportFailureReject(t *testing.T) {
	store := newDraftStore()

	_, err := newDrafter(newMeetingSource(), failingClient(), store, draft.DegradedReject).
		Draft(context.Background(), "t-meeting", draft.ActionAgree)

	assert.ErrorIs(t, err, draft.ErrGenerationDegraded)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, store.CreateDraftReplyCalls())
}

func TestDraftFailures(t *testing.T) {
	cases := []struct {
		name           string
		conversationID string
		action         draft.Action
		store          *storeMock
		expectedErr    error
		expectedFetch  int
		expectedClient int
		expectedSaves  int
	}{
		{
			name:           "unknown action",
			conversationID: "t-meeting",
			action:         draft.Action(0),
			store:          newDraftStore(),
			expectedErr:    draft.ErrUnknownAction,
		},
		{
			name:           "empty conversation",
			conversationID: "t-empty",
			action:         draft.ActionAgree,
			store:          newDraftStore(),
			expectedErr:    draft.ErrEmptyConversation,
			expectedFetch:  1,
		},
		{
			name:           "draft store rejects",
			conversationID: "t-meeting",
			action:         draft.ActionThanks,
			store: &storeMock{
				CreateDraftReplyFunc: func(context.Context, mailbox.DraftRecord) (string, error) {
					return "", errors.New("thread deleted")
				},
			},
			expectedErr:    draft.ErrDraftCreationFailed,
			expectedFetch:  1,
			expectedClient: 1,
			expectedSaves:  1,
		},
		{
			name:           "draft store returns empty id",
			conversationID: "t-meeting",
			action:         draft.ActionThanks,
			store: &storeMock{
				CreateDraftReplyFunc: func(context.Context, mailbox.DraftRecord) (string, error) {
					return "", nil
				},
			},
			expectedErr:    draft.ErrDraftCreationFailed,
			expectedFetch:  1,
			expectedClient: 1,
			expectedSaves:  1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := newMeetingSource()
			clt := textClient("ok")

			_, err := newDrafter(src, clt, tc.store, draft.DegradedSave).Draft(context.Background(), tc.conversationID, tc.action)

			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Len(t, src.GetConversationCalls(), tc.expectedFetch)
			assert.Len(t, clt.CompleteCalls(), tc.expectedClient)
			assert.Len(t, tc.store.CreateDraftReplyCalls(), tc.expectedSaves)
		})
	}
}

func TestDraftSourceError(t *testing.T) {
	clt := textClient("ok")
	store := newDraftStore()

	_, err := newDrafter(newMeetingSource(), clt, store, draft.DegradedSave).Draft(context.Background(), "t-missing", draft.ActionAgree)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "thread not found: t-missing")
	assert.Empty(t, clt.CompleteCalls())
	assert.Empty(t, store.CreateDraftReplyCalls())
}

func TestDraftCreatesNewDraftEachCall(t *testing.T) {
	n := 0
	store := &storeMock{
		CreateDraftReplyFunc: func(context.Context, mailbox.DraftRecord) (string, error) {
			n++
			return fmt.Sprintf("r-%d", n), nil
		},
	}
	d := newDrafter(newMeetingSource(), textClient("ok"), store, draft.DegradedSave)

	first, err := d.Draft(context.Background(), "t-meeting", draft.ActionAgree)
	require.NoError(t, err)
	second, err := d.Draft(context.Background(), "t-meeting", draft.ActionAgree)
	require.NoError(t, err)

	assert.NotEqual(t, first.DraftID, second.DraftID)
	assert.Len(t, store.CreateDraftReplyCalls(), 2)
}

func TestParseDegradedPolicy(t *testing.T) {
	p, err := draft.ParseDegradedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, draft.DegradedSave, p)

	p, err = draft.ParseDegradedPolicy("reject")
	require.NoError(t, err)
	assert.Equal(t, draft.DegradedReject, p)

	_, err = draft.ParseDegradedPolicy("warn")
	assert.Error(t, err)
}

func TestOutcomeSummary(t *testing.T) {
	out := draft.Outcome{DraftID: "r-1", Action: draft.ActionThanks}
	assert.Equal(t, "感謝 に基づく返信の下書きがスレッドに紐づけられて保存されました。ドラフトID: r-1", out.Summary())

	out.Degraded = true
	assert.True(t, strings.HasPrefix(out.Summary(), "感謝 に基づく返信の下書き"))
	assert.Contains(t, out.Summary(), "\n返信文の生成に失敗したため")
}
