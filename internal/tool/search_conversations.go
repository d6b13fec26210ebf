package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"
)

type SearchConversationsRequest struct {
	Query      string `json:"query" jsonschema:"the Gmail search query"`
	MaxResults int64  `json:"max_results,omitempty" jsonschema:"max results per page"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"token for pagination"`
}

type SearchConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations" jsonschema:"matching threads"`
	NextPageToken string                `json:"next_page_token,omitempty" jsonschema:"token for next page"`
	TotalResults  int                   `json:"total_results" jsonschema:"number of threads returned"`
}

// ConversationSummary identifies a thread for get_conversation and draft_reply.
type ConversationSummary struct {
	ID      string `json:"id" jsonschema:"thread ID"`
	Snippet string `json:"snippet" jsonschema:"thread preview"`
}

type searchConversationsSvc interface {
	SearchConversations(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListThreadsResponse, error)
}

func NewSearchConversations(svc searchConversationsSvc) *SearchConversations {
	return &SearchConversations{
		svc: svc,
	}
}

type SearchConversations struct {
	svc searchConversationsSvc
}

func (t *SearchConversations) SearchConversations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchConversationsRequest,
) (*mcp.CallToolResult, SearchConversationsResponse, error) {
	input.MaxResults = normalizeMaxResults(input.MaxResults)

	result, err := t.svc.SearchConversations(ctx, input.Query, input.PageToken, input.MaxResults)
	if err != nil {
		return nil, SearchConversationsResponse{}, fmt.Errorf("svc.SearchConversations failed: %w", err)
	}

	conversations := make([]ConversationSummary, 0, len(result.Threads))
	for _, th := range result.Threads {
		conversations = append(conversations, ConversationSummary{
			ID:      th.Id,
			Snippet: th.Snippet,
		})
	}

	return nil, SearchConversationsResponse{
		Conversations: conversations,
		NextPageToken: result.NextPageToken,
		TotalResults:  len(conversations),
	}, nil
}

func normalizeMaxResults(maxResults int64) int64 {
	if maxResults <= 0 {
		return 10
	}
	if maxResults > 50 {
		return 50
	}
	return maxResults
}
