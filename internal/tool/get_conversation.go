package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

const previewRunes = 500

// GetConversationRequest names the thread to preview.
type GetConversationRequest struct {
	ConversationID string `json:"conversation_id" jsonschema:"Gmail thread ID"`
}

// GetConversationResponse lists the thread's messages oldest first.
type GetConversationResponse struct {
	ConversationID string           `json:"conversation_id" jsonschema:"Gmail thread ID"`
	Messages       []MessagePreview `json:"messages" jsonschema:"messages oldest first"`
}

// MessagePreview is one message with its body shortened.
type MessagePreview struct {
	Position int          `json:"position" jsonschema:"zero-based position in the thread"`
	From     EmailAddress `json:"from" jsonschema:"sender information"`
	Subject  string       `json:"subject" jsonschema:"email subject"`
	Preview  string       `json:"preview" jsonschema:"start of the plain text body"`
}

type getConversationSvc interface {
	GetConversation(ctx context.Context, id string) (mailbox.Conversation, error)
}

// NewGetConversation creates a new GetConversation tool.
func NewGetConversation(svc getConversationSvc) *GetConversation {
	return &GetConversation{svc: svc}
}

type GetConversation struct {
	svc getConversationSvc
}

func (t *GetConversation) GetConversation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetConversationRequest,
) (*mcp.CallToolResult, GetConversationResponse, error) {
	conv, err := t.svc.GetConversation(ctx, input.ConversationID)
	if err != nil {
		return nil, GetConversationResponse{}, fmt.Errorf("get conversation %s failed: %w", input.ConversationID, err)
	}

	previews := make([]MessagePreview, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		previews = append(previews, MessagePreview{
			Position: m.Position,
			From:     parseEmailAddress(m.Sender),
			Subject:  m.Subject,
			Preview:  previewText(m.Body),
		})
	}

	return nil, GetConversationResponse{
		ConversationID: conv.ID,
		Messages:       previews,
	}, nil
}

func previewText(body string) string {
	r := []rune(body)
	if len(r) > previewRunes {
		r = r[:previewRunes]
	}
	return string(r) + "..."
}
