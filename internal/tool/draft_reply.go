package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-reply-drafter/internal/draft"
)

type DraftReplyRequest struct {
	ConversationID string `json:"conversation_id" jsonschema:"Gmail thread ID to reply in"`
	Action         string `json:"action" jsonschema:"one of the labels returned by list_actions"`
}

type DraftReplyResponse struct {
	DraftID  string `json:"draft_id" jsonschema:"ID of the saved draft"`
	Action   string `json:"action" jsonschema:"action label the reply was written for"`
	Degraded bool   `json:"degraded" jsonschema:"true when the draft body is the fallback text"`
	Message  string `json:"message" jsonschema:"confirmation for the user"`
}

type replyDrafter interface {
	Draft(ctx context.Context, conversationID string, action draft.Action) (draft.Outcome, error)
}

func NewDraftReply(d replyDrafter) *DraftReply {
	return &DraftReply{drafter: d}
}

type DraftReply struct {
	drafter replyDrafter
}

func (t *DraftReply) DraftReply(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DraftReplyRequest,
) (*mcp.CallToolResult, DraftReplyResponse, error) {
	action, err := draft.ParseAction(input.Action)
	if err != nil {
		return nil, DraftReplyResponse{}, err
	}

	out, err := t.drafter.Draft(ctx, input.ConversationID, action)
	if err != nil {
		return nil, DraftReplyResponse{}, fmt.Errorf("draft reply for %s failed: %w", input.ConversationID, err)
	}

	return nil, DraftReplyResponse{
		DraftID:  out.DraftID,
		Action:   out.Action.String(),
		Degraded: out.Degraded,
		Message:  out.Summary(),
	}, nil
}
