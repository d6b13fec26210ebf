package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-reply-drafter/internal/draft"
)

type ListActionsRequest struct{}

type ListActionsResponse struct {
	Actions []string `json:"actions" jsonschema:"action labels in display order"`
}

// ListActions returns one label per supported action.
func ListActions(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListActionsRequest,
) (*mcp.CallToolResult, ListActionsResponse, error) {
	return nil, ListActionsResponse{Actions: draft.Labels()}, nil
}
