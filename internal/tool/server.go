package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mailSvc interface {
	getConversationSvc
	searchConversationsSvc
}

// NewServer creates an MCP server with the reply drafting tools.
func NewServer(svc mailSvc, drafter replyDrafter) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "gmail-reply-drafter", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_actions",
		Description: "List the reply actions a draft can be generated for, in display order",
	}, ListActions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_conversations",
		Description: "Search Gmail threads using Gmail search syntax",
	}, NewSearchConversations(svc).SearchConversations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_conversation",
		Description: "Preview every message of a Gmail thread",
	}, NewGetConversation(svc).GetConversation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_reply",
		Description: "Generate a reply for the latest message of a thread and save it as a threaded draft",
	}, NewDraftReply(drafter).DraftReply)

	return server
}
