package draft

import "github.com/hal9000y/gmail-reply-drafter/internal/mailbox"

// MaxExcerptRunes bounds the excerpt taken from the latest message body.
const MaxExcerptRunes = 500

// Context is the reply context taken from a conversation.
type Context struct {
	Sender  string
	Subject string
	Excerpt string
}

// Extract reads the latest message of conv.
func Extract(conv mailbox.Conversation) (Context, error) {
	latest, ok := conv.Latest()
	if !ok {
		return Context{}, ErrEmptyConversation
	}

	return Context{
		Sender:  latest.Sender,
		Subject: latest.Subject,
		Excerpt: truncateRunes(latest.Body, MaxExcerptRunes),
	}, nil
}

func truncateRunes(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
