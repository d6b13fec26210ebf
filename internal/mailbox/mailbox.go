// Package mailbox defines the conversation and draft types shared by the
// mailbox backends and the drafting pipeline.
package mailbox

// Message is a single fetched message of a conversation.
type Message struct {
	Sender   string
	Subject  string
	Body     string
	Position int
}

// Conversation is an ordered thread of messages, oldest first.
type Conversation struct {
	ID       string
	Messages []Message
}

// Latest returns the most recent message and false when the conversation is empty.
func (c Conversation) Latest() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// DraftRecord is a reply draft handed over to a mailbox backend.
type DraftRecord struct {
	ConversationID string
	Recipient      string
	Subject        string
	Body           string
	DraftID        string
}

// ReplySubject prefixes subject with "Re: " unless it already carries one.
func ReplySubject(subject string) string {
	if len(subject) >= 3 && (subject[:3] == "Re:" || subject[:3] == "RE:" || subject[:3] == "re:") {
		return subject
	}
	return "Re: " + subject
}
