// Package gservice reads Gmail threads and saves reply drafts into them.
package gservice

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/hal9000y/gmail-reply-drafter/internal/auth"
	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

const (
	gmailUserID      = "me"
	fetchConcurrency = 4
	draftLabel       = "DRAFT"
)

// NewGmail creates a Gmail backend authorized by tok. Drafts are sent as from.
func NewGmail(tok *auth.Token, from mail.Address) *GMail {
	return &GMail{
		client: tok.Client,
		from:   from,
	}
}

// GMail implements the conversation source and draft store on the Gmail API.
type GMail struct {
	client func(ctx context.Context) (*http.Client, error)
	from   mail.Address
	opts   []option.ClientOption
}

// GetConversation fetches every message of threadID, oldest first.
func (m *GMail) GetConversation(ctx context.Context, threadID string) (mailbox.Conversation, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return mailbox.Conversation{}, fmt.Errorf("newSvc failed: %w", err)
	}

	thread, err := svc.Users.Threads.Get(gmailUserID, threadID).
		Format("minimal").
		Context(ctx).
		Do()
	if err != nil {
		return mailbox.Conversation{}, fmt.Errorf("threads.Get failed: %w", err)
	}

	sent := withoutDrafts(thread.Messages)
	messages := make([]mailbox.Message, len(sent))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, tm := range sent {
		g.Go(func() error {
			msg, err := svc.Users.Messages.Get(gmailUserID, tm.Id).
				Format("raw").
				Context(gctx).
				Do()
			if err != nil {
				return fmt.Errorf("messages.Get %s failed: %w", tm.Id, err)
			}

			raw, err := decodeBase64URL(msg.Raw)
			if err != nil {
				return fmt.Errorf("decode %s failed: %w", tm.Id, err)
			}

			parsed, err := mailbox.ParseMessage(bytes.NewReader(raw))
			if err != nil {
				return fmt.Errorf("parse %s failed: %w", tm.Id, err)
			}
			parsed.Position = i
			messages[i] = parsed

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return mailbox.Conversation{}, err
	}

	return mailbox.Conversation{
		ID:       thread.Id,
		Messages: messages,
	}, nil
}

// CreateDraftReply saves rec as a new draft threaded under its conversation.
func (m *GMail) CreateDraftReply(ctx context.Context, rec mailbox.DraftRecord) (string, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return "", fmt.Errorf("newSvc failed: %w", err)
	}

	th, err := latestThreading(ctx, svc, rec.ConversationID)
	if err != nil {
		return "", err
	}

	raw, err := mailbox.BuildReply(m.from, rec, th)
	if err != nil {
		return "", fmt.Errorf("mailbox.BuildReply failed: %w", err)
	}

	d, err := svc.Users.Drafts.Create(gmailUserID, &gmail.Draft{
		Message: &gmail.Message{
			Raw:      base64.URLEncoding.EncodeToString(raw),
			ThreadId: rec.ConversationID,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drafts.Create failed: %w", err)
	}

	return d.Id, nil
}

// SearchConversations lists threads matching a Gmail search query.
func (m *GMail) SearchConversations(ctx context.Context, q, pageToken string, maxResults int64) (*gmail.ListThreadsResponse, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	result, err := svc.Users.Threads.List(gmailUserID).
		Q(q).
		PageToken(pageToken).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("threads.List failed: %w", err)
	}

	return result, nil
}

func latestThreading(ctx context.Context, svc *gmail.Service, threadID string) (mailbox.Threading, error) {
	thread, err := svc.Users.Threads.Get(gmailUserID, threadID).
		Format("metadata").
		MetadataHeaders("Message-ID", "References").
		Context(ctx).
		Do()
	if err != nil {
		return mailbox.Threading{}, fmt.Errorf("threads.Get failed: %w", err)
	}
	sent := withoutDrafts(thread.Messages)
	if len(sent) == 0 {
		return mailbox.Threading{}, errors.New("thread has no messages")
	}

	last := sent[len(sent)-1]
	th := mailbox.Threading{}
	if last.Payload == nil {
		return th, nil
	}

	for _, h := range last.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "message-id":
			th.InReplyTo = h.Value
		case "references":
			th.References = h.Value
		}
	}

	return th, nil
}

// withoutDrafts drops unsent drafts, including ones saved by earlier replies.
func withoutDrafts(msgs []*gmail.Message) []*gmail.Message {
	out := make([]*gmail.Message, 0, len(msgs))
	for _, m := range msgs {
		if !slices.Contains(m.LabelIds, draftLabel) {
			out = append(out, m)
		}
	}
	return out
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	clt, err := m.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("client failed: %w", err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(clt)}, m.opts...)

	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}

func decodeBase64URL(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return base64.RawURLEncoding.DecodeString(data)
	}
	return decoded, nil
}
