// Package localstore is a file-backed mailbox for running the drafter offline.
//
// A conversation is either a single .eml file or a directory of .eml files
// sorted by name; its ID is the path. Drafts are written as JSON files.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hal9000y/gmail-reply-drafter/internal/mailbox"
)

var openFile = os.OpenFile

// Draft is the on-disk form of a saved reply draft.
type Draft struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Recipient      string    `json:"recipient"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store reads conversations from .eml files and writes drafts under draftsDir.
type Store struct {
	draftsDir string
}

// New creates a Store writing drafts to draftsDir.
func New(draftsDir string) *Store {
	return &Store{draftsDir: draftsDir}
}

// GetConversation loads the conversation stored at path id.
func (s *Store) GetConversation(_ context.Context, id string) (mailbox.Conversation, error) {
	files, err := emlFiles(id)
	if err != nil {
		return mailbox.Conversation{}, err
	}

	conv := mailbox.Conversation{ID: id, Messages: make([]mailbox.Message, 0, len(files))}
	for i, path := range files {
		msg, err := readMessage(path)
		if err != nil {
			return mailbox.Conversation{}, err
		}
		msg.Position = i
		conv.Messages = append(conv.Messages, msg)
	}

	return conv, nil
}

// CreateDraftReply writes rec to a new file and returns the draft ID.
func (s *Store) CreateDraftReply(_ context.Context, rec mailbox.DraftRecord) (string, error) {
	if _, err := os.Stat(rec.ConversationID); err != nil {
		return "", fmt.Errorf("conversation %s: %w", rec.ConversationID, err)
	}

	if err := os.MkdirAll(s.draftsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create drafts directory: %w", err)
	}

	d := Draft{
		ID:             uuid.New().String(),
		ConversationID: rec.ConversationID,
		Recipient:      rec.Recipient,
		Subject:        mailbox.ReplySubject(rec.Subject),
		Body:           rec.Body,
		CreatedAt:      time.Now(),
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := writeNew(s.draftPath(d.ID), data); err != nil {
		return "", err
	}

	return d.ID, nil
}

// writeNew creates path exclusively and removes it again if writing fails.
func writeNew(path string, data []byte) error {
	f, err := openFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create draft file: %w", err)
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to write draft file: %w", err)
	}

	return nil
}

// LoadDraft reads a previously saved draft.
func (s *Store) LoadDraft(id string) (Draft, error) {
	data, err := os.ReadFile(s.draftPath(id))
	if err != nil {
		return Draft{}, fmt.Errorf("failed to read draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return d, nil
}

func (s *Store) draftPath(id string) string {
	return filepath.Join(s.draftsDir, id+".json")
}

func emlFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("conversation %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir failed: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".eml") {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)

	return files, nil
}

func readMessage(path string) (mailbox.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return mailbox.Message{}, fmt.Errorf("os.Open failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	msg, err := mailbox.ParseMessage(f)
	if err != nil {
		return mailbox.Message{}, fmt.Errorf("parse %s failed: %w", path, err)
	}

	return msg, nil
}
