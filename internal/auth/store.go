package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"golang.org/x/oauth2"

	"github.com/hal9000y/gmail-reply-drafter/internal/credential"
)

// TokenStore loads and saves an OAuth2 token between runs.
// Load returns ErrTokenNotSet when nothing has been stored yet.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(*oauth2.Token) error
}

// FileStore keeps the token as JSON in a file. An empty path disables storage.
type FileStore struct {
	Path string
}

// Load reads the token file.
func (s FileStore) Load() (*oauth2.Token, error) {
	if s.Path == "" {
		return nil, ErrTokenNotSet
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("File %s doesn't exist, but will be created at the end", s.Path)
			return nil, ErrTokenNotSet
		}
		return nil, fmt.Errorf("os.Open failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("json.NewDecoder.Decode failed: %w", err)
	}

	return token, nil
}

// Save writes the token file with owner-only permissions.
func (s FileStore) Save(token *oauth2.Token) error {
	if s.Path == "" {
		return nil
	}

	f, err := os.OpenFile(s.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("json.NewEncoder.Encode failed: %w", err)
	}

	return nil
}

// KeyringStore keeps the token in the OS keychain.
type KeyringStore struct{}

// Load reads the token from the keychain.
func (KeyringStore) Load() (*oauth2.Token, error) {
	raw, err := credential.Get(credential.KeyOAuthToken)
	if errors.Is(err, credential.ErrNotFound) {
		return nil, ErrTokenNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("credential.Get failed: %w", err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal([]byte(raw), token); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	return token, nil
}

// Save writes the token to the keychain.
func (KeyringStore) Save(token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("json.Marshal failed: %w", err)
	}

	if err := credential.Set(credential.KeyOAuthToken, string(raw)); err != nil {
		return fmt.Errorf("credential.Set failed: %w", err)
	}

	return nil
}
