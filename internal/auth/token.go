// Package auth manages the Gmail OAuth2 token used to read threads and save drafts.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ErrTokenNotSet indicates no OAuth token is available.
var ErrTokenNotSet = errors.New("no token defined")

const stateTTL = 5 * time.Minute

// Token manages the OAuth2 token with thread-safe operations.
type Token struct {
	mu         sync.RWMutex
	cfg        *oauth2.Config
	token      *oauth2.Token
	store      TokenStore
	stateStore map[string]time.Time
}

// NewToken creates a Token manager, loading a previously saved token from store.
func NewToken(cfg *oauth2.Config, store TokenStore) (*Token, error) {
	t := &Token{
		cfg:        cfg,
		store:      store,
		stateStore: make(map[string]time.Time),
	}

	token, err := store.Load()
	if errors.Is(err, ErrTokenNotSet) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load failed: %w", err)
	}
	t.token = token

	return t, nil
}

// RedirectURL generates the authorization URL with a fresh single-use state.
func (t *Token) RedirectURL() (string, error) {
	state, err := t.generateState()
	if err != nil {
		return "", fmt.Errorf("generateState failed: %w", err)
	}

	return t.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (t *Token) generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read failed: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.stateStore[state] = now.Add(stateTTL)

	for s, exp := range t.stateStore {
		if exp.Before(now) {
			delete(t.stateStore, s)
		}
	}

	return state, nil
}

func (t *Token) validateState(state string) bool {
	if state == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	expiry, exists := t.stateStore[state]
	if !exists {
		return false
	}

	delete(t.stateStore, state)

	return !time.Now().After(expiry)
}

// AuthorizeCode exchanges an authorization code for a token after validating state.
func (t *Token) AuthorizeCode(ctx context.Context, code string, state string) error {
	if !t.validateState(state) {
		return errors.New("invalid or expired state parameter")
	}

	tok, err := t.cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("cfg.Exchange failed: %w", err)
	}

	t.mu.Lock()
	t.token = tok
	t.mu.Unlock()

	return nil
}

// OAuthToken returns the current OAuth2 token.
func (t *Token) OAuthToken() (*oauth2.Token, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.token == nil {
		return nil, ErrTokenNotSet
	}

	return t.token, nil
}

// Client returns an HTTP client authorized with the current token.
func (t *Token) Client(ctx context.Context) (*http.Client, error) {
	tok, err := t.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	return t.cfg.Client(ctx, tok), nil
}

// Persist saves the current token, if any, to the store.
func (t *Token) Persist() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.token == nil {
		return nil
	}

	if err := t.store.Save(t.token); err != nil {
		return fmt.Errorf("store.Save failed: %w", err)
	}

	return nil
}
