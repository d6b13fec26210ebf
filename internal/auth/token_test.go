package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/hal9000y/gmail-reply-drafter/internal/auth"
)

func newOAuthConfig(t *testing.T) *oauth2.Config {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-token-1234","token_type":"Bearer","refresh_token":"refresh","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/oauth",
		Scopes:       []string{"scope-a"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: srv.URL + "/token",
		},
	}
}

func stateFrom(t *testing.T, redirect string) string {
	t.Helper()

	u, err := url.Parse(redirect)
	require.NoError(t, err)

	return u.Query().Get("state")
}

func TestTokenAuthorizeAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cfg := newOAuthConfig(t)

	tok, err := auth.NewToken(cfg, auth.FileStore{Path: path})
	require.NoError(t, err)

	_, err = tok.OAuthToken()
	assert.ErrorIs(t, err, auth.ErrTokenNotSet)

	redirect, err := tok.RedirectURL()
	require.NoError(t, err)
	assert.Contains(t, redirect, "https://accounts.example.com/auth?")
	assert.Contains(t, redirect, "access_type=offline")

	state := stateFrom(t, redirect)
	require.NotEmpty(t, state)

	assert.Error(t, tok.AuthorizeCode(context.Background(), "good-code", "forged-state"))
	require.NoError(t, tok.AuthorizeCode(context.Background(), "good-code", state))
	assert.Error(t, tok.AuthorizeCode(context.Background(), "good-code", state), "state is single use")

	got, err := tok.OAuthToken()
	require.NoError(t, err)
	assert.Equal(t, "access-token-1234", got.AccessToken)

	require.NoError(t, tok.Persist())

	reloaded, err := auth.NewToken(cfg, auth.FileStore{Path: path})
	require.NoError(t, err)
	got, err = reloaded.OAuthToken()
	require.NoError(t, err)
	assert.Equal(t, "access-token-1234", got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)
}

func TestTokenBadCode(t *testing.T) {
	tok, err := auth.NewToken(newOAuthConfig(t), auth.FileStore{})
	require.NoError(t, err)

	redirect, err := tok.RedirectURL()
	require.NoError(t, err)

	assert.Error(t, tok.AuthorizeCode(context.Background(), "bad-code", stateFrom(t, redirect)))
	_, err = tok.OAuthToken()
	assert.ErrorIs(t, err, auth.ErrTokenNotSet)
}

func TestFileStore(t *testing.T) {
	_, err := auth.FileStore{}.Load()
	assert.ErrorIs(t, err, auth.ErrTokenNotSet)
	assert.NoError(t, auth.FileStore{}.Save(&oauth2.Token{AccessToken: "x"}))

	missing := auth.FileStore{Path: filepath.Join(t.TempDir(), "missing.json")}
	_, err = missing.Load()
	assert.ErrorIs(t, err, auth.ErrTokenNotSet)

	expiry := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, missing.Save(&oauth2.Token{AccessToken: "x", Expiry: expiry}))
	got, err := missing.Load()
	require.NoError(t, err)
	assert.Equal(t, "x", got.AccessToken)
	assert.True(t, expiry.Equal(got.Expiry))
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store := auth.KeyringStore{}
	_, err := store.Load()
	assert.ErrorIs(t, err, auth.ErrTokenNotSet)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "kr-token", TokenType: "Bearer"}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "kr-token", got.AccessToken)
}
