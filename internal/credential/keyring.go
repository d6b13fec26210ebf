// Package credential stores secrets in the OS keychain.
package credential

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "gmail-reply-drafter"

// Well-known keys.
const (
	KeyOpenAI     = "openai-api-key"
	KeyOAuthToken = "gmail-oauth-token"
)

// ErrNotFound indicates no secret is stored under the key.
var ErrNotFound = errors.New("credential not found")

// Get retrieves the secret stored under key.
func Get(key string) (string, error) {
	v, err := keyring.Get(serviceName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return "", fmt.Errorf("keyring.Get %q failed: %w", key, err)
	}

	return v, nil
}

// Set stores value under key, replacing any previous value.
func Set(key, value string) error {
	if err := keyring.Set(serviceName, key, value); err != nil {
		return fmt.Errorf("keyring.Set %q failed: %w", key, err)
	}

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func Delete(key string) error {
	if err := keyring.Delete(serviceName, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring.Delete %q failed: %w", key, err)
	}

	return nil
}
