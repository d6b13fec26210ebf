// Package config loads the process-wide drafter configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/hal9000y/gmail-reply-drafter/internal/completion"
	"github.com/hal9000y/gmail-reply-drafter/internal/credential"
	"github.com/hal9000y/gmail-reply-drafter/internal/draft"
)

type IdentityConfig struct {
	DisplayName  string `toml:"display_name"`
	Organization string `toml:"organization"`
	Title        string `toml:"title"`
	Email        string `toml:"email"`
}

type CompletionConfig struct {
	Model             string  `toml:"model"`
	MaxTokens         int64   `toml:"max_tokens"`
	Temperature       float64 `toml:"temperature"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerMinute int     `toml:"requests_per_minute"` // 0 disables throttling

	APIKey string `toml:"-"`
}

type RetryConfig struct {
	Attempts         int     `toml:"attempts"`
	InitialBackoffMS int     `toml:"initial_backoff_ms"`
	MaxBackoffMS     int     `toml:"max_backoff_ms"`
	Multiplier       float64 `toml:"multiplier"`
}

type DraftConfig struct {
	OnDegraded string `toml:"on_degraded"` // "save" or "reject"
}

type GmailConfig struct {
	TokenStore string `toml:"token_store"` // "file" or "keyring"
	TokenFile  string `toml:"token_file"`

	ClientID     string `toml:"-"`
	ClientSecret string `toml:"-"`
}

type Config struct {
	Identity   IdentityConfig   `toml:"identity"`
	Completion CompletionConfig `toml:"completion"`
	Retry      RetryConfig      `toml:"retry"`
	Draft      DraftConfig      `toml:"draft"`
	Gmail      GmailConfig      `toml:"gmail"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Completion: CompletionConfig{
			Model:       "gpt-4o",
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		Retry: RetryConfig{
			Attempts:         1,
			InitialBackoffMS: 500,
			MaxBackoffMS:     8000,
			Multiplier:       2,
		},
		Draft: DraftConfig{OnDegraded: "save"},
		Gmail: GmailConfig{
			TokenStore: "file",
			TokenFile:  "./data/gmail-reply-drafter-token.json",
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies environment
// overrides. envFile, when set, is loaded into the environment first. A
// missing config file is not an error.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("godotenv.Load failed: %w", err)
		}
	}

	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("toml.DecodeFile %s failed: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, 0, len(undecoded))
				for _, k := range undecoded {
					keys = append(keys, k.String())
				}
				return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
			}
		}
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Completion.Model = v
	}
	cfg.Gmail.ClientID = os.Getenv("OAUTH_GOOGLE_CLIENT_ID")
	cfg.Gmail.ClientSecret = os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	if c.Identity.DisplayName == "" {
		errs = append(errs, errors.New("identity.display_name is required"))
	}
	if c.Identity.Email == "" {
		errs = append(errs, errors.New("identity.email is required"))
	}
	if c.Completion.Model == "" {
		errs = append(errs, errors.New("completion.model is required"))
	}
	if c.Completion.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("completion.max_tokens must be positive, got %d", c.Completion.MaxTokens))
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		errs = append(errs, fmt.Errorf("completion.temperature must be within [0, 2], got %v", c.Completion.Temperature))
	}
	if c.Completion.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("completion.requests_per_minute must not be negative"))
	}
	if c.Retry.Attempts < 1 {
		errs = append(errs, fmt.Errorf("retry.attempts must be at least 1, got %d", c.Retry.Attempts))
	}
	if _, err := draft.ParseDegradedPolicy(c.Draft.OnDegraded); err != nil {
		errs = append(errs, fmt.Errorf("draft.on_degraded: %w", err))
	}
	if c.Gmail.TokenStore != "file" && c.Gmail.TokenStore != "keyring" {
		errs = append(errs, fmt.Errorf("gmail.token_store must be file or keyring, got %q", c.Gmail.TokenStore))
	}

	return errors.Join(errs...)
}

// ResolveAPIKey falls back to the OS keyring when no key came from the environment.
func (c *Config) ResolveAPIKey() error {
	if c.Completion.APIKey != "" {
		return nil
	}

	key, err := credential.Get(credential.KeyOpenAI)
	if err != nil {
		return fmt.Errorf("no OPENAI_API_KEY set and keyring lookup failed: %w", err)
	}
	c.Completion.APIKey = key

	return nil
}

// DraftIdentity builds the reply author, deriving its signature once.
func (c *Config) DraftIdentity() draft.Identity {
	return draft.NewIdentity(c.Identity.DisplayName, c.Identity.Organization, c.Identity.Title, c.Identity.Email)
}

func (c *Config) CompletionParams() completion.Params {
	return completion.Params{
		MaxTokens:   c.Completion.MaxTokens,
		Temperature: c.Completion.Temperature,
	}
}

func (c *Config) RetryPolicy() completion.RetryPolicy {
	return completion.RetryPolicy{
		Attempts:   c.Retry.Attempts,
		Initial:    time.Duration(c.Retry.InitialBackoffMS) * time.Millisecond,
		Max:        time.Duration(c.Retry.MaxBackoffMS) * time.Millisecond,
		Multiplier: c.Retry.Multiplier,
	}
}

// DegradedPolicy returns the validated on_degraded policy.
func (c *Config) DegradedPolicy() draft.DegradedPolicy {
	p, _ := draft.ParseDegradedPolicy(c.Draft.OnDegraded)
	return p
}
