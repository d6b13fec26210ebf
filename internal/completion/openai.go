package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrEmptyChoices indicates a response without any choice to read.
var ErrEmptyChoices = errors.New("response has no choices")

// Settings configure the OpenAI-compatible chat completions client.
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string
	// HTTPClient is the transport collaborator; timeouts belong there.
	HTTPClient *http.Client
}

// OpenAI implements Client on the chat completions endpoint.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a client issuing exactly one HTTP attempt per Complete call.
func NewOpenAI(s Settings) (*OpenAI, error) {
	if s.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if s.Model == "" {
		return nil, errors.New("completion model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	if s.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(s.HTTPClient))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  s.Model,
	}, nil
}

// Complete sends req and returns the first choice's content.
func (o *OpenAI) Complete(ctx context.Context, req Request) Result {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		MaxTokens:   openai.Int(req.MaxTokens),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return Fallback(fmt.Errorf("chat.Completions.New failed: %w", err))
	}
	if len(resp.Choices) == 0 {
		return Fallback(ErrEmptyChoices)
	}

	return Text(resp.Choices[0].Message.Content)
}
