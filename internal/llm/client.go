// Package llm wraps the chat-completion API behind a narrow Completer
// capability so the query router and RAG pipeline can run against a
// deterministic stub in tests.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Completer produces a text completion for a single prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client is the production Completer backed by an OpenRouter-compatible
// chat-completion endpoint.
type Client struct {
	model llms.Model
}

// New returns nil (without error) when no API key is configured; callers
// treat a nil client as degraded mode rather than a startup failure.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, nil
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{model: model}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}
	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
