package client

import (
	"context"
	"fmt"

	"github.com/leofalp/postforge/providers/ai"
)

// Client is a thin, stateless wrapper around an ai.Provider for single-shot
// completions. Every call is an independent request: the content pipeline
// never carries conversation memory across steps.
type Client struct {
	provider     ai.Provider
	systemPrompt string
	config       *ai.GenerationConfig
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithSystemPrompt sets a system prompt sent with every completion.
func WithSystemPrompt(systemPrompt string) Option {
	return func(c *Client) {
		c.systemPrompt = systemPrompt
	}
}

// WithGenerationConfig sets sampling parameters for every completion.
func WithGenerationConfig(config ai.GenerationConfig) Option {
	return func(c *Client) {
		c.config = &config
	}
}

// New creates a Client backed by the given provider.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider must not be nil")
	}

	c := &Client{provider: provider}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete sends a single user prompt and returns the model's text response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt must not be empty")
	}

	response, err := c.provider.SendMessage(ctx, ai.ChatRequest{
		SystemPrompt:     c.systemPrompt,
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		GenerationConfig: c.config,
	})
	if err != nil {
		return "", err
	}
	if response.Refusal != "" {
		return "", fmt.Errorf("model refused the request: %s", response.Refusal)
	}

	return response.Content, nil
}
