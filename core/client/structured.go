package client

import (
	"context"
	"fmt"

	"github.com/leofalp/postforge/core/parse"
	"github.com/leofalp/postforge/internal/jsonschema"
	"github.com/leofalp/postforge/providers/ai"
)

// Structured wraps a Client with type-safe structured output. The JSON schema
// for T is generated once at construction time and attached to every request;
// responses are parsed into T with repair-and-retry semantics.
//
// Example:
//
//	type Captions struct {
//	    Captions []string `json:"captions"`
//	}
//
//	extractor, _ := client.NewStructured[Captions](provider)
//	result, err := extractor.Extract(ctx, "Write two captions for ...")
type Structured[T any] struct {
	client *Client
	schema *jsonschema.Schema
}

// NewStructured creates a structured extractor for type T backed by the given
// provider. Options are applied to the underlying Client.
func NewStructured[T any](provider ai.Provider, opts ...Option) (*Structured[T], error) {
	base, err := New(provider, opts...)
	if err != nil {
		return nil, err
	}
	return FromClient[T](base), nil
}

// FromClient wraps an existing Client in a structured extractor for type T.
func FromClient[T any](base *Client) *Structured[T] {
	return &Structured[T]{
		client: base,
		schema: jsonschema.Generate[T](),
	}
}

// Schema returns the JSON schema used for structured output.
func (s *Structured[T]) Schema() *jsonschema.Schema {
	return s.schema
}

// Extract sends the prompt with the schema for T attached and parses the
// response into T.
func (s *Structured[T]) Extract(ctx context.Context, prompt string) (*T, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt must not be empty")
	}

	response, err := s.client.provider.SendMessage(ctx, ai.ChatRequest{
		SystemPrompt: s.client.systemPrompt,
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		ResponseFormat: &ai.ResponseFormat{
			OutputSchema: s.schema,
			Strict:       true,
		},
		GenerationConfig: s.client.config,
	})
	if err != nil {
		return nil, err
	}
	if response.Refusal != "" {
		return nil, fmt.Errorf("model refused the request: %s", response.Refusal)
	}

	data, err := parse.StringAs[T](response.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse structured output: %w", err)
	}

	return &data, nil
}
