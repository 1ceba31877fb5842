package news

import (
	"context"
	"fmt"
	"strings"
)

// Completer produces a completion for a prompt. Satisfied by core/client.Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const topicPromptTemplate = `Rewrite the following request as a short news search query.
Return only the query itself, with no quotes and no explanation.

Request: %s`

// TopicEncoder turns a free-form user prompt into a concise search query.
type TopicEncoder struct {
	completer Completer
}

func NewTopicEncoder(completer Completer) *TopicEncoder {
	return &TopicEncoder{completer: completer}
}

// Encode derives a search query from prompt. The raw completion is cleaned
// of surrounding quotes and collapsed onto a single line. An empty result
// falls back to the original prompt.
func (e *TopicEncoder) Encode(ctx context.Context, prompt string) (string, error) {
	completion, err := e.completer.Complete(ctx, fmt.Sprintf(topicPromptTemplate, prompt))
	if err != nil {
		return "", fmt.Errorf("encoding search topic: %w", err)
	}

	query := cleanQuery(completion)
	if query == "" {
		query = strings.TrimSpace(prompt)
	}
	return query, nil
}

func cleanQuery(raw string) string {
	query := strings.TrimSpace(raw)
	query = strings.Trim(query, `"'`)
	query = strings.ReplaceAll(query, "\n", " ")
	return strings.TrimSpace(query)
}
