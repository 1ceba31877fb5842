package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/postforge/internal/jsonschema"
	"github.com/leofalp/postforge/providers/ai"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1726000000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "hello from the model"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
}`

func newProviderWithServer(t *testing.T, handler http.HandlerFunc) (*Provider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := New("gpt-4o-mini")
	provider.WithAPIKey("test-key").WithBaseURL(server.URL).WithHttpClient(server.Client())
	return provider, server
}

func TestSendMessage(t *testing.T) {
	var captured map[string]any
	provider, _ := newProviderWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		_, _ = w.Write([]byte(completionBody))
	})

	response, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		SystemPrompt: "You are a social media post creator.",
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: "write a post"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if response.Content != "hello from the model" {
		t.Errorf("unexpected content: %q", response.Content)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 17 {
		t.Errorf("usage not mapped: %+v", response.Usage)
	}

	if captured["model"] != "gpt-4o-mini" {
		t.Errorf("default model not applied: %v", captured["model"])
	}
	messages, _ := captured["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(messages))
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("system prompt should lead the messages, got role %v", first["role"])
	}
}

func TestSendMessageStructuredFormat(t *testing.T) {
	var captured map[string]any
	provider, _ := newProviderWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(completionBody))
	})

	type choice struct {
		ID string `json:"id"`
	}
	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "pick one"}},
		ResponseFormat: &ai.ResponseFormat{
			OutputSchema: jsonschema.Generate[choice](),
			Strict:       true,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	format, _ := captured["response_format"].(map[string]any)
	if format == nil || format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", captured["response_format"])
	}
	wrapper, _ := format["json_schema"].(map[string]any)
	schema, _ := wrapper["schema"].(map[string]any)
	if schema["additionalProperties"] != false {
		t.Errorf("strict schema should disallow additional properties, got %v", schema["additionalProperties"])
	}
}

func TestSendMessageErrors(t *testing.T) {
	provider, _ := newProviderWithServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	if _, err := provider.SendMessage(context.Background(), ai.ChatRequest{}); err == nil {
		t.Error("expected error for empty choices")
	}

	provider.WithAPIKey("")
	if _, err := provider.SendMessage(context.Background(), ai.ChatRequest{}); err == nil {
		t.Error("expected error for missing API key")
	}
}
