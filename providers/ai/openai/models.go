package openai

import (
	"github.com/leofalp/postforge/internal/jsonschema"
	"github.com/leofalp/postforge/providers/ai"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest represents the /v1/chat/completions request format.
type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    *float32            `json:"temperature,omitempty"`
	MaxTokens      *int                `json:"max_completion_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type       string          `json:"type"` // "text", "json_object", "json_schema"
	JSONSchema *chatJSONSchema `json:"json_schema,omitempty"`
}

type chatJSONSchema struct {
	Name   string             `json:"name"`
	Strict bool               `json:"strict,omitempty"`
	Schema *jsonschema.Schema `json:"schema"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

// chatCompletionResponse mirrors the fields this package consumes from the
// OpenAI API response.
type chatCompletionResponse struct {
	Id      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// requestFromGeneric converts the provider-agnostic request into the chat
// completions wire format. The system prompt becomes the leading message and
// an output schema is expressed as a strict json_schema response format.
func requestFromGeneric(request ai.ChatRequest) chatCompletionRequest {
	wireRequest := chatCompletionRequest{
		Model:    request.Model,
		Messages: make([]chatMessage, 0, len(request.Messages)+1),
	}

	if request.SystemPrompt != "" {
		wireRequest.Messages = append(wireRequest.Messages, chatMessage{
			Role:    string(ai.RoleSystem),
			Content: request.SystemPrompt,
		})
	}

	for _, message := range request.Messages {
		wireRequest.Messages = append(wireRequest.Messages, chatMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	if config := request.GenerationConfig; config != nil {
		if config.Temperature != 0 {
			temperature := config.Temperature
			wireRequest.Temperature = &temperature
		}
		if config.MaxTokens > 0 {
			maxTokens := config.MaxTokens
			wireRequest.MaxTokens = &maxTokens
		}
	}

	if format := request.ResponseFormat; format != nil && format.OutputSchema != nil {
		// Strict schemas require additionalProperties to be disallowed.
		schema := format.OutputSchema
		if schema.Type == "object" && schema.AdditionalProperties == nil {
			schemaCopy := *schema
			schemaCopy.AdditionalProperties = false
			schema = &schemaCopy
		}
		wireRequest.ResponseFormat = &chatResponseFormat{
			Type: "json_schema",
			JSONSchema: &chatJSONSchema{
				Name:   "response",
				Strict: format.Strict,
				Schema: schema,
			},
		}
	}

	return wireRequest
}

// responseToGeneric converts the wire response back into the provider-agnostic
// shape consumed by the rest of the module.
func responseToGeneric(response *chatCompletionResponse) *ai.ChatResponse {
	choice := response.Choices[0]

	return &ai.ChatResponse{
		Id:           response.Id,
		Model:        response.Model,
		Created:      response.Created,
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Refusal:      choice.Message.Refusal,
		Usage: &ai.Usage{
			PromptTokens:     response.Usage.PromptTokens,
			CompletionTokens: response.Usage.CompletionTokens,
			TotalTokens:      response.Usage.TotalTokens,
		},
	}
}
