package image

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/leofalp/postforge/internal/utils"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	generationEndpoint = "/images/generations"
	defaultModel       = "dall-e-3"
	defaultSize        = "1024x1024"
)

// Generator renders images from text descriptions via a DALL-E-compatible
// REST endpoint and returns the hosted image URL.
type Generator struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGenerator creates an image generator. The API key and an optional base
// URL override are read from OPENAI_API_KEY and OPENAI_API_BASE_URL.
func NewGenerator() *Generator {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Generator{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		model:   defaultModel,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the generator.
func (g *Generator) WithAPIKey(apiKey string) *Generator {
	g.apiKey = apiKey
	return g
}

// WithBaseURL sets the base URL for the API.
func (g *Generator) WithBaseURL(baseURL string) *Generator {
	g.baseURL = baseURL
	return g
}

// WithModel overrides the image model.
func (g *Generator) WithModel(model string) *Generator {
	g.model = model
	return g
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (g *Generator) WithHttpClient(httpClient *http.Client) *Generator {
	g.client = httpClient
	return g
}

type generationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
}

type generationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// Generate renders a single image from the given description and returns its
// URL. Any transport failure, non-2xx status or empty result is an error.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("API key is not set")
	}
	if prompt == "" {
		return "", fmt.Errorf("image prompt must not be empty")
	}

	resp, err := utils.DoPostSync[generationResponse](ctx, g.client, g.baseURL+generationEndpoint, g.apiKey, generationRequest{
		Model:   g.model,
		Prompt:  prompt,
		N:       1,
		Size:    defaultSize,
		Quality: "standard",
		Style:   "vivid",
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("image API returned no image")
	}

	return resp.Data[0].URL, nil
}
