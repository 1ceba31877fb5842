package config

import (
	"fmt"
	"os"
	"strconv"
)

// ProviderKind is the closed set of supported LLM provider backends.
// The kind is resolved once at construction time from configuration;
// there is no runtime re-dispatch.
type ProviderKind string

const (
	// ProviderOpenAI selects the OpenAI-compatible chat completions backend.
	ProviderOpenAI ProviderKind = "openai"
)

// ParseProviderKind validates a provider name from configuration.
func ParseProviderKind(name string) (ProviderKind, error) {
	switch ProviderKind(name) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unsupported model provider %q", name)
	}
}

// Config holds the process configuration, loaded from the environment.
type Config struct {
	// Provider selects the LLM backend.
	Provider ProviderKind

	// Model is the model name passed to the provider.
	Model string

	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// ImgflipUsername and ImgflipPassword authenticate the meme caption
	// endpoint.
	ImgflipUsername string
	ImgflipPassword string

	// VideoBaseURL is the base URL of the video synthesis API.
	VideoBaseURL string

	// ArticleDir, when set, serves articles from local JSON files instead
	// of the news search API.
	ArticleDir string

	// ArticleLimit caps how many articles a run fetches.
	ArticleLimit int
}

const (
	defaultProvider     = "openai"
	defaultModel        = "gpt-4o-mini"
	defaultListenAddr   = ":8080"
	defaultArticleLimit = 5
)

// Load reads the configuration from the environment. Provider credentials
// (OPENAI_API_KEY, SEARCH_API_KEY, VIDEO_API_KEY) are read by the provider
// constructors themselves.
func Load() (*Config, error) {
	provider, err := ParseProviderKind(envString("MODEL_PROVIDER", defaultProvider))
	if err != nil {
		return nil, err
	}

	articleLimit, err := envInt("ARTICLE_LIMIT", defaultArticleLimit)
	if err != nil {
		return nil, err
	}
	if articleLimit < 1 {
		return nil, fmt.Errorf("ARTICLE_LIMIT must be at least 1, got %d", articleLimit)
	}

	return &Config{
		Provider:        provider,
		Model:           envString("MODEL_NAME", defaultModel),
		ListenAddr:      envString("LISTEN_ADDR", defaultListenAddr),
		ImgflipUsername: os.Getenv("IMGFLIP_USERNAME"),
		ImgflipPassword: os.Getenv("IMGFLIP_PASSWORD"),
		VideoBaseURL:    os.Getenv("VIDEO_API_BASE_URL"),
		ArticleDir:      os.Getenv("ARTICLE_DIR"),
		ArticleLimit:    articleLimit,
	}, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, value)
	}
	return parsed, nil
}
