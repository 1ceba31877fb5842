package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/leofalp/postforge/config"
	"github.com/leofalp/postforge/core/client"
	"github.com/leofalp/postforge/news"
	"github.com/leofalp/postforge/post"
	"github.com/leofalp/postforge/providers/ai"
	"github.com/leofalp/postforge/providers/ai/openai"
	"github.com/leofalp/postforge/providers/image"
	"github.com/leofalp/postforge/providers/meme"
	"github.com/leofalp/postforge/providers/video"
	"github.com/leofalp/postforge/server"
)

func main() {
	// Missing .env is fine: real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	providers, err := buildProviders(cfg)
	if err != nil {
		logger.Error("provider construction failed", "error", err.Error())
		os.Exit(1)
	}

	pipeline, err := post.NewPipeline(providers)
	if err != nil {
		logger.Error("pipeline construction failed", "error", err.Error())
		os.Exit(1)
	}

	apiServer, err := server.New(pipeline, logger)
	if err != nil {
		logger.Error("server construction failed", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("listening", "addr", cfg.ListenAddr, "provider", string(cfg.Provider), "model", cfg.Model)
	if err := http.ListenAndServe(cfg.ListenAddr, apiServer.Routes()); err != nil {
		logger.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}

// buildProviders resolves the configured provider kind once and wires every
// capability the pipeline needs.
func buildProviders(cfg *config.Config) (*post.Providers, error) {
	var llm ai.Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		llm = openai.New(cfg.Model)
	}

	completer, err := client.New(llm)
	if err != nil {
		return nil, err
	}

	selector, err := post.NewLLMTemplateSelector(llm)
	if err != nil {
		return nil, err
	}

	captions, err := post.NewLLMCaptionWriter(llm)
	if err != nil {
		return nil, err
	}

	analyzer, err := post.NewLLMContentAnalyzer(llm)
	if err != nil {
		return nil, err
	}

	var articles news.Source
	if cfg.ArticleDir != "" {
		articles = news.NewDirectorySource(cfg.ArticleDir)
	} else {
		articles = news.NewGoogleSource()
	}

	memeClient := meme.NewClient(cfg.ImgflipUsername, cfg.ImgflipPassword)

	return &post.Providers{
		Topics:    news.NewTopicEncoder(completer),
		Articles:  articles,
		Text:      completer,
		Images:    image.NewGenerator(),
		Catalog:   memeClient,
		Selector:  selector,
		Captions:  captions,
		Captioner: memeClient,
		Videos:    video.NewClient(cfg.VideoBaseURL),
		Analyzer:  analyzer,
	}, nil
}
