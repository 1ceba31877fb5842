package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leofalp/postforge/providers/meme"
	"github.com/leofalp/postforge/providers/video"
	"github.com/leofalp/postforge/workflow"
)

// DefaultArticleLimit caps how many articles the fetch step gathers per run.
const DefaultArticleLimit = 5

// Request is the input of a post creation run.
type Request struct {
	Prompt        string `json:"prompt"`
	Style         string `json:"style"`
	Format        string `json:"format"`
	GenerateText  bool   `json:"generate_text"`
	GenerateImage bool   `json:"generate_image"`
	GenerateVideo bool   `json:"generate_video"`
	GenerateMeme  bool   `json:"generate_meme"`
}

// Validate rejects requests that must never reach the workflow.
func (request *Request) Validate() error {
	if request.Prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	return nil
}

// Meme is the meme portion of a creation response. Both fields are null
// when meme generation was not requested.
type Meme struct {
	Template *meme.Template `json:"template"`
	MemeURL  *string        `json:"meme_url"`
}

// Response is the output of a post creation run. Every field is always
// present; absent artifacts are communicated through sentinel values.
type Response struct {
	GeneratedText string `json:"generated_text"`
	GeneratedHTML string `json:"generated_html"`
	ImageURL      string `json:"image_url"`
	VideoURL      string `json:"video_url"`
	Meme          Meme   `json:"meme"`
}

// Pipeline wires the content-generation steps into a workflow and exposes
// the creation, refinement and analysis operations. It is constructed once
// at process start and is safe for concurrent use.
type Pipeline struct {
	providers *Providers
	wf        *workflow.Workflow
}

// NewPipeline builds the pipeline graph around the given providers.
// Workflow options (concurrency bound, run timeout, logger) pass through
// to the executor.
func NewPipeline(providers *Providers, opts ...workflow.Option) (*Pipeline, error) {
	if providers == nil {
		return nil, fmt.Errorf("providers must not be nil")
	}

	wf, err := workflow.NewBuilder(opts...).
		AddNode(NodeFetchArticles,
			FetchArticlesStep(providers.Topics, providers.Articles, DefaultArticleLimit),
			workflow.WithOutputs(KeyNewsArticles)).
		AddNode(NodeGenerateText,
			GenerateTextStep(providers.Text),
			workflow.WithOutputs(KeyGeneratedText)).
		AddNode(NodeGenerateImage,
			GenerateImageStep(providers.Text, providers.Images),
			workflow.WithOutputs(KeyGeneratedImage)).
		AddNode(NodeSelectTemplate,
			SelectTemplateStep(providers.Catalog, providers.Selector),
			workflow.WithOutputs(KeySelectedTemplate)).
		AddNode(NodeGenerateMeme,
			GenerateMemeStep(providers.Captions, providers.Captioner),
			workflow.WithOutputs(KeyGeneratedMeme)).
		AddNode(NodeGenerateVideo,
			GenerateVideoStep(providers.Videos),
			workflow.WithOutputs(KeyGeneratedVideo)).
		AddEdge(NodeFetchArticles, NodeGenerateText).
		AddEdge(NodeFetchArticles, NodeGenerateImage).
		AddEdge(NodeFetchArticles, NodeSelectTemplate).
		AddEdge(NodeSelectTemplate, NodeGenerateMeme).
		AddEdge(NodeGenerateImage, NodeGenerateVideo).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building pipeline workflow: %w", err)
	}

	return &Pipeline{providers: providers, wf: wf}, nil
}

// Create runs the full pipeline for a request. Individual step failures are
// absorbed into sentinels; the returned error is non-nil only for invalid
// requests or a canceled run.
func (pipeline *Pipeline) Create(ctx context.Context, request Request) (*Response, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	result, err := pipeline.wf.Run(ctx, map[string]any{
		KeyUserPrompt:    request.Prompt,
		KeyContentStyle:  request.Style,
		KeyContentFormat: request.Format,
		KeyGenerateText:  request.GenerateText,
		KeyGenerateImage: request.GenerateImage,
		KeyGenerateVideo: request.GenerateVideo,
		KeyGenerateMeme:  request.GenerateMeme,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline run: %w", err)
	}

	for _, nodeID := range result.Failed() {
		slog.Warn("pipeline node failed", "node", nodeID, "error", result.Nodes[nodeID].Err.Error())
	}

	return buildResponse(result.State), nil
}

// buildResponse maps the final workflow state onto the response shape.
func buildResponse(state map[string]any) *Response {
	generatedText := stateString(state, KeyGeneratedText)

	generatedHTML := ""
	if !IsSentinel(generatedText) {
		html, err := RenderHTML(generatedText)
		if err != nil {
			slog.Warn("html preview rendering failed", "error", err.Error())
		} else {
			generatedHTML = html
		}
	}

	return &Response{
		GeneratedText: generatedText,
		GeneratedHTML: generatedHTML,
		ImageURL:      stateString(state, KeyGeneratedImage),
		VideoURL:      stateString(state, KeyGeneratedVideo),
		Meme:          buildMeme(state),
	}
}

// buildMeme maps the meme state keys onto the response. Not-requested memes
// surface as null template and null URL; a failed or unavailable meme keeps
// its sentinel as the URL alongside whatever template was selected.
func buildMeme(state map[string]any) Meme {
	memeURL := stateString(state, KeyGeneratedMeme)
	if memeURL == SentinelNotRequested {
		return Meme{}
	}

	var template *meme.Template
	if value, exists := state[KeySelectedTemplate]; exists {
		if selected, isTemplate := value.(*meme.Template); isTemplate {
			template = selected
		}
	}

	return Meme{Template: template, MemeURL: &memeURL}
}

// stateString reads a string output key from the final state. A key missing
// because its node never finished reads as the unavailable sentinel.
func stateString(state map[string]any, key string) string {
	value, exists := state[key]
	if !exists {
		return SentinelUnavailable
	}
	stringValue, isString := value.(string)
	if !isString {
		return SentinelUnavailable
	}
	return stringValue
}

// VideoStatus polls the synthesis job behind a tracking ID.
func (pipeline *Pipeline) VideoStatus(ctx context.Context, trackingID string) (*video.Job, error) {
	if trackingID == "" {
		return nil, fmt.Errorf("tracking ID must not be empty")
	}
	return pipeline.providers.Videos.Status(ctx, trackingID)
}
