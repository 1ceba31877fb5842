package post

import (
	"context"

	"github.com/leofalp/postforge/news"
	"github.com/leofalp/postforge/providers/meme"
	"github.com/leofalp/postforge/providers/video"
)

// TextCompleter produces a free-form completion for a prompt.
// Satisfied by core/client.Client.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator renders an image from a description and returns its URL.
// Satisfied by providers/image.Generator.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TemplateCatalog fetches the available meme templates.
// Satisfied by providers/meme.Client.
type TemplateCatalog interface {
	FetchTemplates(ctx context.Context) ([]meme.Template, error)
}

// MemeCaptioner renders a captioned meme and returns the media URL.
// Satisfied by providers/meme.Client.
type MemeCaptioner interface {
	Caption(ctx context.Context, templateID string, texts []string) (string, error)
}

// VideoSynthesizer submits an image for video synthesis and polls the
// resulting job. Submission returns a tracking ID, not a finished artifact.
// Satisfied by providers/video.Client.
type VideoSynthesizer interface {
	Submit(ctx context.Context, imageURL string) (string, error)
	Status(ctx context.Context, trackingID string) (*video.Job, error)
}

// TemplateSelector picks the single best-matching template from a catalog
// for a prompt. The default implementation is LLM-backed; tests substitute
// fakes.
type TemplateSelector interface {
	SelectTemplate(ctx context.Context, prompt string, catalog []meme.Template) (*meme.Template, error)
}

// CaptionWriter produces the caption texts for a template. Implementations
// should aim for exactly template.BoxCount captions; the meme step enforces
// the count before any caption is used.
type CaptionWriter interface {
	WriteCaptions(ctx context.Context, prompt string, template meme.Template) ([]string, error)
}

// ContentAnalyzer scores a text for quality signals. The default
// implementation is LLM-backed via structured extraction.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, text string) (*Analysis, error)
}

// TopicEncoder condenses a free-form prompt into a news search query.
// Satisfied by news.TopicEncoder.
type TopicEncoder interface {
	Encode(ctx context.Context, prompt string) (string, error)
}

// Providers bundles every capability the pipeline depends on. It is
// constructed once at process start and passed by reference; steps receive
// their handles through it instead of reaching for globals.
type Providers struct {
	Topics    TopicEncoder
	Articles  news.Source
	Text      TextCompleter
	Images    ImageGenerator
	Catalog   TemplateCatalog
	Selector  TemplateSelector
	Captions  CaptionWriter
	Captioner MemeCaptioner
	Videos    VideoSynthesizer
	Analyzer  ContentAnalyzer
}
