package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leofalp/postforge/internal/utils"
	"github.com/leofalp/postforge/news"
	"github.com/leofalp/postforge/providers/meme"
	"github.com/leofalp/postforge/workflow"
)

// Node IDs of the pipeline graph.
const (
	NodeFetchArticles  = "fetch_articles"
	NodeGenerateText   = "generate_text"
	NodeGenerateImage  = "generate_image"
	NodeSelectTemplate = "select_template"
	NodeGenerateMeme   = "generate_meme"
	NodeGenerateVideo  = "generate_video"
)

// ArticlesFromState reads the fetched article collection from the state.
// Returns an empty collection when the fetch node has not produced one.
func ArticlesFromState(state *workflow.State) []news.Article {
	value, exists := state.Get(KeyNewsArticles)
	if !exists {
		return nil
	}
	articles, isCollection := value.([]news.Article)
	if !isCollection {
		return nil
	}
	return articles
}

// templateFromState reads the selected meme template from the state.
// Returns nil when selection was gated off, failed, or has not run.
func templateFromState(state *workflow.State) *meme.Template {
	value, exists := state.Get(KeySelectedTemplate)
	if !exists {
		return nil
	}
	template, isTemplate := value.(*meme.Template)
	if !isTemplate {
		return nil
	}
	return template
}

// FetchArticlesStep derives a search topic from the user prompt and fetches
// reference articles. An unreachable source yields an empty collection, not
// an error: downstream steps handle zero articles by producing generic
// content.
func FetchArticlesStep(topics TopicEncoder, source news.Source, limit int) workflow.StepFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Update, error) {
		userPrompt := state.GetString(KeyUserPrompt)

		topic := userPrompt
		if topics != nil {
			encoded, err := topics.Encode(ctx, userPrompt)
			if err != nil {
				slog.Warn("topic encoding failed, using raw prompt", "error", err.Error())
			} else {
				topic = encoded
			}
		}

		articles, err := source.Fetch(ctx, topic, limit)
		if err != nil {
			slog.Warn("article fetch failed, continuing without articles", "error", err.Error())
			articles = nil
		}
		if articles == nil {
			articles = []news.Article{}
		}

		return workflow.Update{KeyNewsArticles: articles}, nil
	}
}

const generateTextPromptTemplate = `You are a social media post creator.

Given:
- News articles (numbered sources):
%s
- User prompt: %q
- Style: %q
- Format: %q

Your objectives:
1. Create a social media post synthesizing information from every article above.
2. Add a title derived from the user prompt.
3. End every sentence that draws on an article with the citation marker [n], where n is that article's source number.
4. Conform to the requested style and format.
5. Write the post in markdown. Do not append a reference list; it is added separately.

If no articles are provided, write a generic post for the user prompt alone, without citation markers.`

// buildArticleDigest renders the article collection as a numbered source
// list for prompt construction. Numbering is 1-based and follows fetch
// order, which citation markers refer back to.
func buildArticleDigest(articles []news.Article) string {
	if len(articles) == 0 {
		return "(none)"
	}

	var digest strings.Builder
	for index, article := range articles {
		fmt.Fprintf(&digest, "[%d] %s (%s, %s)\n%s\n\n",
			index+1, article.Title, article.Source, article.Date,
			utils.TruncateString(article.Content, utils.DefaultMaxStringLength))
	}
	return digest.String()
}

// GenerateTextStep produces the post body. A false flag yields the
// not-requested sentinel; a provider failure yields the fixed failure
// sentinel instead of propagating. Successful output is normalized and gets
// a reference list appended, ordered by first appearance of each citation
// marker.
func GenerateTextStep(text TextCompleter) workflow.StepFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Update, error) {
		if !state.GetBool(KeyGenerateText) {
			return workflow.Update{KeyGeneratedText: SentinelNotRequested}, nil
		}

		articles := ArticlesFromState(state)
		prompt := fmt.Sprintf(generateTextPromptTemplate,
			buildArticleDigest(articles),
			state.GetString(KeyUserPrompt),
			state.GetString(KeyContentStyle),
			state.GetString(KeyContentFormat),
		)

		completion, err := text.Complete(ctx, prompt)
		if err != nil {
			slog.Warn("text generation failed", "error", err.Error())
			return workflow.Update{KeyGeneratedText: SentinelFailed}, nil
		}

		generated := AppendReferences(EnsureFormat(completion), articles)
		return workflow.Update{KeyGeneratedText: generated}, nil
	}
}

const imagePromptTemplate = `You are a social media post creator.

Given:
- News articles:
%s
- User prompt: %q

Write a single prompt instructing an image generator to create an
illustration for the post. Ensure the style and content are aligned with
the provided context. Return only the image prompt.`

// GenerateImageStep writes an image description via the text provider and
// renders it via the image provider. Any failure in either call yields the
// failure sentinel, distinct from not-requested.
func GenerateImageStep(text TextCompleter, images ImageGenerator) workflow.StepFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Update, error) {
		if !state.GetBool(KeyGenerateImage) {
			return workflow.Update{KeyGeneratedImage: SentinelNotRequested}, nil
		}

		articles := ArticlesFromState(state)
		descriptionPrompt := fmt.Sprintf(imagePromptTemplate,
			buildArticleDigest(articles),
			state.GetString(KeyUserPrompt),
		)

		imagePrompt, err := text.Complete(ctx, descriptionPrompt)
		if err != nil {
			slog.Warn("image prompt generation failed", "error", err.Error())
			return workflow.Update{KeyGeneratedImage: SentinelFailed}, nil
		}

		imageURL, err := images.Generate(ctx, imagePrompt)
		if err != nil {
			slog.Warn("image generation failed", "error", err.Error())
			return workflow.Update{KeyGeneratedImage: SentinelFailed}, nil
		}

		return workflow.Update{KeyGeneratedImage: imageURL}, nil
	}
}

// SelectTemplateStep fetches the template catalog and picks the single best
// match for the prompt. A false meme flag yields a nil template. Catalog or
// selection failures are node failures: the executor isolates them, and the
// meme step degrades to its unavailable sentinel.
func SelectTemplateStep(catalog TemplateCatalog, selector TemplateSelector) workflow.StepFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Update, error) {
		if !state.GetBool(KeyGenerateMeme) {
			return workflow.Update{KeySelectedTemplate: (*meme.Template)(nil)}, nil
		}

		templates, err := catalog.FetchTemplates(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching template catalog: %w", err)
		}
		if len(templates) == 0 {
			return nil, fmt.Errorf("template catalog is empty")
		}

		selected, err := selector.SelectTemplate(ctx, state.GetString(KeyUserPrompt), templates)
		if err != nil {
			return nil, err
		}

		return workflow.Update{KeySelectedTemplate: selected}, nil
	}
}

// GenerateMemeStep captions the selected template. A false flag yields the
// not-requested sentinel; a missing template from an upstream failure yields
// the unavailable sentinel. The caption count must exactly equal the
// template's box count, checked before any caption is used; a mismatch is a
// contract violation reported as the failure sentinel, never an index fault.
func GenerateMemeStep(captions CaptionWriter, captioner MemeCaptioner) workflow.StepFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Update, error) {
		if !state.GetBool(KeyGenerateMeme) {
			return workflow.Update{KeyGeneratedMeme: SentinelNotRequested}, nil
		}

		template := templateFromState(state)
		if template == nil {
			return workflow.Update{KeyGeneratedMeme: SentinelUnavailable}, nil
		}

		texts, err := captions.WriteCaptions(ctx, state.GetString(KeyUserPrompt), *template)
		if err != nil {
			slog.Warn("caption writing failed", "template", template.ID, "error", err.Error())
			return workflow.Update{KeyGeneratedMeme: SentinelFailed}, nil
		}

		if len(texts) != template.BoxCount {
			slog.Warn("caption count mismatch",
				"template", template.ID, "expected", template.BoxCount, "got", len(texts))
			return workflow.Update{KeyGeneratedMeme: SentinelFailed}, nil
		}

		memeURL, err := captioner.Caption(ctx, template.ID, texts)
		if err != nil {
			slog.Warn("meme captioning failed", "template", template.ID, "error", err.Error())
			return workflow.Update{KeyGeneratedMeme: SentinelFailed}, nil
		}

		return workflow.Update{KeyGeneratedMeme: memeURL}, nil
	}
}

// GenerateVideoStep submits the generated image for video synthesis. The
// provider side is asynchronous: the step stores the tracking ID, and
// completion is polled through a separate endpoint. A missing or sentinel
// image yields the unavailable sentinel.
func GenerateVideoStep(videos VideoSynthesizer) workflow.StepFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Update, error) {
		if !state.GetBool(KeyGenerateVideo) {
			return workflow.Update{KeyGeneratedVideo: SentinelNotRequested}, nil
		}

		imageURL := state.GetString(KeyGeneratedImage)
		if imageURL == "" || IsSentinel(imageURL) {
			return workflow.Update{KeyGeneratedVideo: SentinelUnavailable}, nil
		}

		trackingID, err := videos.Submit(ctx, imageURL)
		if err != nil {
			slog.Warn("video submission failed", "error", err.Error())
			return workflow.Update{KeyGeneratedVideo: SentinelFailed}, nil
		}

		return workflow.Update{KeyGeneratedVideo: trackingID}, nil
	}
}
