package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leofalp/postforge/providers/meme"
)

const refineTextPromptTemplate = `Your task is to update a previously generated post to better address a new prompt.

1. Carefully read the new prompt and the previous post.
2. Identify any gaps where the previous post does not address the new prompt.
3. Update the post so it is coherent, accurate and directly relevant to the new prompt.
4. Keep the markdown structure and any citation markers intact.

New prompt: %s

Previous post:
%s

Return only the updated post.`

// RefineText rewrites previously generated text against a new prompt.
// The result goes through the same markdown normalization as first-pass
// generation.
func (pipeline *Pipeline) RefineText(ctx context.Context, prompt, generatedText string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt must not be empty")
	}
	if generatedText == "" {
		return "", fmt.Errorf("generated text must not be empty")
	}

	refined, err := pipeline.providers.Text.Complete(ctx, fmt.Sprintf(refineTextPromptTemplate, prompt, generatedText))
	if err != nil {
		return "", fmt.Errorf("refining text: %w", err)
	}

	return EnsureFormat(refined), nil
}

// RefineMeme recaptions an already selected template for a new prompt,
// under the same caption-count contract as first-pass generation. Provider
// failures surface as the failure sentinel in the URL, never as an error,
// so the caller always gets the template back.
func (pipeline *Pipeline) RefineMeme(ctx context.Context, prompt string, template meme.Template) (*Meme, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt must not be empty")
	}
	if template.ID == "" {
		return nil, fmt.Errorf("template ID must not be empty")
	}

	memeURL := SentinelFailed

	texts, err := pipeline.providers.Captions.WriteCaptions(ctx, prompt, template)
	switch {
	case err != nil:
		slog.Warn("caption writing failed", "template", template.ID, "error", err.Error())
	case len(texts) != template.BoxCount:
		slog.Warn("caption count mismatch",
			"template", template.ID, "expected", template.BoxCount, "got", len(texts))
	default:
		captioned, captionErr := pipeline.providers.Captioner.Caption(ctx, template.ID, texts)
		if captionErr != nil {
			slog.Warn("meme captioning failed", "template", template.ID, "error", captionErr.Error())
		} else {
			memeURL = captioned
		}
	}

	return &Meme{Template: &template, MemeURL: &memeURL}, nil
}
