package post

import (
	"context"
	"fmt"
	"strings"

	"github.com/leofalp/postforge/core/client"
	"github.com/leofalp/postforge/providers/ai"
	"github.com/leofalp/postforge/providers/meme"
)

// templateChoice is the structured shape the selection model fills in.
// Only the ID matters; the authoritative descriptor comes from the catalog.
type templateChoice struct {
	ID   string `json:"id" jsonschema:"description=ID of the chosen template exactly as listed"`
	Name string `json:"name" jsonschema:"description=Name of the chosen template"`
}

// captionSet is the structured shape the caption model fills in.
type captionSet struct {
	Captions []string `json:"captions" jsonschema:"description=Caption texts in box order with one entry per text box"`
}

// LLMTemplateSelector picks a meme template from a catalog via structured
// extraction. The model returns a template ID which is resolved against the
// catalog; an ID the catalog does not contain is an error.
type LLMTemplateSelector struct {
	extractor *client.Structured[templateChoice]
}

// NewLLMTemplateSelector creates a selector backed by the given provider.
func NewLLMTemplateSelector(provider ai.Provider) (*LLMTemplateSelector, error) {
	extractor, err := client.NewStructured[templateChoice](provider)
	if err != nil {
		return nil, err
	}
	return &LLMTemplateSelector{extractor: extractor}, nil
}

const selectTemplatePrompt = `Given a user prompt, select the most appropriate meme template from the list below.
Provide only the chosen template's ID and name, exactly as listed. Do not return the entire list.

List of templates:
%s

User prompt: %q`

func (selector *LLMTemplateSelector) SelectTemplate(ctx context.Context, prompt string, catalog []meme.Template) (*meme.Template, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}

	var listing strings.Builder
	for _, template := range catalog {
		fmt.Fprintf(&listing, "- id=%s name=%q boxes=%d\n", template.ID, template.Name, template.BoxCount)
	}

	choice, err := selector.extractor.Extract(ctx, fmt.Sprintf(selectTemplatePrompt, listing.String(), prompt))
	if err != nil {
		return nil, fmt.Errorf("template selection failed: %w", err)
	}

	for index := range catalog {
		if catalog[index].ID == choice.ID {
			return &catalog[index], nil
		}
	}

	return nil, fmt.Errorf("selected template %q is not in the catalog", choice.ID)
}

// LLMCaptionWriter produces caption texts for a template via structured
// extraction. It asks for exactly BoxCount captions; the meme step enforces
// the count before any caption is used.
type LLMCaptionWriter struct {
	extractor *client.Structured[captionSet]
}

// NewLLMCaptionWriter creates a caption writer backed by the given provider.
func NewLLMCaptionWriter(provider ai.Provider) (*LLMCaptionWriter, error) {
	extractor, err := client.NewStructured[captionSet](provider)
	if err != nil {
		return nil, err
	}
	return &LLMCaptionWriter{extractor: extractor}, nil
}

const writeCaptionsPrompt = `Given a user prompt and a meme template, write the most appropriate meme captions.
The template has exactly %d text boxes, so return exactly %d captions, in box order.

User prompt: %q
Template: %q`

func (writer *LLMCaptionWriter) WriteCaptions(ctx context.Context, prompt string, template meme.Template) ([]string, error) {
	result, err := writer.extractor.Extract(ctx, fmt.Sprintf(writeCaptionsPrompt, template.BoxCount, template.BoxCount, prompt, template.Name))
	if err != nil {
		return nil, fmt.Errorf("caption writing failed: %w", err)
	}
	return result.Captions, nil
}
