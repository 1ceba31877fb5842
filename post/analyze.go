package post

import (
	"context"
	"fmt"

	"github.com/leofalp/postforge/core/client"
	"github.com/leofalp/postforge/providers/ai"
)

// Analysis scores a text for content quality. All scores are on a 0-100
// scale.
type Analysis struct {
	SEOScore         int      `json:"seo_score" jsonschema:"description=SEO optimization score from 0 to 100"`
	ReadabilityScore int      `json:"readability_score" jsonschema:"description=Readability score from 0 to 100"`
	EngagementScore  int      `json:"engagement_score" jsonschema:"description=Engagement score from 0 to 100"`
	Keywords         []string `json:"keywords" jsonschema:"description=Keywords identified in the text"`
}

const analyzeContentPrompt = `Produce a structured analysis of the given text based on SEO optimization, readability, engagement and keywords. Score each category on a scale of 0 to 100.

Steps:
1. Analyze the text for SEO: identify keywords and their density, evaluate structure for SEO best practices, and assign a score.
2. Evaluate readability: assess sentence structure, vocabulary complexity and overall clarity for a general audience, and assign a score.
3. Assess engagement: examine tone, relatability and how the text holds reader interest, and assign a score.
4. List the keywords identified in the text.

For highly technical or niche texts, adapt the readability and engagement criteria to the expected audience.

Input text:
%s`

// LLMContentAnalyzer scores texts via structured extraction.
type LLMContentAnalyzer struct {
	extractor *client.Structured[Analysis]
}

// NewLLMContentAnalyzer creates an analyzer backed by the given provider.
func NewLLMContentAnalyzer(provider ai.Provider) (*LLMContentAnalyzer, error) {
	extractor, err := client.NewStructured[Analysis](provider)
	if err != nil {
		return nil, err
	}
	return &LLMContentAnalyzer{extractor: extractor}, nil
}

func (analyzer *LLMContentAnalyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	analysis, err := analyzer.extractor.Extract(ctx, fmt.Sprintf(analyzeContentPrompt, text))
	if err != nil {
		return nil, fmt.Errorf("content analysis failed: %w", err)
	}
	return analysis, nil
}

// Analyze scores a text through the configured content analyzer.
func (pipeline *Pipeline) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if text == "" {
		return nil, fmt.Errorf("text must not be empty")
	}
	return pipeline.providers.Analyzer.Analyze(ctx, text)
}
