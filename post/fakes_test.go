package post

import (
	"context"
	"sync/atomic"

	"github.com/leofalp/postforge/news"
	"github.com/leofalp/postforge/providers/meme"
	"github.com/leofalp/postforge/providers/video"
)

type fakeTopicEncoder struct {
	calls atomic.Int32
	topic string
	err   error
}

func (encoder *fakeTopicEncoder) Encode(ctx context.Context, prompt string) (string, error) {
	encoder.calls.Add(1)
	if encoder.err != nil {
		return "", encoder.err
	}
	if encoder.topic == "" {
		return prompt, nil
	}
	return encoder.topic, nil
}

type fakeSource struct {
	calls    atomic.Int32
	articles []news.Article
	err      error
}

func (source *fakeSource) Fetch(ctx context.Context, topic string, limit int) ([]news.Article, error) {
	source.calls.Add(1)
	if source.err != nil {
		return nil, source.err
	}
	return source.articles, nil
}

type fakeCompleter struct {
	calls    atomic.Int32
	response string
	err      error
}

func (completer *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	completer.calls.Add(1)
	if completer.err != nil {
		return "", completer.err
	}
	return completer.response, nil
}

type fakeImageGenerator struct {
	calls atomic.Int32
	url   string
	err   error
}

func (generator *fakeImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	generator.calls.Add(1)
	if generator.err != nil {
		return "", generator.err
	}
	return generator.url, nil
}

type fakeCatalog struct {
	calls     atomic.Int32
	templates []meme.Template
	err       error
}

func (catalog *fakeCatalog) FetchTemplates(ctx context.Context) ([]meme.Template, error) {
	catalog.calls.Add(1)
	if catalog.err != nil {
		return nil, catalog.err
	}
	return catalog.templates, nil
}

type fakeSelector struct {
	calls    atomic.Int32
	selected *meme.Template
	err      error
}

func (selector *fakeSelector) SelectTemplate(ctx context.Context, prompt string, catalog []meme.Template) (*meme.Template, error) {
	selector.calls.Add(1)
	if selector.err != nil {
		return nil, selector.err
	}
	if selector.selected != nil {
		return selector.selected, nil
	}
	return &catalog[0], nil
}

type fakeCaptionWriter struct {
	calls    atomic.Int32
	captions []string
	err      error
}

func (writer *fakeCaptionWriter) WriteCaptions(ctx context.Context, prompt string, template meme.Template) ([]string, error) {
	writer.calls.Add(1)
	if writer.err != nil {
		return nil, writer.err
	}
	return writer.captions, nil
}

type fakeCaptioner struct {
	calls     atomic.Int32
	url       string
	err       error
	lastID    string
	lastTexts []string
}

func (captioner *fakeCaptioner) Caption(ctx context.Context, templateID string, texts []string) (string, error) {
	captioner.calls.Add(1)
	captioner.lastID = templateID
	captioner.lastTexts = texts
	if captioner.err != nil {
		return "", captioner.err
	}
	return captioner.url, nil
}

type fakeVideo struct {
	submitCalls atomic.Int32
	statusCalls atomic.Int32
	trackingID  string
	job         *video.Job
	submitErr   error
	statusErr   error
}

func (videos *fakeVideo) Submit(ctx context.Context, imageURL string) (string, error) {
	videos.submitCalls.Add(1)
	if videos.submitErr != nil {
		return "", videos.submitErr
	}
	return videos.trackingID, nil
}

func (videos *fakeVideo) Status(ctx context.Context, trackingID string) (*video.Job, error) {
	videos.statusCalls.Add(1)
	if videos.statusErr != nil {
		return nil, videos.statusErr
	}
	return videos.job, nil
}

type fakeAnalyzer struct {
	calls    atomic.Int32
	analysis *Analysis
	err      error
}

func (analyzer *fakeAnalyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	analyzer.calls.Add(1)
	if analyzer.err != nil {
		return nil, analyzer.err
	}
	return analyzer.analysis, nil
}

// testProviders returns a provider bundle where every capability succeeds.
// Individual tests override the fakes they care about.
func testProviders() (*Providers, *fakeTopicEncoder, *fakeSource, *fakeCompleter, *fakeImageGenerator, *fakeCatalog, *fakeSelector, *fakeCaptionWriter, *fakeCaptioner, *fakeVideo) {
	topics := &fakeTopicEncoder{}
	source := &fakeSource{articles: []news.Article{{
		Title:   "Go 1.25 released",
		Date:    "09/01/2026",
		Content: "The Go team announced the release.",
		Author:  "Go team",
		Source:  "https://example.com/go",
	}}}
	completer := &fakeCompleter{response: "A post about Go. [1]"}
	images := &fakeImageGenerator{url: "https://img.example.com/1.png"}
	catalog := &fakeCatalog{templates: []meme.Template{{
		ID:       "61579",
		Name:     "One Does Not Simply",
		URL:      "https://i.imgflip.com/1bij.jpg",
		Width:    568,
		Height:   335,
		BoxCount: 2,
	}}}
	selector := &fakeSelector{}
	captions := &fakeCaptionWriter{captions: []string{"top", "bottom"}}
	captioner := &fakeCaptioner{url: "http://x/meme.png"}
	videos := &fakeVideo{trackingID: "job-123"}

	providers := &Providers{
		Topics:    topics,
		Articles:  source,
		Text:      completer,
		Images:    images,
		Catalog:   catalog,
		Selector:  selector,
		Captions:  captions,
		Captioner: captioner,
		Videos:    videos,
		Analyzer:  &fakeAnalyzer{analysis: &Analysis{SEOScore: 80, ReadabilityScore: 85, EngagementScore: 75, Keywords: []string{"go"}}},
	}

	return providers, topics, source, completer, images, catalog, selector, captions, captioner, videos
}
