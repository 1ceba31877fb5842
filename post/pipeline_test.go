package post

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCreateRejectsEmptyPrompt(t *testing.T) {
	providers, _, source, _, _, _, _, _, _, _ := testProviders()
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	if _, err := pipeline.Create(context.Background(), Request{}); err == nil {
		t.Fatal("expected an error for an empty prompt")
	}
	if source.calls.Load() != 0 {
		t.Error("expected the workflow not to start for an invalid request")
	}
}

func TestCreateAllFlagsOff(t *testing.T) {
	providers, _, _, completer, images, catalog, selector, captions, captioner, videos := testProviders()
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{Prompt: "write something"})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if response.GeneratedText != SentinelNotRequested {
		t.Errorf("generated_text = %q", response.GeneratedText)
	}
	if response.ImageURL != SentinelNotRequested {
		t.Errorf("image_url = %q", response.ImageURL)
	}
	if response.VideoURL != SentinelNotRequested {
		t.Errorf("video_url = %q", response.VideoURL)
	}
	if response.Meme.Template != nil || response.Meme.MemeURL != nil {
		t.Errorf("expected null meme, got %+v", response.Meme)
	}
	if response.GeneratedHTML != "" {
		t.Errorf("expected no html preview for a sentinel, got %q", response.GeneratedHTML)
	}

	// No generation provider may be touched when its flag is off.
	if completer.calls.Load() != 0 {
		t.Errorf("text completer called %d times", completer.calls.Load())
	}
	if images.calls.Load() != 0 {
		t.Errorf("image generator called %d times", images.calls.Load())
	}
	if catalog.calls.Load() != 0 || selector.calls.Load() != 0 {
		t.Error("template catalog or selector called with meme flag off")
	}
	if captions.calls.Load() != 0 || captioner.calls.Load() != 0 {
		t.Error("caption providers called with meme flag off")
	}
	if videos.submitCalls.Load() != 0 {
		t.Error("video provider called with video flag off")
	}
}

func TestCreateTextOnlyScenario(t *testing.T) {
	providers, _, _, _, _, _, _, _, _, _ := testProviders()
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{
		Prompt:       "go release post",
		GenerateText: true,
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if IsSentinel(response.GeneratedText) {
		t.Errorf("expected real generated text, got %q", response.GeneratedText)
	}
	if response.GeneratedHTML == "" {
		t.Error("expected an html preview for generated text")
	}
	if response.ImageURL != SentinelNotRequested {
		t.Errorf("image_url = %q", response.ImageURL)
	}
	if response.Meme.Template != nil {
		t.Errorf("expected null meme template, got %+v", response.Meme.Template)
	}
	if response.Meme.MemeURL != nil {
		t.Errorf("expected null meme_url, got %q", *response.Meme.MemeURL)
	}
}

func TestCreateTextHasOrderedReferences(t *testing.T) {
	providers, _, _, completer, _, _, _, _, _, _ := testProviders()
	completer.response = "Second source first. [1]\nAnd more. [1]"
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{Prompt: "p", GenerateText: true})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if !strings.Contains(response.GeneratedText, "## References") {
		t.Errorf("expected a reference list, got %q", response.GeneratedText)
	}
	if !strings.Contains(response.GeneratedText, "[1] Go 1.25 released") {
		t.Errorf("expected the cited article in the references, got %q", response.GeneratedText)
	}
}

func TestCreateMemeScenario(t *testing.T) {
	providers, _, _, _, _, _, _, _, captioner, _ := testProviders()
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{
		Prompt:       "go release meme",
		GenerateMeme: true,
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if response.Meme.MemeURL == nil || *response.Meme.MemeURL != "http://x/meme.png" {
		t.Fatalf("unexpected meme url: %v", response.Meme.MemeURL)
	}
	if response.Meme.Template == nil || response.Meme.Template.ID != "61579" {
		t.Fatalf("unexpected meme template: %+v", response.Meme.Template)
	}
	if captioner.lastID != "61579" {
		t.Errorf("captioner called with template %q", captioner.lastID)
	}
	if len(captioner.lastTexts) != 2 {
		t.Errorf("expected exactly 2 caption texts, got %d", len(captioner.lastTexts))
	}
}

func TestCreateEmptyCatalogScenario(t *testing.T) {
	providers, _, _, _, _, catalog, _, captions, captioner, _ := testProviders()
	catalog.templates = nil
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{
		Prompt:        "p",
		GenerateText:  true,
		GenerateImage: true,
		GenerateMeme:  true,
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if response.Meme.MemeURL == nil || *response.Meme.MemeURL != SentinelUnavailable {
		t.Fatalf("expected %q meme url, got %v", SentinelUnavailable, response.Meme.MemeURL)
	}
	if response.Meme.Template != nil {
		t.Errorf("expected no template, got %+v", response.Meme.Template)
	}
	if captions.calls.Load() != 0 || captioner.calls.Load() != 0 {
		t.Error("caption providers must not be called without a template")
	}

	// Sibling branches are unaffected by the meme branch failure.
	if IsSentinel(response.GeneratedText) {
		t.Errorf("expected text despite meme failure, got %q", response.GeneratedText)
	}
	if response.ImageURL != "https://img.example.com/1.png" {
		t.Errorf("expected image despite meme failure, got %q", response.ImageURL)
	}
}

func TestCreateCaptionCountMismatch(t *testing.T) {
	providers, _, _, _, _, _, _, captions, captioner, _ := testProviders()
	captions.captions = []string{"only one"}
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{Prompt: "p", GenerateMeme: true})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if response.Meme.MemeURL == nil || *response.Meme.MemeURL != SentinelFailed {
		t.Fatalf("expected %q meme url, got %v", SentinelFailed, response.Meme.MemeURL)
	}
	if captioner.calls.Load() != 0 {
		t.Error("captioner must not be called when the caption count is wrong")
	}
}

func TestCreateVideoRequiresImage(t *testing.T) {
	providers, _, _, _, _, _, _, _, _, videos := testProviders()
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	// Video requested but image generation was not.
	response, err := pipeline.Create(context.Background(), Request{Prompt: "p", GenerateVideo: true})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if response.VideoURL != SentinelUnavailable {
		t.Errorf("expected %q video url, got %q", SentinelUnavailable, response.VideoURL)
	}
	if videos.submitCalls.Load() != 0 {
		t.Error("video provider must not be called without an image")
	}
}

func TestCreateVideoReturnsTrackingID(t *testing.T) {
	providers, _, _, _, _, _, _, _, _, _ := testProviders()
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{
		Prompt:        "p",
		GenerateImage: true,
		GenerateVideo: true,
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if response.VideoURL != "job-123" {
		t.Errorf("expected the tracking ID, got %q", response.VideoURL)
	}
}

func TestCreateImageFailureIsolatedFromVideo(t *testing.T) {
	providers, _, _, _, images, _, _, _, _, videos := testProviders()
	images.err = errors.New("renderer down")
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{
		Prompt:        "p",
		GenerateText:  true,
		GenerateImage: true,
		GenerateVideo: true,
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if response.ImageURL != SentinelFailed {
		t.Errorf("expected %q image url, got %q", SentinelFailed, response.ImageURL)
	}
	if response.VideoURL != SentinelUnavailable {
		t.Errorf("expected %q video url, got %q", SentinelUnavailable, response.VideoURL)
	}
	if videos.submitCalls.Load() != 0 {
		t.Error("video provider must not be called after an image failure")
	}
	if IsSentinel(response.GeneratedText) {
		t.Errorf("expected the text branch to be unaffected, got %q", response.GeneratedText)
	}
}

func TestCreateTextProviderFailureUsesFallback(t *testing.T) {
	providers, _, _, completer, _, _, _, _, _, _ := testProviders()
	completer.err = errors.New("model down")
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{Prompt: "p", GenerateText: true})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if response.GeneratedText != SentinelFailed {
		t.Errorf("expected %q, got %q", SentinelFailed, response.GeneratedText)
	}
}

func TestCreateUnreachableSourceYieldsEmptyCollection(t *testing.T) {
	providers, _, source, _, _, _, _, _, _, _ := testProviders()
	source.err = errors.New("network down")
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{Prompt: "p", GenerateText: true})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if IsSentinel(response.GeneratedText) {
		t.Errorf("expected a generic post despite the fetch failure, got %q", response.GeneratedText)
	}
}

func TestCreateAllOutputFieldsAlwaysPresent(t *testing.T) {
	providers, _, source, completer, images, catalog, _, _, _, videos := testProviders()
	// Break everything that can break.
	source.err = errors.New("down")
	completer.err = errors.New("down")
	images.err = errors.New("down")
	catalog.err = errors.New("down")
	videos.submitErr = errors.New("down")

	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	response, err := pipeline.Create(context.Background(), Request{
		Prompt:        "p",
		GenerateText:  true,
		GenerateImage: true,
		GenerateVideo: true,
		GenerateMeme:  true,
	})
	if err != nil {
		t.Fatalf("expected the run itself to succeed, got %v", err)
	}

	if response.GeneratedText == "" || response.ImageURL == "" || response.VideoURL == "" {
		t.Errorf("expected every field populated with a sentinel, got %+v", response)
	}
	if response.Meme.MemeURL == nil {
		t.Error("expected a sentinel meme url, got null")
	}
}

func TestVideoStatus(t *testing.T) {
	providers, _, _, _, _, _, _, _, _, videos := testProviders()
	pipeline, err := NewPipeline(providers)
	if err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}

	if _, err := pipeline.VideoStatus(context.Background(), ""); err == nil {
		t.Error("expected an error for an empty tracking ID")
	}
	if videos.statusCalls.Load() != 0 {
		t.Error("provider must not be polled for an empty ID")
	}
}
