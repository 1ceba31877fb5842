package image

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	var captured generationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		_, _ = w.Write([]byte(`{"created":1726000000,"data":[{"url":"https://img.example/1.png"}]}`))
	}))
	defer server.Close()

	generator := NewGenerator().WithAPIKey("key").WithBaseURL(server.URL).WithHttpClient(server.Client())

	imageURL, err := generator.Generate(context.Background(), "a gopher reading the news")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if imageURL != "https://img.example/1.png" {
		t.Errorf("unexpected URL %q", imageURL)
	}
	if captured.Prompt != "a gopher reading the news" || captured.N != 1 {
		t.Errorf("request not built from prompt: %+v", captured)
	}
}

func TestGenerateEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"created":1,"data":[]}`))
	}))
	defer server.Close()

	generator := NewGenerator().WithAPIKey("key").WithBaseURL(server.URL).WithHttpClient(server.Client())

	if _, err := generator.Generate(context.Background(), "anything"); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestGenerateValidation(t *testing.T) {
	generator := NewGenerator().WithAPIKey("")
	if _, err := generator.Generate(context.Background(), "prompt"); err == nil {
		t.Error("expected error for missing API key")
	}

	generator.WithAPIKey("key")
	if _, err := generator.Generate(context.Background(), ""); err == nil {
		t.Error("expected error for empty prompt")
	}
}
