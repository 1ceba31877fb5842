package news

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeArticleFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestDirectorySourceFetch(t *testing.T) {
	dir := t.TempDir()
	writeArticleFile(t, dir, "02-second.json", `{"title": "Second", "content": "body two", "source": "https://example.com/2"}`)
	writeArticleFile(t, dir, "01-first.json", `{"title": "First", "content": "body one", "source": "https://example.com/1"}`)
	writeArticleFile(t, dir, "notes.txt", "ignored")

	source := NewDirectorySource(dir)
	articles, err := source.Fetch(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "First" || articles[1].Title != "Second" {
		t.Errorf("expected file-name order, got %q, %q", articles[0].Title, articles[1].Title)
	}
}

func TestDirectorySourceFetchArrayFile(t *testing.T) {
	dir := t.TempDir()
	writeArticleFile(t, dir, "batch.json", `[
		{"title": "A", "content": "a"},
		{"title": "B", "content": "b"},
		{"title": "C", "content": "c"}
	]`)

	source := NewDirectorySource(dir)

	articles, err := source.Fetch(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected limit to apply, got %d articles", len(articles))
	}
	if articles[0].Title != "A" || articles[1].Title != "B" {
		t.Errorf("unexpected articles: %q, %q", articles[0].Title, articles[1].Title)
	}
}

func TestDirectorySourceFetchIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeArticleFile(t, dir, "one.json", `{"title": "One", "content": "body"}`)
	writeArticleFile(t, dir, "two.json", `{"title": "Two", "content": "body"}`)

	source := NewDirectorySource(dir)
	first, err := source.Fetch(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := source.Fetch(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %d and %d articles", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("article %d differs between fetches", i)
		}
	}
}

func TestDirectorySourceFetchMissingDir(t *testing.T) {
	source := NewDirectorySource(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := source.Fetch(context.Background(), "anything", 1); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestDirectorySourceFetchInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeArticleFile(t, dir, "bad.json", `{not json`)

	source := NewDirectorySource(dir)
	if _, err := source.Fetch(context.Background(), "anything", 1); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}
