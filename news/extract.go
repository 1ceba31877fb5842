package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/leofalp/postforge/internal/utils"
)

const (
	// extractTimeout is the per-page fetch timeout.
	extractTimeout = 30 * time.Second
	// maxPageSize caps the HTML body read from an article page (10MB).
	maxPageSize      = 10 * 1024 * 1024
	extractUserAgent = "postforge-news/1.0"
)

// PageExtractor fetches an article page and converts its HTML to Markdown.
// A zero value is ready to use.
type PageExtractor struct {
	client *http.Client
}

// NewPageExtractor creates a PageExtractor with the given HTTP client.
// Passing nil uses a client with sane timeouts.
func NewPageExtractor(httpClient *http.Client) *PageExtractor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: extractTimeout}
	}
	return &PageExtractor{client: httpClient}
}

// Extract retrieves the page at pageURL and returns its content as Markdown.
// Partial URLs are normalised by prepending "https://". Redirects are
// followed by the underlying client; the body is capped at [maxPageSize].
func (e *PageExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		pageURL = "https://" + pageURL
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", extractUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, resp.Status)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(htmlBytes))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}
