package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/leofalp/postforge/internal/utils"
)

const defaultSearchBaseURL = "https://serpapi.com"

// GoogleSource fetches articles from a Google-News-style search API and
// pulls the full text of each hit through a [PageExtractor].
type GoogleSource struct {
	apiKey    string
	baseURL   string
	client    *http.Client
	extractor *PageExtractor
}

// NewGoogleSource creates a GoogleSource. The API key is read from
// SEARCH_API_KEY.
func NewGoogleSource() *GoogleSource {
	httpClient := &http.Client{}
	return &GoogleSource{
		apiKey:    os.Getenv("SEARCH_API_KEY"),
		baseURL:   defaultSearchBaseURL,
		client:    httpClient,
		extractor: NewPageExtractor(nil),
	}
}

// WithAPIKey sets the search API key.
func (s *GoogleSource) WithAPIKey(apiKey string) *GoogleSource {
	s.apiKey = apiKey
	return s
}

// WithBaseURL overrides the search API base URL.
func (s *GoogleSource) WithBaseURL(baseURL string) *GoogleSource {
	s.baseURL = baseURL
	return s
}

// WithHttpClient sets the HTTP client for both the search API and page fetches.
func (s *GoogleSource) WithHttpClient(httpClient *http.Client) *GoogleSource {
	s.client = httpClient
	s.extractor = NewPageExtractor(httpClient)
	return s
}

type searchResponse struct {
	NewsResults []searchResult `json:"news_results"`
}

type searchResult struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  struct {
		Name    string   `json:"name"`
		Authors []string `json:"authors"`
	} `json:"source"`
	// Stories groups related coverage under a single headline result.
	Stories []searchResult `json:"stories"`
}

// Fetch queries the news search API for the topic and returns up to limit
// articles with their page content extracted as markdown. Result order
// follows the API's ranking, which is stable for unchanged source state.
//
// Individual pages that cannot be fetched fall back to the search snippet;
// only an unreachable search API itself is an error.
func (s *GoogleSource) Fetch(ctx context.Context, topic string, limit int) ([]Article, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("search API key is not set")
	}
	if limit <= 0 {
		limit = 1
	}

	query := url.Values{}
	query.Set("engine", "google_news")
	query.Set("q", topic)
	query.Set("api_key", s.apiKey)

	resp, err := utils.DoGetSync[searchResponse](ctx, s.client, s.baseURL+"/search.json?"+query.Encode(), "")
	if err != nil {
		return nil, fmt.Errorf("news search failed: %w", err)
	}

	articles := make([]Article, 0, limit)
	for _, result := range flattenResults(resp.NewsResults) {
		if len(articles) >= limit {
			break
		}

		article, ok := s.buildArticle(ctx, result)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// flattenResults expands grouped story results into a flat, order-preserving list.
func flattenResults(results []searchResult) []searchResult {
	flat := make([]searchResult, 0, len(results))
	for _, result := range results {
		if len(result.Stories) > 0 {
			flat = append(flat, result.Stories...)
			continue
		}
		flat = append(flat, result)
	}
	return flat
}

func (s *GoogleSource) buildArticle(ctx context.Context, result searchResult) (Article, bool) {
	if result.Link == "" || result.Title == "" {
		return Article{}, false
	}

	content, err := s.extractor.Extract(ctx, result.Link)
	if err != nil {
		slog.Debug("falling back to search snippet", "url", result.Link, "error", err.Error())
		content = result.Snippet
	}
	if content == "" {
		return Article{}, false
	}

	author := result.Source.Name
	if len(result.Source.Authors) > 0 {
		author = joinAuthors(result.Source.Authors)
	}

	return Article{
		Title:   result.Title,
		Date:    result.Date,
		Content: content,
		Author:  author,
		Source:  result.Link,
	}, true
}

func joinAuthors(authors []string) string {
	joined := ""
	for i, author := range authors {
		if i > 0 {
			joined += "|"
		}
		joined += author
	}
	return joined
}
