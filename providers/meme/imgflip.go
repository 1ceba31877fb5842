package meme

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/leofalp/postforge/internal/utils"
)

const defaultBaseURL = "https://api.imgflip.com"

// Template describes a meme template from the catalog. BoxCount is the number
// of caption slots the template requires; a caption request must fill exactly
// that many slots.
type Template struct {
	ID       string `json:"id" jsonschema:"description=The ID of the meme template"`
	Name     string `json:"name" jsonschema:"description=The name of the meme template"`
	URL      string `json:"url" jsonschema:"description=The URL of the meme template"`
	Width    int    `json:"width" jsonschema:"description=The width of the meme template"`
	Height   int    `json:"height" jsonschema:"description=The height of the meme template"`
	BoxCount int    `json:"box_count" jsonschema:"description=The number of caption boxes in the meme template"`
}

// Client talks to an Imgflip-compatible meme API: a public template catalog
// and an authenticated caption endpoint that renders text onto a template.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewClient creates a meme API client. Username and password authenticate the
// caption endpoint; the catalog endpoint is public.
func NewClient(username, password string) *Client {
	return &Client{
		baseURL:  defaultBaseURL,
		username: username,
		password: password,
		client:   &http.Client{},
	}
}

// WithBaseURL overrides the API base URL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (c *Client) WithHttpClient(httpClient *http.Client) *Client {
	c.client = httpClient
	return c
}

type catalogResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Memes []Template `json:"memes"`
	} `json:"data"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// FetchTemplates retrieves the template catalog.
func (c *Client) FetchTemplates(ctx context.Context) ([]Template, error) {
	resp, err := utils.DoGetSync[catalogResponse](ctx, c.client, c.baseURL+"/get_memes", "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meme templates: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("meme API reported failure fetching templates: %s", resp.ErrorMessage)
	}

	return resp.Data.Memes, nil
}

type captionResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL     string `json:"url"`
		PageURL string `json:"page_url"`
	} `json:"data"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Caption renders the given texts onto the template and returns the media URL.
// The API expects one text field per caption slot (text0, text1, ...); the
// caller is responsible for supplying exactly as many texts as the template's
// box count; this method submits whatever it is given.
func (c *Client) Caption(ctx context.Context, templateID string, texts []string) (string, error) {
	form := url.Values{}
	form.Set("template_id", templateID)
	form.Set("username", c.username)
	form.Set("password", c.password)
	for i, text := range texts {
		form.Set("text"+strconv.Itoa(i), text)
	}

	resp, err := utils.DoPostForm[captionResponse](ctx, c.client, c.baseURL+"/caption_image", form)
	if err != nil {
		return "", fmt.Errorf("failed to contact meme API: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("meme API rejected the caption request: %s", resp.ErrorMessage)
	}

	return resp.Data.URL, nil
}
