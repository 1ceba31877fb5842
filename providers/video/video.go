package video

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/leofalp/postforge/internal/utils"
)

const (
	submitEndpoint = "/v1/videos"
	statusEndpoint = "/v1/videos/"
)

// JobStatus is the provider-side state of a video synthesis job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job describes a submitted video synthesis job. URL is only populated once
// Status is StatusCompleted.
type Job struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
	URL    string    `json:"url,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// Client talks to an image-to-video synthesis service. Synthesis is
// asynchronous on the provider side: Submit returns a tracking ID immediately
// and Status polls for completion.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a video synthesis client. The API key is read from
// VIDEO_API_KEY; baseURL locates the service.
func NewClient(baseURL string) *Client {
	return &Client{
		apiKey:  os.Getenv("VIDEO_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the client.
func (c *Client) WithAPIKey(apiKey string) *Client {
	c.apiKey = apiKey
	return c
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (c *Client) WithHttpClient(httpClient *http.Client) *Client {
	c.client = httpClient
	return c
}

type submitRequest struct {
	ImageURL string `json:"image_url"`
	// RequestID correlates the submission with a client-side identifier so a
	// retried HTTP call cannot enqueue the job twice.
	RequestID string `json:"request_id"`
}

// Submit enqueues synthesis of a short video from the given source image and
// returns the provider's tracking ID. It does not wait for completion.
func (c *Client) Submit(ctx context.Context, imageURL string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("video service URL is not configured")
	}
	if imageURL == "" {
		return "", fmt.Errorf("image URL must not be empty")
	}

	job, err := utils.DoPostSync[Job](ctx, c.client, c.baseURL+submitEndpoint, c.apiKey, submitRequest{
		ImageURL:  imageURL,
		RequestID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("video submission failed: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("video service returned no tracking ID")
	}

	return job.ID, nil
}

// Status retrieves the current state of a previously submitted job.
func (c *Client) Status(ctx context.Context, trackingID string) (*Job, error) {
	if trackingID == "" {
		return nil, fmt.Errorf("tracking ID must not be empty")
	}

	job, err := utils.DoGetSync[Job](ctx, c.client, c.baseURL+statusEndpoint+trackingID, c.apiKey)
	if err != nil {
		return nil, fmt.Errorf("video status lookup failed: %w", err)
	}

	return job, nil
}
