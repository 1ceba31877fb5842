package video

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmitReturnsTrackingID(t *testing.T) {
	var captured submitRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/videos" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"id":"job-123","status":"pending"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL).WithAPIKey("key").WithHttpClient(server.Client())

	trackingID, err := client.Submit(context.Background(), "https://img.example/1.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trackingID != "job-123" {
		t.Errorf("unexpected tracking ID %q", trackingID)
	}
	if captured.ImageURL != "https://img.example/1.png" {
		t.Errorf("image URL not forwarded: %+v", captured)
	}
	if captured.RequestID == "" {
		t.Error("expected a client-side request ID")
	}
}

func TestSubmitValidation(t *testing.T) {
	client := NewClient("")
	if _, err := client.Submit(context.Background(), "https://img.example/1.png"); err == nil {
		t.Error("expected error when service URL is not configured")
	}

	client = NewClient("http://localhost:1")
	if _, err := client.Submit(context.Background(), ""); err == nil {
		t.Error("expected error for empty image URL")
	}
}

func TestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/videos/job-123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"job-123","status":"completed","url":"https://video.example/v.mp4"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL).WithHttpClient(server.Client())

	job, err := client.Status(context.Background(), "job-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != StatusCompleted || job.URL != "https://video.example/v.mp4" {
		t.Errorf("job not decoded: %+v", job)
	}
}
