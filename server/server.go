package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/postforge/post"
	"github.com/leofalp/postforge/providers/meme"
)

const (
	createTimeout = 120 * time.Second
	refineTimeout = 60 * time.Second
	pollTimeout   = 10 * time.Second
)

// Server exposes the content pipeline over a JSON HTTP API.
type Server struct {
	pipeline *post.Pipeline
	logger   *slog.Logger
}

// New creates a Server around a pipeline. Passing a nil logger uses
// slog.Default().
func New(pipeline *post.Pipeline, logger *slog.Logger) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipeline: pipeline, logger: logger}, nil
}

// Routes builds the handler tree with request-ID and logging middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts", s.handleCreate)
	mux.HandleFunc("/api/posts/text/refine", s.handleRefineText)
	mux.HandleFunc("/api/posts/meme/refine", s.handleRefineMeme)
	mux.HandleFunc("/api/content/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/videos/", s.handleVideoStatus)
	return s.logMiddleware(mux)
}

// --- Handlers ---

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request post.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Boundary validation: invalid requests never reach the workflow.
	if err := request.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), createTimeout)
	defer cancel()

	response, err := s.pipeline.Create(ctx, request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, response)
}

type refineTextRequest struct {
	Prompt        string `json:"prompt"`
	GeneratedText string `json:"generated_text"`
}

type refineTextResponse struct {
	GeneratedText string `json:"generated_text"`
}

func (s *Server) handleRefineText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request refineTextRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if request.Prompt == "" || request.GeneratedText == "" {
		http.Error(w, "prompt and generated_text are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), refineTimeout)
	defer cancel()

	refined, err := s.pipeline.RefineText(ctx, request.Prompt, request.GeneratedText)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, refineTextResponse{GeneratedText: refined})
}

type refineMemeRequest struct {
	Prompt string `json:"prompt"`
	Meme   struct {
		Template *meme.Template `json:"template"`
	} `json:"meme"`
}

func (s *Server) handleRefineMeme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request refineMemeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if request.Prompt == "" || request.Meme.Template == nil || request.Meme.Template.ID == "" {
		http.Error(w, "prompt and meme.template are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), refineTimeout)
	defer cancel()

	refined, err := s.pipeline.RefineMeme(ctx, request.Prompt, *request.Meme.Template)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, refined)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if request.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), refineTimeout)
	defer cancel()

	analysis, err := s.pipeline.Analyze(ctx, request.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, analysis)
}

type videoStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

func (s *Server) handleVideoStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	trackingID := strings.TrimPrefix(r.URL.Path, "/api/videos/")
	if trackingID == "" || strings.Contains(trackingID, "/") {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pollTimeout)
	defer cancel()

	job, err := s.pipeline.VideoStatus(ctx, trackingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, videoStatusResponse{
		ID:     job.ID,
		Status: string(job.Status),
		URL:    job.URL,
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// logMiddleware assigns each request an ID and logs method, path, status
// and duration.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start),
		)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(status int) {
	recorder.status = status
	recorder.ResponseWriter.WriteHeader(status)
}
