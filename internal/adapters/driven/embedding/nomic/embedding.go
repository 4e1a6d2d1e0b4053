// Package nomic provides an embedding service adapter for nomic-style
// models served behind an OpenAI-compatible embeddings endpoint.
// Documents are prefixed with "search_document: " and queries with
// "search_query: " as the nomic-embed-text family requires; the two
// encodings are not interchangeable.
package nomic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Role prefixes required by nomic-style embedding models.
const (
	documentPrefix = "search_document: "
	queryPrefix    = "search_query: "
)

// Default configuration values.
const (
	DefaultModel      = "nomic-embed-text-v2-moe"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 768
	DefaultRate       = 4 // requests per second
)

// Config holds configuration for the embedding service.
type Config struct {
	// BaseURL is the OpenAI-compatible API base URL (required),
	// e.g. http://localhost:8080/v1.
	BaseURL string

	// APIKey authenticates requests. Local inference servers usually
	// accept any non-empty value.
	APIKey string

	// Model is the embedding model to use (default: nomic-embed-text-v2-moe).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions is the embedding vector size (default: 768).
	Dimensions int

	// RequestsPerSecond throttles embedding calls during ingestion
	// (default: 4). Zero or negative disables throttling.
	RequestsPerSecond float64
}

// EmbeddingService generates nomic-style embeddings over an
// OpenAI-compatible endpoint.
type EmbeddingService struct {
	client     *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	model      string
	dimensions int
}

// embeddingRequest is the OpenAI-compatible API request format.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the OpenAI-compatible API response format.
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("nomic: base URL is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRate
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    limiter,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// EmbedDocuments generates stored-document embeddings for the texts.
func (s *EmbeddingService) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return s.embed(ctx, texts, documentPrefix)
}

// EmbedQuery generates a search-query embedding for the text.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embed(ctx, []string{text}, queryPrefix)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// embed prefixes the inputs for their role and calls the endpoint.
func (s *EmbeddingService) embed(ctx context.Context, texts []string, prefix string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	prefixed := make([]string, len(texts))
	for i, text := range texts {
		prefixed[i] = prefix + text
	}

	jsonBody, err := json.Marshal(embeddingRequest{Model: s.model, Input: prefixed})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/embeddings",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("embedding error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("embedding error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("embedding error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response: got %d vectors for %d inputs", len(parsed.Data), len(texts))
	}

	// Responses may arrive out of order; place by index.
	vectors := make([][]float32, len(texts))
	for _, item := range parsed.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding response: index %d out of range", item.Index)
		}
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		vectors[item.Index] = vec
	}
	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("embedding response: missing vector for input %d", i)
		}
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by embedding a single token.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.EmbedQuery(ctx, "ping"); err != nil {
		return fmt.Errorf("nomic: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
