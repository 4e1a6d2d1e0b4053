package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

var testContract = driven.OutputContract{
	Name: "query_variations",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query_variations": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"query_variations"},
		"additionalProperties": false,
	},
}

func newTestService(t *testing.T, handler http.HandlerFunc) *CompletionService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewCompletionService(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return svc
}

func completionBody(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}, "finish_reason": "stop"},
		},
	}
}

func TestCompleteDecodesValidOutput(t *testing.T) {
	var got chatCompletionRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(completionBody(`{"query_variations": ["a", "b"]}`))
	})

	var out struct {
		QueryVariations []string `json:"query_variations"`
	}
	err := svc.Complete(context.Background(), "system prompt", "user content", testContract, &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.QueryVariations)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, float64(0), got.Temperature)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.Equal(t, "query_variations", got.ResponseFormat.JSONSchema.Name)
	assert.True(t, got.ResponseFormat.JSONSchema.Strict)
}

func TestCompleteRejectsContractViolations(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		// Wrong type: numbers instead of strings.
		json.NewEncoder(w).Encode(completionBody(`{"query_variations": [1, 2]}`))
	})

	var out struct {
		QueryVariations []string `json:"query_variations"`
	}
	err := svc.Complete(context.Background(), "s", "u", testContract, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "violates query_variations contract")
}

func TestCompleteRejectsMissingRequiredField(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionBody(`{}`))
	})

	var out struct {
		QueryVariations []string `json:"query_variations"`
	}
	err := svc.Complete(context.Background(), "s", "u", testContract, &out)
	assert.Error(t, err)
}

func TestCompleteSurfacesAPIErrors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	})

	var out map[string]any
	err := svc.Complete(context.Background(), "s", "u", testContract, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	var out map[string]any
	err := svc.Complete(context.Background(), "s", "u", testContract, &out)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, svc.Ping(context.Background()))
}
