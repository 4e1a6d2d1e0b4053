package nomic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewEmbeddingService(Config{
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		RequestsPerSecond: -1,
	})
	require.NoError(t, err)
	return svc
}

func TestEmbedDocumentsAppliesDocumentPrefix(t *testing.T) {
	var got embeddingRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float64{1, 2}},
				{"index": 1, "embedding": []float64{3, 4}},
			},
		})
	})

	vectors, err := svc.EmbedDocuments(context.Background(), []string{"hello", "world"})

	require.NoError(t, err)
	assert.Equal(t, []string{"search_document: hello", "search_document: world"}, got.Input)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}}, vectors)
}

func TestEmbedQueryAppliesQueryPrefix(t *testing.T) {
	var got embeddingRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float64{0.5}}},
		})
	})

	vec, err := svc.EmbedQuery(context.Background(), "where did we eat?")

	require.NoError(t, err)
	assert.Equal(t, []string{"search_query: where did we eat?"}, got.Input)
	assert.Equal(t, []float32{0.5}, vec)
}

func TestEmbedPlacesVectorsByIndex(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		// Out-of-order response.
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{2}},
				{"index": 0, "embedding": []float64{1}},
			},
		})
	})

	vectors, err := svc.EmbedDocuments(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}}, vectors)
}

func TestEmbedVectorCountMismatchFails(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float64{1}}},
		})
	})

	_, err := svc.EmbedDocuments(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestEmbedServerErrorFails(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := svc.EmbedQuery(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestEmbedEmptyInputSkipsRequest(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	vectors, err := svc.EmbedDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestNewEmbeddingServiceRequiresBaseURL(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{BaseURL: "http://localhost:8080/v1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}
