package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCompletionService implements driven.CompletionService for testing.
// Responses are canned JSON payloads keyed by contract name.
type mockCompletionService struct {
	mu        sync.Mutex
	payloads  map[string]string
	err       error
	contracts []string
	users     []string
}

func (m *mockCompletionService) Complete(_ context.Context, _ string, user string, contract driven.OutputContract, out any) error {
	m.mu.Lock()
	m.contracts = append(m.contracts, contract.Name)
	m.users = append(m.users, user)
	m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	payload, ok := m.payloads[contract.Name]
	if !ok {
		payload = "{}"
	}
	return json.Unmarshal([]byte(payload), out)
}

func (m *mockCompletionService) ModelName() string { return "mock-llm" }

func (m *mockCompletionService) Ping(_ context.Context) error { return nil }

func (m *mockCompletionService) Close() error { return nil }

// mockVectorStore implements driven.VectorStore for testing.
// Hits are keyed by query text; delays simulate slow searches so tests
// can exercise out-of-order completion.
type mockVectorStore struct {
	mu        sync.Mutex
	hits      map[string][]domain.ScoredCandidate
	delays    map[string]time.Duration
	searchErr error
	queries   []string
	added     []domain.EmbeddedChunk
	resets    int
}

func (m *mockVectorStore) Add(_ context.Context, chunks []domain.EmbeddedChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, chunks...)
	return nil
}

func (m *mockVectorStore) SimilaritySearch(_ context.Context, query string, k int) ([]domain.ScoredCandidate, error) {
	m.mu.Lock()
	delay := m.delays[query]
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if m.searchErr != nil {
		return nil, m.searchErr
	}

	hits := m.hits[query]
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockVectorStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.added), nil
}

func (m *mockVectorStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.added = nil
	return nil
}

func (m *mockVectorStore) Close() error { return nil }

func (m *mockVectorStore) searchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	err error
}

func (m *mockEmbeddingService) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i])), 1}
	}
	return vectors, nil
}

func (m *mockEmbeddingService) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 2 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockDocumentSource implements driven.DocumentSource for testing.
type mockDocumentSource struct {
	conversations []domain.Conversation
	err           error
}

func (m *mockDocumentSource) Load(_ context.Context) ([]domain.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversations, nil
}

// chunk builds a scored candidate for tests.
func scored(sourceID, text string, score float64) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Chunk: domain.Chunk{SourceID: sourceID, Text: text},
		Score: score,
	}
}
