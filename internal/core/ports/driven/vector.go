package driven

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// VectorStore persists embedded chunks and answers nearest-neighbour
// queries over them. All methods take a context and are cancellable,
// which is the non-blocking call form; implementations must be safe
// for concurrent use.
type VectorStore interface {
	// Add persists embedded chunks. Chunks are immutable once stored.
	Add(ctx context.Context, chunks []domain.EmbeddedChunk) error

	// SimilaritySearch embeds the query text in the query role and
	// returns up to k nearest chunks ordered ascending by distance
	// (lower score = more similar).
	SimilaritySearch(ctx context.Context, query string, k int) ([]domain.ScoredCandidate, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Reset removes all stored chunks. Used for a full reindex.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
