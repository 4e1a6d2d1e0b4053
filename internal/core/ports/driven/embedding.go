package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Document-role and query-role encodings of the same text may differ
// (for example by model-specific prefixing) and must never be assumed
// interchangeable: index with EmbedDocuments, search with EmbedQuery.
//
// Implementations may include:
//   - Nomic-style models behind an OpenAI-compatible endpoint
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// EmbedDocuments generates stored-document embeddings for the given
	// texts, one vector per text, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates a search-query embedding for the given text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768).
	// All vectors in one index generation share this size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to ingestion.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
