package driving

import "context"

// IngestStats summarises one ingestion run.
type IngestStats struct {
	// Conversations is the number of conversations indexed.
	Conversations int

	// Chunks is the number of chunks written to the vector store.
	Chunks int

	// Skipped is the number of conversations skipped (empty or unreadable).
	Skipped int
}

// IngestService builds the vector index from a chat export.
// Ingestion always performs a full reindex: stored chunks are immutable
// and replaced wholesale.
type IngestService interface {
	// Ingest loads, chunks, embeds, and stores the export.
	Ingest(ctx context.Context) (IngestStats, error)
}
