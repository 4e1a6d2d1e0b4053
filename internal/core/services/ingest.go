package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
	"github.com/keepsake-labs/recall-cli/internal/logger"
	"github.com/keepsake-labs/recall-cli/internal/postprocessors/chunker"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestService = (*IngestionService)(nil)

// DefaultEmbedBatchSize is how many chunk texts are embedded per
// gateway request during ingestion.
const DefaultEmbedBatchSize = 32

// imageTagPattern matches markdown image tags like ![description](uri).
// Photo messages are rendered as image tags by the loader and carry no
// searchable text, so they are stripped before chunking.
var imageTagPattern = regexp.MustCompile(`!\[.*?\]\(.*?\)`)

// IngestionService builds the vector index from a chat export: load,
// strip image tags, chunk, embed in the document role, and store.
// Ingestion is the one place where per-item failures are isolated
// rather than failing the whole run: a conversation that cannot be
// used is logged and skipped.
type IngestionService struct {
	source    driven.DocumentSource
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	chunker   *chunker.Processor
	batchSize int
}

// NewIngestionService creates the ingestion service.
func NewIngestionService(
	source driven.DocumentSource,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	proc *chunker.Processor,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = DefaultEmbedBatchSize
	}
	return &IngestionService{
		source:    source,
		embedder:  embedder,
		store:     store,
		chunker:   proc,
		batchSize: batchSize,
	}
}

// Ingest performs a full reindex of the export. Chunk source IDs are
// assigned as "<chat_id>-<n>" where n is a global running sequence, so
// IDs stay unique across the whole index.
func (s *IngestionService) Ingest(ctx context.Context) (driving.IngestStats, error) {
	logger.Section("Ingestion")
	var stats driving.IngestStats

	conversations, err := s.source.Load(ctx)
	if err != nil {
		return stats, fmt.Errorf("load export: %w", err)
	}
	logger.Info("Loaded %d conversations", len(conversations))

	// Stored chunks are immutable; a reindex replaces them wholesale.
	if err := s.store.Reset(ctx); err != nil {
		return stats, fmt.Errorf("reset vector store: %w", err)
	}

	var pending []domain.Chunk
	seq := 0
	for _, conv := range conversations {
		text := strings.TrimSpace(imageTagPattern.ReplaceAllString(conv.Content, ""))
		if text == "" {
			logger.Warn("Skipping conversation %s: no indexable text", conv.ChatID)
			stats.Skipped++
			continue
		}

		pieces := s.chunker.Split(text)
		logger.Debug("Conversation %s: %d chunks", conv.ChatID, len(pieces))
		for _, piece := range pieces {
			pending = append(pending, domain.Chunk{
				SourceID:     fmt.Sprintf("%s-%d", conv.ChatID, seq),
				Text:         piece,
				ChatID:       conv.ChatID,
				Title:        conv.Title,
				Participants: conv.Participants,
			})
			seq++
		}
		stats.Conversations++
	}

	for start := 0; start < len(pending); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		vectors, err := s.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return stats, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return stats, fmt.Errorf("embed chunks %d-%d: got %d vectors for %d texts", start, end-1, len(vectors), len(batch))
		}

		embedded := make([]domain.EmbeddedChunk, len(batch))
		for i, chunk := range batch {
			embedded[i] = domain.EmbeddedChunk{Chunk: chunk, Embedding: vectors[i]}
		}
		if err := s.store.Add(ctx, embedded); err != nil {
			return stats, fmt.Errorf("store chunks %d-%d: %w", start, end-1, err)
		}
		stats.Chunks += len(batch)
		logger.Debug("Stored %d/%d chunks", stats.Chunks, len(pending))
	}

	logger.Info("Ingestion complete: %d conversations, %d chunks, %d skipped",
		stats.Conversations, stats.Chunks, stats.Skipped)
	return stats, nil
}
