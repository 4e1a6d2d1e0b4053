// Package sqlite provides a SQLite-backed vector store. Embeddings are
// persisted as little-endian float32 blobs next to the chunk text and
// metadata; similarity queries embed the query text and score every
// stored vector by cosine distance. Exact brute-force scan is deliberate:
// the index is single-tenant and holds tens of thousands of chunks, well
// inside what a linear pass handles interactively.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

//go:embed schema.sql
var schema string

// DefaultDBFile is the index file name inside the data directory.
const DefaultDBFile = "index.db"

// Store persists embedded chunks in SQLite and answers nearest-neighbour
// queries over them. Safe for concurrent use: database/sql pools
// connections and the store itself is stateless.
type Store struct {
	db       *sql.DB
	embedder driven.EmbeddingService
	path     string
}

// NewStore opens (or creates) the vector index at dataDir. If dataDir is
// empty, defaults to ~/.recall/data.
func NewStore(dataDir string, embedder driven.EmbeddingService) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DefaultDBFile)

	// WAL mode lets concurrent searches proceed during ingestion writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, embedder: embedder, path: dbPath}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Add persists embedded chunks in one transaction.
func (s *Store) Add(ctx context.Context, chunks []domain.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (source_id, chat_id, title, participants, content, embedding, dimensions)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		blob := float32SliceToBytes(chunk.Embedding)
		_, err := stmt.ExecContext(ctx,
			chunk.SourceID, chunk.ChatID, chunk.Title, chunk.Participants,
			chunk.Text, blob, len(chunk.Embedding))
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.SourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SimilaritySearch embeds the query in the query role and returns up to
// k stored chunks ordered ascending by cosine distance. Stored vectors
// whose dimensionality does not match the query vector are skipped; they
// belong to a stale index generation.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.ScoredCandidate, error) {
	if k <= 0 {
		return []domain.ScoredCandidate{}, nil
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, chat_id, title, participants, content, embedding
		FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	defer rows.Close()

	var candidates []domain.ScoredCandidate
	for rows.Next() {
		var cand domain.ScoredCandidate
		var blob []byte
		if err := rows.Scan(&cand.SourceID, &cand.ChatID, &cand.Title,
			&cand.Participants, &cand.Text, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}

		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(queryVec) {
			continue
		}
		cand.Score = cosineDistance(queryVec, embedding)
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Reset removes all stored chunks for a full reindex.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("reset chunks: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
