package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// Default retrieval configuration.
const (
	// DefaultMaxReturnedSearch is the per-query neighbour count.
	DefaultMaxReturnedSearch = 10

	// DefaultTopKResults caps the final merged result list.
	DefaultTopKResults = 20
)

// MessageRetriever runs the expanded queries against the vector store and
// merges the results into a single ranked candidate list.
type MessageRetriever interface {
	Retrieve(ctx context.Context, question string, variations []string) ([]domain.Chunk, error)
}

// Ensure RetrievalStage implements the interface.
var _ MessageRetriever = (*RetrievalStage)(nil)

// RetrievalOptions configures the multi-query retrieval stage.
type RetrievalOptions struct {
	// MaxReturnedSearch is the neighbour count requested per query
	// variation (default 10).
	MaxReturnedSearch int

	// TopKResults caps the merged, deduplicated result list (default 20).
	TopKResults int

	// IncludeQuestion prepends the literal user question to the query
	// set. By default retrieval relies entirely on expansion: the
	// original question is searched only if expansion emitted it.
	IncludeQuestion bool

	// BestSeenWins keeps the lowest-scored occurrence when the same
	// source appears under several query variations. The default keeps
	// the first occurrence in query order even when a later one scored
	// better, matching the historical merge behaviour.
	BestSeenWins bool
}

// withDefaults fills in zero-valued knobs.
func (o RetrievalOptions) withDefaults() RetrievalOptions {
	if o.MaxReturnedSearch <= 0 {
		o.MaxReturnedSearch = DefaultMaxReturnedSearch
	}
	if o.TopKResults <= 0 {
		o.TopKResults = DefaultTopKResults
	}
	return o
}

// RetrievalStage fans one search per query variation out to the vector
// store, pools the scored candidates, deduplicates them by source ID,
// and reranks the survivors globally by distance.
type RetrievalStage struct {
	store driven.VectorStore
	opts  RetrievalOptions
}

// NewRetrievalStage creates the multi-query retrieval stage.
func NewRetrievalStage(store driven.VectorStore, opts RetrievalOptions) *RetrievalStage {
	return &RetrievalStage{store: store, opts: opts.withDefaults()}
}

// Retrieve returns the merged, deduplicated, distance-ranked chunks for
// the given query variations. An empty query set returns an empty list
// without touching the vector store. A failed search for any variation
// fails the whole batch with a retrieval failure.
//
// The per-variation searches run concurrently; merging happens only
// after all of them complete, in stable input order, so the dedup
// winner never depends on completion order.
func (s *RetrievalStage) Retrieve(ctx context.Context, question string, variations []string) ([]domain.Chunk, error) {
	logger.Section("Message Retrieval")

	queries := make([]string, 0, len(variations)+1)
	if s.opts.IncludeQuestion {
		queries = append(queries, question)
	}
	queries = append(queries, variations...)

	logger.Debug("Query set: %d entries (include question: %t)", len(queries), s.opts.IncludeQuestion)

	if len(queries) == 0 {
		logger.Info("Empty query set, skipping index search")
		return []domain.Chunk{}, nil
	}

	// One result slot per query keeps the merge order equal to the
	// input order regardless of which search finishes first.
	pooled := make([][]domain.ScoredCandidate, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			hits, err := s.store.SimilaritySearch(gctx, query, s.opts.MaxReturnedSearch)
			if err != nil {
				return fmt.Errorf("search %q: %w", query, err)
			}
			pooled[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retrieve messages: %w: %w", domain.ErrRetrievalFailure, err)
	}

	merged := s.merge(pooled)
	logger.Info("Retrieved %d unique chunks", len(merged))

	chunks := make([]domain.Chunk, len(merged))
	for i, cand := range merged {
		logger.Debug("Rank %d: %s (score %.4f)", i+1, cand.SourceID, cand.Score)
		chunks[i] = cand.Chunk
	}
	return chunks, nil
}

// merge deduplicates the pooled candidates by source ID, sorts them
// ascending by distance, and truncates to the top-k cap.
func (s *RetrievalStage) merge(pooled [][]domain.ScoredCandidate) []domain.ScoredCandidate {
	seen := make(map[string]int)
	var unique []domain.ScoredCandidate

	total := 0
	for _, hits := range pooled {
		total += len(hits)
		for _, cand := range hits {
			idx, ok := seen[cand.SourceID]
			if !ok {
				seen[cand.SourceID] = len(unique)
				unique = append(unique, cand)
				continue
			}
			if s.opts.BestSeenWins && cand.Score < unique[idx].Score {
				unique[idx] = cand
			}
		}
	}
	logger.Debug("Pooled %d candidates, %d unique", total, len(unique))

	// Stable sort keeps query order as the tie-break for equal scores.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score < unique[j].Score
	})

	if len(unique) > s.opts.TopKResults {
		unique = unique[:s.opts.TopKResults]
	}
	return unique
}
