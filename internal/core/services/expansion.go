package services

import (
	"context"
	"fmt"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// QueryExpander turns one user question into zero or more candidate
// historical-message phrasings.
type QueryExpander interface {
	Expand(ctx context.Context, question string) ([]string, error)
}

// Ensure ExpansionStage implements the interface.
var _ QueryExpander = (*ExpansionStage)(nil)

// queryVariationOutput is the structured result of the expansion call.
type queryVariationOutput struct {
	QueryVariations []string `json:"query_variations"`
}

// queryVariationContract constrains the model response to a list of
// strings. Non-conforming output fails the request.
var queryVariationContract = driven.OutputContract{
	Name: "query_variations",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query_variations": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "A list of query variations to generate.",
			},
		},
		"required":             []any{"query_variations"},
		"additionalProperties": false,
	},
}

// ExpansionStage generates plausible historical-message phrasings for a
// question via the chat completion gateway. It performs no deduplication
// or post-processing; that responsibility lies downstream.
type ExpansionStage struct {
	llm driven.CompletionService
}

// NewExpansionStage creates the query expansion stage.
func NewExpansionStage(llm driven.CompletionService) *ExpansionStage {
	return &ExpansionStage{llm: llm}
}

// Expand returns a list (possibly empty) of short, self-contained
// statements, each a plausible verbatim historical message. Gateway
// errors and schema violations fail the whole request: callers must
// never mistake a failed expansion for an intentionally empty one.
func (s *ExpansionStage) Expand(ctx context.Context, question string) ([]string, error) {
	logger.Section("Query Expansion")
	logger.Debug("Question: %q", question)

	var out queryVariationOutput
	if err := s.llm.Complete(ctx, queryVariationPrompt, question, queryVariationContract, &out); err != nil {
		return nil, fmt.Errorf("expand query: %w: %w", domain.ErrGenerationFailure, err)
	}

	logger.Info("Generated %d query variations", len(out.QueryVariations))
	for i, v := range out.QueryVariations {
		logger.Debug("Variation %d: %q", i+1, v)
	}

	return out.QueryVariations, nil
}
