package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// AnswerSynthesizer condenses the ranked chunks and the original question
// into a final natural-language answer.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question string, ranked []domain.Chunk) (string, error)
}

// Ensure SynthesisStage implements the interface.
var _ AnswerSynthesizer = (*SynthesisStage)(nil)

// formulatedAnswerOutput is the structured result of the synthesis call.
type formulatedAnswerOutput struct {
	Answer string `json:"answer"`
}

// formulatedAnswerContract constrains the model response to a single
// answer string.
var formulatedAnswerContract = driven.OutputContract{
	Name: "formulated_answer",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"description": "The answer.",
			},
		},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}

// SynthesisStage answers the question strictly from the retrieved chunks,
// joined in their ranked order.
type SynthesisStage struct {
	llm driven.CompletionService
}

// NewSynthesisStage creates the answer synthesis stage.
func NewSynthesisStage(llm driven.CompletionService) *SynthesisStage {
	return &SynthesisStage{llm: llm}
}

// Synthesize returns the model's answer, or RefusalAnswer verbatim when
// there is no context to answer from. Chunk texts are concatenated in
// their given order separated by newlines; any token budgeting belongs
// to the upstream chunk-sizing policy, not here.
func (s *SynthesisStage) Synthesize(ctx context.Context, question string, ranked []domain.Chunk) (string, error) {
	logger.Section("Answer Synthesis")
	logger.Debug("Question: %q", question)
	logger.Debug("Context chunks: %d", len(ranked))

	// With nothing retrieved there is nothing to ground an answer in;
	// skip the gateway call and refuse deterministically.
	if len(ranked) == 0 {
		logger.Info("No retrieved context, returning refusal")
		return RefusalAnswer, nil
	}

	texts := make([]string, len(ranked))
	for i, chunk := range ranked {
		texts[i] = chunk.Text
	}
	user := fmt.Sprintf("Question: %s\nMessages: %s", question, strings.Join(texts, "\n"))

	var out formulatedAnswerOutput
	if err := s.llm.Complete(ctx, answerFormulationPrompt, user, formulatedAnswerContract, &out); err != nil {
		return "", fmt.Errorf("formulate answer: %w: %w", domain.ErrGenerationFailure, err)
	}

	logger.Info("Generated answer (%d characters)", len(out.Answer))
	return out.Answer, nil
}
