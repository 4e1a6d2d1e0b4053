package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

func TestSynthesizeEmptyContextRefusesVerbatim(t *testing.T) {
	llm := &mockCompletionService{}
	stage := NewSynthesisStage(llm)

	answer, err := stage.Synthesize(context.Background(), "what happened?", nil)

	require.NoError(t, err)
	assert.Equal(t, "I'm sorry, but I don't have enough information to answer that question.", answer)
	assert.Empty(t, llm.contracts, "no gateway call with nothing to ground on")
}

func TestSynthesizeJoinsChunksInOrder(t *testing.T) {
	llm := &mockCompletionService{
		payloads: map[string]string{
			"formulated_answer": `{"answer": "At the jewelry shop."}`,
		},
	}
	stage := NewSynthesisStage(llm)

	ranked := []domain.Chunk{
		{SourceID: "c-1", Text: "first message"},
		{SourceID: "c-2", Text: "second message"},
	}
	answer, err := stage.Synthesize(context.Background(), "where?", ranked)

	require.NoError(t, err)
	assert.Equal(t, "At the jewelry shop.", answer)
	require.Len(t, llm.users, 1)
	assert.Equal(t, "Question: where?\nMessages: first message\nsecond message", llm.users[0])
	assert.Equal(t, []string{"formulated_answer"}, llm.contracts)
}

func TestSynthesizeGatewayErrorIsGenerationFailure(t *testing.T) {
	llm := &mockCompletionService{err: errors.New("timeout")}
	stage := NewSynthesisStage(llm)

	_, err := stage.Synthesize(context.Background(), "q", []domain.Chunk{{Text: "ctx"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailure)
}
