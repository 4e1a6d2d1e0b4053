package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryContextWithMethodsReturnCopies(t *testing.T) {
	base := NewQueryContext("where did we eat?")

	expanded := base.WithVariations([]string{"we ate at the diner"})
	retrieved := expanded.WithRetrieved([]Chunk{{SourceID: "c-1"}})
	answered := retrieved.WithAnswer("at the diner")

	assert.Empty(t, base.Variations)
	assert.Empty(t, expanded.Retrieved)
	assert.Empty(t, retrieved.Answer)

	assert.Equal(t, "where did we eat?", answered.Question)
	assert.Equal(t, []string{"we ate at the diner"}, answered.Variations)
	require.Len(t, answered.Retrieved, 1)
	assert.Equal(t, "at the diner", answered.Answer)
}

func TestStageErrorWrapsCause(t *testing.T) {
	cause := errors.New("index offline")
	err := &StageError{Stage: StageRetrieving, Err: cause}

	assert.Equal(t, "pipeline stage retrieving: index offline", err.Error())
	assert.ErrorIs(t, err, cause)

	var stageErr *StageError
	require.ErrorAs(t, error(err), &stageErr)
	assert.Equal(t, StageRetrieving, stageErr.Stage)
}
