package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrGenerationFailure indicates the chat completion gateway returned
	// an error or produced output violating its schema contract.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrRetrievalFailure indicates the vector store or embedding service
	// returned an error during a similarity search.
	ErrRetrievalFailure = errors.New("retrieval failure")

	// ErrConfiguration indicates missing or invalid required settings.
	// Detected at startup, never per-request.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// Stage identifies a phase of the ask pipeline.
type Stage string

// Pipeline stages, in execution order. A run visits each stage at most
// once; any failure moves the run to StageFailed and stops it.
const (
	StageExpanding    Stage = "expanding"
	StageRetrieving   Stage = "retrieving"
	StageSynthesizing Stage = "synthesizing"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// StageError annotates a pipeline failure with the stage it originated in.
// The orchestrator surfaces exactly one StageError per failed request.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying stage failure for errors.Is/As.
func (e *StageError) Unwrap() error {
	return e.Err
}
