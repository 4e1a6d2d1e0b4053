package services

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.AskService = (*Pipeline)(nil)

// Pipeline composes the expansion, retrieval, and synthesis stages into
// one request/response flow: Expanding → Retrieving → Synthesizing →
// Done. Each transition is gated on successful completion of the prior
// stage; any failure moves the run to the terminal Failed state carrying
// a *domain.StageError. No stage is ever revisited.
//
// A Pipeline holds no per-request state; the QueryContext for each run
// is exclusively owned by that run, so concurrent Ask calls are safe.
type Pipeline struct {
	expander    QueryExpander
	retriever   MessageRetriever
	synthesizer AnswerSynthesizer
}

// NewPipeline creates the orchestrator from its three stages.
func NewPipeline(expander QueryExpander, retriever MessageRetriever, synthesizer AnswerSynthesizer) *Pipeline {
	return &Pipeline{
		expander:    expander,
		retriever:   retriever,
		synthesizer: synthesizer,
	}
}

// Ask runs the full pipeline for one question. On failure the returned
// context still carries the fields populated by the stages that did
// complete, and the error identifies the failing stage.
func (p *Pipeline) Ask(ctx context.Context, question string) (domain.QueryContext, error) {
	qc := domain.NewQueryContext(question)

	variations, err := p.expander.Expand(ctx, qc.Question)
	if err != nil {
		return qc, p.fail(domain.StageExpanding, err)
	}
	qc = qc.WithVariations(variations)

	retrieved, err := p.retriever.Retrieve(ctx, qc.Question, qc.Variations)
	if err != nil {
		return qc, p.fail(domain.StageRetrieving, err)
	}
	qc = qc.WithRetrieved(retrieved)

	answer, err := p.synthesizer.Synthesize(ctx, qc.Question, qc.Retrieved)
	if err != nil {
		return qc, p.fail(domain.StageSynthesizing, err)
	}
	qc = qc.WithAnswer(answer)

	logger.Debug("Pipeline state: %s", domain.StageDone)
	return qc, nil
}

// Go runs the pipeline asynchronously. The returned channel is buffered
// and receives exactly one result, so abandoning it never leaks the
// goroutine's send.
func (p *Pipeline) Go(ctx context.Context, question string) <-chan driving.AskResult {
	out := make(chan driving.AskResult, 1)
	go func() {
		qc, err := p.Ask(ctx, question)
		out <- driving.AskResult{Context: qc, Err: err}
	}()
	return out
}

// fail wraps a stage failure into the terminal pipeline error.
func (p *Pipeline) fail(stage domain.Stage, err error) error {
	logger.Warn("Pipeline state: %s (stage %s: %v)", domain.StageFailed, stage, err)
	return &domain.StageError{Stage: stage, Err: err}
}
