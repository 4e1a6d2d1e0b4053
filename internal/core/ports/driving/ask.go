package driving

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// AskResult is the outcome of one pipeline run delivered asynchronously.
type AskResult struct {
	// Context is the final query context. On failure it holds whatever
	// fields were populated before the failing stage.
	Context domain.QueryContext

	// Err is nil on success, or a *domain.StageError naming the stage
	// that failed.
	Err error
}

// AskService answers natural-language questions about the indexed
// chat history. Implementations are stateless across requests; any
// number of Ask calls may run concurrently.
type AskService interface {
	// Ask runs the expansion → retrieval → synthesis pipeline for one
	// question and blocks until it completes or ctx is done.
	Ask(ctx context.Context, question string) (domain.QueryContext, error)

	// Go runs the pipeline without blocking and delivers the result on
	// the returned channel. The channel is buffered and receives exactly
	// one value.
	Go(ctx context.Context, question string) <-chan AskResult
}
