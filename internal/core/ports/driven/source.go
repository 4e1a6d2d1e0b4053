package driven

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// DocumentSource yields parsed conversations from a chat export.
// Per-file parse failures are isolated inside the source (logged and
// skipped) so that one malformed file never aborts a whole ingestion.
type DocumentSource interface {
	// Load parses the export and returns every readable conversation.
	Load(ctx context.Context) ([]domain.Conversation, error)
}
