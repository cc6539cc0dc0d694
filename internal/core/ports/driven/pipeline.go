package driven

import (
	"context"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

// ChunkingPipeline splits document content into ordered chunks.
// The orchestrator calls it after every create and update, then
// replaces the document's stored chunk set with the result.
type ChunkingPipeline interface {
	// Process returns the chunk set for a document's current content.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
