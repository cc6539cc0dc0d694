package driven

import (
	"context"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
// Individual operations are atomic; the store does not provide
// cross-document transactions.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetByExternalID retrieves the document a source stored under an
	// external ID. Returns domain.ErrNotFound if absent.
	GetByExternalID(ctx context.Context, sourceID, externalID string) (*domain.Document, error)

	// ListBySource returns all documents belonging to a source.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// SaveChunks replaces the stored chunk set for the chunks' document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteChunks removes all chunks for a document.
	DeleteChunks(ctx context.Context, documentID string) error
}
