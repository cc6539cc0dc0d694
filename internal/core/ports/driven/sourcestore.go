package driven

import (
	"context"
	"time"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

// SourceStore persists data source configurations and sync state.
type SourceStore interface {
	// Save stores or updates a source.
	Save(ctx context.Context, source domain.DataSource) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.DataSource, error)

	// Delete removes a source.
	Delete(ctx context.Context, id string) error

	// List returns all sources for a tenant. An empty tenant ID
	// returns every source.
	List(ctx context.Context, tenantID string) ([]domain.DataSource, error)

	// ListDue returns enabled sources with the given frequency whose
	// LastSyncedAt is nil or before cutoff.
	ListDue(ctx context.Context, frequency domain.SyncFrequency, cutoff time.Time) ([]domain.DataSource, error)
}
