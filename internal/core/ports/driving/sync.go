package driving

import (
	"context"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

// SyncOrchestrator coordinates document synchronisation from sources.
// It is the management layer's entry point into the sync engine.
type SyncOrchestrator interface {
	// SyncSource runs one full sync for a source. The source must be
	// enabled and must belong to the tenant. Returns the run result;
	// a non-nil result with Success false means the run itself failed
	// and the source was moved to StatusError.
	SyncSource(ctx context.Context, tenantID, sourceID string) (*domain.SyncResult, error)

	// SyncAll sequentially syncs every enabled source in a tenant,
	// tolerating individual failures. Returns one result per attempted
	// source keyed by source ID.
	SyncAll(ctx context.Context, tenantID string) (map[string]*domain.SyncResult, error)

	// TestConnection checks whether the given credentials and config can
	// reach the source system. Returns false for unknown source types.
	TestConnection(ctx context.Context, sourceType domain.SourceType, creds domain.Credentials, cfg domain.SourceConfig) bool
}
