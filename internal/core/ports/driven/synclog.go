package driven

import (
	"context"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

// SyncLogStore records sync run outcomes for history and diagnostics.
// The orchestrator writes one entry per run; failures to record are
// logged and never fail the run itself.
type SyncLogStore interface {
	// Record logs a completed sync run.
	Record(ctx context.Context, result *domain.SyncResult) error

	// History returns recent results for a source, most recent first.
	History(ctx context.Context, sourceID string, limit int) ([]domain.SyncResult, error)

	// Prune removes old results beyond the retention limit, keeping the
	// most recent 'keep' results per source.
	Prune(ctx context.Context, keep int) error
}
