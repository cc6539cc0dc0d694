package domain

import "time"

// SyncResult records the outcome of one sync run against one source.
// It is returned to the caller and logged for history, never required
// for correctness of later runs.
type SyncResult struct {
	// SourceID identifies the source that was synced.
	SourceID string

	// DocumentsProcessed counts every fetched document, including ones
	// that failed or were unchanged.
	DocumentsProcessed int

	// DocumentsAdded counts newly created documents.
	DocumentsAdded int

	// DocumentsUpdated counts documents overwritten with newer content.
	DocumentsUpdated int

	// DocumentsDeleted counts documents removed during the sync-deletes
	// phase.
	DocumentsDeleted int

	// Errors lists per-document failures in processing order, formatted
	// as "<title>: <message>". Non-empty Errors with Success true means
	// the run completed with warnings.
	Errors []string

	// Success is false only when the run itself failed (connector
	// missing, fetch failed). Per-document failures do not clear it.
	Success bool

	// CompletedAt is when the run finished. On success it is written
	// back to the source as LastSyncedAt.
	CompletedAt time.Time
}
