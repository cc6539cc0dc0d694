package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
	"github.com/objecta-labs/knowsync/internal/core/ports/driving"
	"github.com/objecta-labs/knowsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// syncLogRetention is how many results per source the log keeps.
const syncLogRetention = 100

// SyncOrchestrator drives full sync runs: fetch via connector, diff
// against stored documents, create/update/delete, re-chunk, persist.
type SyncOrchestrator struct {
	sourceStore driven.SourceStore
	docStore    driven.DocumentStore
	registry    driven.ConnectorRegistry
	pipeline    driven.ChunkingPipeline
	syncLog     driven.SyncLogStore

	// now is swappable for tests.
	now func() time.Time

	// inFlight guards against two concurrent runs for the same source.
	// The document diff is not transaction-isolated against concurrent
	// writers, so overlap must be rejected, not serialised.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSyncOrchestrator creates a sync orchestrator.
// syncLog is optional; when nil, runs are not recorded to history.
func NewSyncOrchestrator(
	sourceStore driven.SourceStore,
	docStore driven.DocumentStore,
	registry driven.ConnectorRegistry,
	pipeline driven.ChunkingPipeline,
	syncLog driven.SyncLogStore,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		sourceStore: sourceStore,
		docStore:    docStore,
		registry:    registry,
		pipeline:    pipeline,
		syncLog:     syncLog,
		now:         time.Now,
		inFlight:    make(map[string]struct{}),
	}
}

// SyncSource runs one full sync for a source.
//
// The returned result is non-nil whenever a run was started; Success is
// false when the run itself failed (unknown connector, fetch failure),
// in which case the source is left in StatusError and the error is also
// returned. Per-document failures never fail the run; they are collected
// into the result's Errors.
func (o *SyncOrchestrator) SyncSource(ctx context.Context, tenantID, sourceID string) (*domain.SyncResult, error) {
	source, err := o.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if tenantID != "" && source.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	if !source.Enabled {
		return nil, domain.ErrSourceDisabled
	}

	if !o.acquire(sourceID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.release(sourceID)

	// Make the transition visible before any long-running work starts.
	source.Status = domain.StatusSyncing
	if err := o.sourceStore.Save(ctx, *source); err != nil {
		return nil, fmt.Errorf("mark source syncing: %w", err)
	}

	logger.Info("Starting sync for source %s (%s)", source.ID, source.Type)

	result := &domain.SyncResult{SourceID: sourceID}
	runErr := o.runSync(ctx, source, result)
	result.CompletedAt = o.now()

	if runErr != nil {
		source.Status = domain.StatusError
		source.ErrorMessage = runErr.Error()
		result.Success = false
		result.Errors = append(result.Errors, runErr.Error())
	} else {
		source.Status = domain.StatusActive
		source.ErrorMessage = ""
		completed := result.CompletedAt
		source.LastSyncedAt = &completed
		result.Success = true
	}

	// The source must never be left stuck in StatusSyncing, even when
	// the fetch failed outright.
	if saveErr := o.sourceStore.Save(ctx, *source); saveErr != nil {
		logger.Warn("Failed to persist source %s after sync: %v", sourceID, saveErr)
		if runErr == nil {
			runErr = fmt.Errorf("persist source: %w", saveErr)
			result.Success = false
		}
	}

	o.record(ctx, result)

	logger.Info("Sync for source %s finished: %d processed, %d added, %d updated, %d deleted, %d errors",
		sourceID, result.DocumentsProcessed, result.DocumentsAdded,
		result.DocumentsUpdated, result.DocumentsDeleted, len(result.Errors))

	return result, runErr
}

// SyncAll sequentially syncs every enabled source in a tenant.
// Individual run failures are reflected in the returned results and do
// not abort the iteration.
func (o *SyncOrchestrator) SyncAll(ctx context.Context, tenantID string) (map[string]*domain.SyncResult, error) {
	sources, err := o.sourceStore.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	results := make(map[string]*domain.SyncResult)
	for i := range sources {
		source := &sources[i]
		if !source.Enabled {
			continue
		}
		result, err := o.SyncSource(ctx, tenantID, source.ID)
		if err != nil {
			logger.Warn("Sync failed for source %s: %v", source.ID, err)
		}
		if result != nil {
			results[source.ID] = result
		}
	}
	return results, nil
}

// TestConnection checks whether credentials and config can reach the
// source system. Returns false for unknown source types.
func (o *SyncOrchestrator) TestConnection(ctx context.Context, sourceType domain.SourceType, creds domain.Credentials, cfg domain.SourceConfig) bool {
	connector, err := o.registry.Resolve(sourceType)
	if err != nil {
		return false
	}
	if !connector.ValidateCredentials(creds) {
		return false
	}
	return connector.TestConnection(ctx, creds, cfg)
}

// runSync executes the fetch/diff/reconcile phases of one run.
// A returned error is a run-level failure; per-document failures are
// appended to result.Errors instead.
func (o *SyncOrchestrator) runSync(ctx context.Context, source *domain.DataSource, result *domain.SyncResult) error {
	connector, err := o.registry.Resolve(source.Type)
	if err != nil {
		return err
	}

	fetched, err := connector.FetchDocuments(ctx, source.Credentials, driven.FetchRequest{
		Settings:     source.Config.Settings,
		Since:        source.LastSyncedAt,
		MaxDocuments: source.Config.MaxDocuments,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
	}

	local, err := o.docStore.ListBySource(ctx, source.ID)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	byExternalID := make(map[string]domain.Document, len(local))
	for i := range local {
		byExternalID[local[i].ExternalID] = local[i]
	}

	for i := range fetched {
		ext := &fetched[i]
		result.DocumentsProcessed++

		existing, ok := byExternalID[ext.ExternalID]
		if ok {
			// Seen: the document still exists remotely, so it must not
			// be considered for deletion even if the update fails.
			delete(byExternalID, ext.ExternalID)

			if !ext.LastModified.After(existing.UpdatedAt) {
				continue
			}
			if err := o.updateDocument(ctx, &existing, ext); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ext.Title, err))
				continue
			}
			result.DocumentsUpdated++
			continue
		}

		if err := o.createDocument(ctx, source.ID, ext); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ext.Title, err))
			continue
		}
		result.DocumentsAdded++
	}

	if source.Config.SyncDeletes {
		o.deleteAbsent(ctx, byExternalID, result)
	}

	return nil
}

// createDocument stores a first-seen external document and its chunks.
func (o *SyncOrchestrator) createDocument(ctx context.Context, sourceID string, ext *domain.ExternalDocument) error {
	now := o.now()
	doc := domain.Document{
		ID:          uuid.NewString(),
		SourceID:    sourceID,
		ExternalID:  ext.ExternalID,
		Title:       ext.Title,
		Content:     ext.Content,
		ContentType: ext.ContentType,
		URL:         ext.URL,
		Metadata:    buildMetadata(nil, ext),
		CreatedAt:   now,
		UpdatedAt:   ext.LastModified,
	}

	chunks, err := o.pipeline.Process(ctx, &doc)
	if err != nil {
		return fmt.Errorf("chunk: %w", err)
	}
	if err := o.docStore.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	doc.ChunkCount = len(chunks)

	if err := o.docStore.SaveDocument(ctx, &doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// updateDocument overwrites a stored document with newer remote content
// and replaces its chunk set.
func (o *SyncOrchestrator) updateDocument(ctx context.Context, existing *domain.Document, ext *domain.ExternalDocument) error {
	doc := *existing
	doc.Title = ext.Title
	doc.Content = ext.Content
	doc.ContentType = ext.ContentType
	doc.URL = ext.URL
	doc.Metadata = buildMetadata(existing.Metadata, ext)
	doc.UpdatedAt = ext.LastModified

	chunks, err := o.pipeline.Process(ctx, &doc)
	if err != nil {
		return fmt.Errorf("chunk: %w", err)
	}
	if err := o.docStore.DeleteChunks(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := o.docStore.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	doc.ChunkCount = len(chunks)

	if err := o.docStore.SaveDocument(ctx, &doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// deleteAbsent removes documents whose external IDs disappeared from
// the latest fetch. Each deletion failure is isolated.
func (o *SyncOrchestrator) deleteAbsent(ctx context.Context, absent map[string]domain.Document, result *domain.SyncResult) {
	// Stable order keeps error lists deterministic.
	externalIDs := make([]string, 0, len(absent))
	for id := range absent {
		externalIDs = append(externalIDs, id)
	}
	sort.Strings(externalIDs)

	for _, externalID := range externalIDs {
		doc := absent[externalID]
		if err := o.docStore.DeleteDocument(ctx, doc.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", doc.Title, err))
			continue
		}
		result.DocumentsDeleted++
	}
}

// record logs the run to the sync history, best effort.
func (o *SyncOrchestrator) record(ctx context.Context, result *domain.SyncResult) {
	if o.syncLog == nil {
		return
	}
	if err := o.syncLog.Record(ctx, result); err != nil {
		logger.Warn("Failed to record sync result for %s: %v", result.SourceID, err)
		return
	}
	if err := o.syncLog.Prune(ctx, syncLogRetention); err != nil {
		logger.Warn("Failed to prune sync history: %v", err)
	}
}

// acquire marks a source as having a run in flight.
func (o *SyncOrchestrator) acquire(sourceID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, running := o.inFlight[sourceID]; running {
		return false
	}
	o.inFlight[sourceID] = struct{}{}
	return true
}

// release clears the in-flight mark for a source.
func (o *SyncOrchestrator) release(sourceID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, sourceID)
}

// buildMetadata merges fetched metadata over existing metadata.
// Fetched values win on key collision; existing keys are otherwise
// preserved. The external ID, tags and category are always present.
func buildMetadata(existing map[string]any, ext *domain.ExternalDocument) map[string]any {
	merged := make(map[string]any, len(existing)+len(ext.Metadata)+3)
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range ext.Metadata {
		merged[k] = v
	}
	merged[domain.MetadataKeyExternalID] = ext.ExternalID
	if len(ext.Tags) > 0 {
		merged["tags"] = ext.Tags
	}
	if ext.Category != "" {
		merged["category"] = ext.Category
	}
	return merged
}
