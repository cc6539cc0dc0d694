package memory

import (
	"context"
	"sync"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
)

// Ensure SyncLogStore implements the interface.
var _ driven.SyncLogStore = (*SyncLogStore)(nil)

// SyncLogStore is an in-memory implementation of driven.SyncLogStore.
type SyncLogStore struct {
	mu      sync.RWMutex
	results map[string][]domain.SyncResult
}

// NewSyncLogStore creates a new in-memory sync log store.
func NewSyncLogStore() *SyncLogStore {
	return &SyncLogStore{
		results: make(map[string][]domain.SyncResult),
	}
}

// Record logs a completed sync run.
func (s *SyncLogStore) Record(_ context.Context, result *domain.SyncResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Most recent first.
	s.results[result.SourceID] = append([]domain.SyncResult{*result}, s.results[result.SourceID]...)
	return nil
}

// History returns recent results for a source, most recent first.
func (s *SyncLogStore) History(_ context.Context, sourceID string, limit int) ([]domain.SyncResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := s.results[sourceID]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	out := make([]domain.SyncResult, len(results))
	copy(out, results)
	return out, nil
}

// Prune keeps the most recent 'keep' results per source.
func (s *SyncLogStore) Prune(_ context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for sourceID, results := range s.results {
		if len(results) > keep {
			s.results[sourceID] = results[:keep]
		}
	}
	return nil
}
