package memory

import (
	"context"
	"sync"
	"time"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu      sync.RWMutex
	sources map[string]domain.DataSource
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		sources: make(map[string]domain.DataSource),
	}
}

// Save stores or updates a source.
func (s *SourceStore) Save(_ context.Context, source domain.DataSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.ID] = source
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.DataSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// Delete removes a source.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
	return nil
}

// List returns all sources for a tenant. An empty tenant ID returns
// every source.
func (s *SourceStore) List(_ context.Context, tenantID string) ([]domain.DataSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.DataSource, 0, len(s.sources))
	for _, source := range s.sources {
		if tenantID != "" && source.TenantID != tenantID {
			continue
		}
		result = append(result, source)
	}
	return result, nil
}

// ListDue returns enabled sources with the given frequency whose
// LastSyncedAt is nil or before cutoff.
func (s *SourceStore) ListDue(_ context.Context, frequency domain.SyncFrequency, cutoff time.Time) ([]domain.DataSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.DataSource
	for _, source := range s.sources {
		if !source.Enabled || source.SyncFrequency != frequency {
			continue
		}
		if source.LastSyncedAt != nil && !source.LastSyncedAt.Before(cutoff) {
			continue
		}
		result = append(result, source)
	}
	return result, nil
}
