package cli

import (
	"context"
	"errors"

	"github.com/objecta-labs/knowsync/internal/adapters/driven/storage/memory"
	"github.com/objecta-labs/knowsync/internal/connectors/github"
	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/services"
)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	result    *domain.SyncResult
	err       error
	testConn  bool
	syncedIDs []string
}

func (m *mockSyncOrchestrator) SyncSource(_ context.Context, _, sourceID string) (*domain.SyncResult, error) {
	m.syncedIDs = append(m.syncedIDs, sourceID)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.SyncResult{SourceID: sourceID, Success: true}, nil
}

func (m *mockSyncOrchestrator) SyncAll(ctx context.Context, tenantID string) (map[string]*domain.SyncResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	sources, err := sourceStore.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	results := make(map[string]*domain.SyncResult)
	for _, source := range sources {
		if !source.Enabled {
			continue
		}
		result, _ := m.SyncSource(ctx, tenantID, source.ID)
		results[source.ID] = result
	}
	return results, nil
}

func (m *mockSyncOrchestrator) TestConnection(_ context.Context, _ domain.SourceType, _ domain.Credentials, _ domain.SourceConfig) bool {
	return m.testConn
}

// errSyncFailed is used by tests that exercise the failure paths.
var errSyncFailed = errors.New("sync failed")

// setupCLITest swaps the package-level services for in-memory test
// doubles and returns a restore function.
func setupCLITest() func() {
	oldSourceStore := sourceStore
	oldDocStore := documentStore
	oldSyncLog := syncLogStore
	oldRegistry := connectorRegistry
	oldOrch := syncOrchestrator
	oldTenant := flagTenant

	sourceStore = memory.NewSourceStore()
	documentStore = memory.NewDocumentStore()
	syncLogStore = memory.NewSyncLogStore()
	connectorRegistry = services.NewConnectorRegistry(github.New())
	syncOrchestrator = &mockSyncOrchestrator{testConn: true}
	flagTenant = ""

	// Flag values persist across Execute calls; reset them so one
	// test's flags cannot leak into the next.
	flagSourceName = ""
	flagSourceType = ""
	flagSourceFreq = string(domain.FrequencyManual)
	flagCredentials = nil
	flagSettings = nil
	flagSyncDeletes = false
	flagMaxDocuments = 0
	flagHistoryLimit = 10

	return func() {
		sourceStore = oldSourceStore
		documentStore = oldDocStore
		syncLogStore = oldSyncLog
		connectorRegistry = oldRegistry
		syncOrchestrator = oldOrch
		flagTenant = oldTenant
	}
}
