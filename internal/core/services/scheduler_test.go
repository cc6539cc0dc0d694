package services

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objecta-labs/knowsync/internal/adapters/driven/storage/memory"
	"github.com/objecta-labs/knowsync/internal/core/domain"
)

// schedulerMockOrchestrator records which sources were synced.
type schedulerMockOrchestrator struct {
	mu      stdsync.Mutex
	synced  []string
	failIDs map[string]bool
}

func (m *schedulerMockOrchestrator) SyncSource(_ context.Context, _, sourceID string) (*domain.SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synced = append(m.synced, sourceID)
	if m.failIDs[sourceID] {
		return nil, errors.New("sync failed")
	}
	return &domain.SyncResult{SourceID: sourceID, Success: true}, nil
}

func (m *schedulerMockOrchestrator) SyncAll(_ context.Context, _ string) (map[string]*domain.SyncResult, error) {
	return nil, nil
}

func (m *schedulerMockOrchestrator) TestConnection(_ context.Context, _ domain.SourceType, _ domain.Credentials, _ domain.SourceConfig) bool {
	return true
}

func (m *schedulerMockOrchestrator) syncedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.synced...)
}

func scheduledSource(id string, frequency domain.SyncFrequency, lastSynced *time.Time) domain.DataSource {
	return domain.DataSource{
		ID:            id,
		TenantID:      "tenant-1",
		Name:          id,
		Type:          "mock",
		SyncFrequency: frequency,
		LastSyncedAt:  lastSynced,
		Status:        domain.StatusActive,
		Enabled:       true,
	}
}

func TestNewScheduler(t *testing.T) {
	s := NewScheduler(memory.NewSourceStore(), &schedulerMockOrchestrator{})
	require.NotNil(t, s)
	assert.NotNil(t, s.now)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(memory.NewSourceStore(), &schedulerMockOrchestrator{})

	done := make(chan error, 1)
	go func() {
		done <- s.Start(context.Background())
	}()

	// Give the loop a moment to start, then stop it.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_StartContextCancel(t *testing.T) {
	s := NewScheduler(memory.NewSourceStore(), &schedulerMockOrchestrator{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler(memory.NewSourceStore(), &schedulerMockOrchestrator{})
	assert.NoError(t, s.Stop())
}

func TestScheduler_SyncByFrequency_SelectsDueSources(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sourceStore := memory.NewSourceStore()

	neverSynced := scheduledSource("hourly-never", domain.FrequencyHourly, nil)
	staleTime := now.Add(-90 * time.Minute)
	stale := scheduledSource("hourly-stale", domain.FrequencyHourly, &staleTime)
	freshTime := now.Add(-10 * time.Minute)
	fresh := scheduledSource("hourly-fresh", domain.FrequencyHourly, &freshTime)
	manual := scheduledSource("manual-1", domain.FrequencyManual, nil)
	disabled := scheduledSource("hourly-disabled", domain.FrequencyHourly, nil)
	disabled.Enabled = false

	for _, source := range []domain.DataSource{neverSynced, stale, fresh, manual, disabled} {
		require.NoError(t, sourceStore.Save(ctx, source))
	}

	orch := &schedulerMockOrchestrator{}
	s := NewScheduler(sourceStore, orch)
	s.now = func() time.Time { return now }

	s.syncByFrequency(ctx, domain.FrequencyHourly)

	synced := orch.syncedIDs()
	assert.ElementsMatch(t, []string{"hourly-never", "hourly-stale"}, synced)
}

func TestScheduler_SyncByFrequency_WeeklyCutoff(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sourceStore := memory.NewSourceStore()

	sixDays := now.Add(-6 * 24 * time.Hour)
	eightDays := now.Add(-8 * 24 * time.Hour)
	recent := scheduledSource("weekly-recent", domain.FrequencyWeekly, &sixDays)
	overdue := scheduledSource("weekly-overdue", domain.FrequencyWeekly, &eightDays)
	require.NoError(t, sourceStore.Save(ctx, recent))
	require.NoError(t, sourceStore.Save(ctx, overdue))

	orch := &schedulerMockOrchestrator{}
	s := NewScheduler(sourceStore, orch)
	s.now = func() time.Time { return now }

	s.syncByFrequency(ctx, domain.FrequencyWeekly)

	assert.Equal(t, []string{"weekly-overdue"}, orch.syncedIDs())
}

func TestScheduler_SyncByFrequency_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	sourceStore := memory.NewSourceStore()
	require.NoError(t, sourceStore.Save(ctx, scheduledSource("daily-1", domain.FrequencyDaily, nil)))
	require.NoError(t, sourceStore.Save(ctx, scheduledSource("daily-2", domain.FrequencyDaily, nil)))

	orch := &schedulerMockOrchestrator{failIDs: map[string]bool{"daily-1": true}}
	s := NewScheduler(sourceStore, orch)

	s.syncByFrequency(ctx, domain.FrequencyDaily)

	// The failing source must not prevent the second from syncing.
	assert.Len(t, orch.syncedIDs(), 2)
}

func TestScheduler_UntilNextMidnight(t *testing.T) {
	s := NewScheduler(memory.NewSourceStore(), &schedulerMockOrchestrator{})
	s.now = func() time.Time {
		return time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)
	}

	assert.Equal(t, 90*time.Minute, s.untilNextMidnight())
}
