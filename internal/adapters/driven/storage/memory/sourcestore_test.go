package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

func TestSourceStore_SaveAndGet(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	source := domain.DataSource{
		ID:       "src-1",
		TenantID: "tenant-1",
		Name:     "Test",
		Type:     domain.SourceTypeGitHub,
		Enabled:  true,
	}
	require.NoError(t, store.Save(ctx, source))

	got, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Name)
	assert.Equal(t, domain.SourceTypeGitHub, got.Type)
}

func TestSourceStore_Get_NotFound(t *testing.T) {
	store := NewSourceStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_Save_Overwrites(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	source := domain.DataSource{ID: "src-1", Name: "Before"}
	require.NoError(t, store.Save(ctx, source))

	source.Name = "After"
	require.NoError(t, store.Save(ctx, source))

	got, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
}

func TestSourceStore_Delete(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.DataSource{ID: "src-1"}))
	require.NoError(t, store.Delete(ctx, "src-1"))

	_, err := store.Get(ctx, "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_List_FiltersByTenant(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.DataSource{ID: "a", TenantID: "tenant-1"}))
	require.NoError(t, store.Save(ctx, domain.DataSource{ID: "b", TenantID: "tenant-1"}))
	require.NoError(t, store.Save(ctx, domain.DataSource{ID: "c", TenantID: "tenant-2"}))

	tenant1, err := store.List(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Len(t, tenant1, 2)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSourceStore_ListDue(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-time.Hour)

	stale := now.Add(-2 * time.Hour)
	fresh := now.Add(-30 * time.Minute)

	require.NoError(t, store.Save(ctx, domain.DataSource{
		ID: "due-never", Enabled: true, SyncFrequency: domain.FrequencyHourly,
	}))
	require.NoError(t, store.Save(ctx, domain.DataSource{
		ID: "due-stale", Enabled: true, SyncFrequency: domain.FrequencyHourly, LastSyncedAt: &stale,
	}))
	require.NoError(t, store.Save(ctx, domain.DataSource{
		ID: "not-due-fresh", Enabled: true, SyncFrequency: domain.FrequencyHourly, LastSyncedAt: &fresh,
	}))
	require.NoError(t, store.Save(ctx, domain.DataSource{
		ID: "not-due-disabled", Enabled: false, SyncFrequency: domain.FrequencyHourly,
	}))
	require.NoError(t, store.Save(ctx, domain.DataSource{
		ID: "not-due-daily", Enabled: true, SyncFrequency: domain.FrequencyDaily,
	}))

	due, err := store.ListDue(ctx, domain.FrequencyHourly, cutoff)
	require.NoError(t, err)

	ids := make([]string, len(due))
	for i, source := range due {
		ids[i] = source.ID
	}
	assert.ElementsMatch(t, []string{"due-never", "due-stale"}, ids)
}
