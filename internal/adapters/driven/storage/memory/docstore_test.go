package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := domain.Document{
		ID:         "doc-1",
		SourceID:   "src-1",
		ExternalID: "ext-1",
		Title:      "Readme",
	}
	require.NoError(t, store.SaveDocument(ctx, &doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Readme", got.Title)

	byExt, err := store.GetByExternalID(ctx, "src-1", "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", byExt.ID)
}

func TestDocumentStore_Get_NotFound(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetByExternalID(ctx, "src-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Save_ReplacesByExternalID(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	first := domain.Document{ID: "doc-1", SourceID: "src-1", ExternalID: "ext-1"}
	require.NoError(t, store.SaveDocument(ctx, &first))

	// Same external identity under a new local ID replaces the old row.
	second := domain.Document{ID: "doc-2", SourceID: "src-1", ExternalID: "ext-1"}
	require.NoError(t, store.SaveDocument(ctx, &second))

	docs, err := store.ListBySource(ctx, "src-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-2", docs[0].ID)

	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListBySource(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "a", SourceID: "src-1", ExternalID: "e1"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "b", SourceID: "src-1", ExternalID: "e2"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "c", SourceID: "src-2", ExternalID: "e3"}))

	docs, err := store.ListBySource(ctx, "src-1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentStore_DeleteDocument_RemovesChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", SourceID: "src-1", ExternalID: "e1"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", Position: 0},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_Chunks_OrderedAndReplaced(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c2", DocumentID: "doc-1", Position: 1},
		{ID: "c1", DocumentID: "doc-1", Position: 0},
	}))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "c1", chunks[0].ID)
	assert.Equal(t, "c2", chunks[1].ID)

	// Saving again replaces the whole set.
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c3", DocumentID: "doc-1", Position: 0},
	}))

	chunks, err = store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c3", chunks[0].ID)
}

func TestDocumentStore_DeleteChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", Position: 0},
	}))
	require.NoError(t, store.DeleteChunks(ctx, "doc-1"))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
