package cull

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrashService_PermanentModeRefuses(t *testing.T) {
	cfg := testConfig(t, "permanent")
	svc := NewTrashService(cfg, zerolog.New(io.Discard))

	_, err := svc.List()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permanent")
}

func TestTrashService_ListRestoreEmpty(t *testing.T) {
	cfg := testConfig(t, "trash")
	path := writePhoto(t, cfg.Photos.Dir, "photo.jpg")

	catSvc := NewCatalogService(cfg, zerolog.New(io.Discard))
	require.NoError(t, catSvc.Delete(context.Background(), []string{path}))

	svc := NewTrashService(cfg, zerolog.New(io.Discard))

	entries, err := svc.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].Original)

	restored, err := svc.Restore([]string{entries[0].Name})
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.FileExists(t, path)

	entries, err = svc.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTrashService_EmptyRemovesAll(t *testing.T) {
	cfg := testConfig(t, "trash")
	a := writePhoto(t, cfg.Photos.Dir, "a.jpg")
	b := writePhoto(t, cfg.Photos.Dir, "b.jpg")

	catSvc := NewCatalogService(cfg, zerolog.New(io.Discard))
	require.NoError(t, catSvc.Delete(context.Background(), []string{a, b}))

	svc := NewTrashService(cfg, zerolog.New(io.Discard))

	removed, err := svc.Empty(0)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTrashService_EmptyKeepsRecent(t *testing.T) {
	cfg := testConfig(t, "trash")
	path := writePhoto(t, cfg.Photos.Dir, "recent.jpg")

	catSvc := NewCatalogService(cfg, zerolog.New(io.Discard))
	require.NoError(t, catSvc.Delete(context.Background(), []string{path}))

	svc := NewTrashService(cfg, zerolog.New(io.Discard))

	// Only entries older than an hour qualify; the fresh one stays.
	removed, err := svc.Empty(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	entries, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTrashService_RestoreUnknownName(t *testing.T) {
	cfg := testConfig(t, "trash")
	svc := NewTrashService(cfg, zerolog.New(io.Discard))

	_, err := svc.Restore([]string{"no-such-entry"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trash entry")
}
