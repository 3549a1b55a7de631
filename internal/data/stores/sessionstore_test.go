package stores

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hay-kot/cull/internal/core/history"
	"github.com/hay-kot/cull/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *SessionStore {
		t.Helper()
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		t.Cleanup(func() { _ = database.Close() })
		return NewSessionStore(database)
	}

	t.Run("save and get", func(t *testing.T) {
		store := newStore(t)

		started := time.Now().Add(-time.Minute)
		err := store.Save(ctx, history.Record{
			ID:          "sess-1",
			PhotosDir:   "/photos/inbox",
			CatalogSize: 40,
			StartedAt:   started,
		})
		require.NoError(t, err)

		got, err := store.Get(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", got.ID)
		assert.Equal(t, "/photos/inbox", got.PhotosDir)
		assert.Equal(t, 40, got.CatalogSize)
		assert.Zero(t, got.Kept)
		assert.Zero(t, got.Deleted)
		assert.Nil(t, got.FinishedAt)
		assert.Equal(t, started.UnixNano(), got.StartedAt.UnixNano())
	})

	t.Run("upsert updates counts and finish time", func(t *testing.T) {
		store := newStore(t)

		started := time.Now().Add(-time.Minute)
		rec := history.Record{
			ID:          "sess-2",
			PhotosDir:   "/photos/inbox",
			CatalogSize: 10,
			StartedAt:   started,
		}
		require.NoError(t, store.Save(ctx, rec))

		finished := time.Now()
		rec.Kept = 7
		rec.Deleted = 3
		rec.FinishedAt = &finished
		require.NoError(t, store.Save(ctx, rec))

		got, err := store.Get(ctx, "sess-2")
		require.NoError(t, err)
		assert.Equal(t, 7, got.Kept)
		assert.Equal(t, 3, got.Deleted)
		require.NotNil(t, got.FinishedAt)
		assert.Equal(t, finished.UnixNano(), got.FinishedAt.UnixNano())
		assert.Equal(t, started.UnixNano(), got.StartedAt.UnixNano())

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("list returns newest first", func(t *testing.T) {
		store := newStore(t)

		base := time.Now()
		for i, id := range []string{"old", "mid", "new"} {
			require.NoError(t, store.Save(ctx, history.Record{
				ID:        id,
				PhotosDir: "/photos",
				StartedAt: base.Add(time.Duration(i) * time.Hour),
			}))
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "new", items[0].ID)
		assert.Equal(t, "mid", items[1].ID)
		assert.Equal(t, "old", items[2].ID)
	})

	t.Run("get missing wraps sql.ErrNoRows", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("empty list", func(t *testing.T) {
		store := newStore(t)

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
