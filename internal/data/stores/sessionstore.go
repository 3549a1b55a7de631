package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hay-kot/cull/internal/core/history"
	"github.com/hay-kot/cull/internal/data/db"
)

// SessionStore implements history.Store using SQLite.
type SessionStore struct {
	db *db.DB
}

var _ history.Store = (*SessionStore)(nil)

// NewSessionStore creates a new SQLite-backed session store.
func NewSessionStore(db *db.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save inserts or updates a session record by ID.
func (s *SessionStore) Save(ctx context.Context, rec history.Record) error {
	var finishedAt sql.NullInt64
	if rec.FinishedAt != nil {
		finishedAt = sql.NullInt64{Int64: rec.FinishedAt.UnixNano(), Valid: true}
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO sessions (id, photos_dir, catalog_size, kept, deleted, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			photos_dir   = excluded.photos_dir,
			catalog_size = excluded.catalog_size,
			kept         = excluded.kept,
			deleted      = excluded.deleted,
			finished_at  = excluded.finished_at`,
		rec.ID, rec.PhotosDir, rec.CatalogSize, rec.Kept, rec.Deleted,
		rec.StartedAt.UnixNano(), finishedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// List returns all session records, newest first.
func (s *SessionStore) List(ctx context.Context) ([]history.Record, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, photos_dir, catalog_size, kept, deleted, started_at, finished_at
		FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []history.Record
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		result = append(result, rec)
	}

	return result, rows.Err()
}

// Get returns a session record by ID.
// Returns an error wrapping sql.ErrNoRows if the record does not exist.
func (s *SessionStore) Get(ctx context.Context, id string) (history.Record, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, photos_dir, catalog_size, kept, deleted, started_at, finished_at
		FROM sessions WHERE id = ?`, id)

	rec, err := scanSession(row)
	if err != nil {
		return history.Record{}, fmt.Errorf("get session %q: %w", id, err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (history.Record, error) {
	var (
		rec        history.Record
		startedAt  int64
		finishedAt sql.NullInt64
	)
	err := row.Scan(&rec.ID, &rec.PhotosDir, &rec.CatalogSize, &rec.Kept, &rec.Deleted, &startedAt, &finishedAt)
	if err != nil {
		return history.Record{}, err
	}

	rec.StartedAt = time.Unix(0, startedAt)
	if finishedAt.Valid {
		t := time.Unix(0, finishedAt.Int64)
		rec.FinishedAt = &t
	}

	return rec, nil
}
