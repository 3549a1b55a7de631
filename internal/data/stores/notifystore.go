package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hay-kot/cull/internal/core/notify"
	"github.com/hay-kot/cull/internal/data/db"
)

// maxStoredNotifications caps the persisted history. Save prunes the
// oldest rows beyond the cap.
const maxStoredNotifications = 200

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a new SQLite-backed notification store.
func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

// Save persists a notification and returns its auto-generated ID.
// Insert and prune run in a single transaction so the history never
// exceeds the retention cap.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) (int64, error) {
	var id int64

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO notifications (level, message, created_at) VALUES (?, ?, ?)",
			string(n.Level), n.Message, n.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert notification id: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM notifications WHERE id NOT IN (
				SELECT id FROM notifications ORDER BY created_at DESC, id DESC LIMIT ?
			)`, maxStoredNotifications)
		if err != nil {
			return fmt.Errorf("prune notifications: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// List returns all notifications ordered by newest first.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT id, level, message, created_at FROM notifications ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []notify.Notification{}
	for rows.Next() {
		var (
			n         notify.Notification
			level     string
			createdAt int64
		)
		if err := rows.Scan(&n.ID, &level, &n.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Level = notify.Level(level)
		n.CreatedAt = time.Unix(0, createdAt)
		result = append(result, n)
	}

	return result, rows.Err()
}

// Clear deletes all notifications.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the total number of notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
