// Package history defines culling session history types and interfaces.
package history

import (
	"context"
	"time"
)

// Record summarizes one culling session. It carries counts only; which
// photos were kept or deleted is never persisted.
type Record struct {
	ID          string     `json:"id"`
	PhotosDir   string     `json:"photos_dir"`
	CatalogSize int        `json:"catalog_size"`
	Kept        int        `json:"kept"`
	Deleted     int        `json:"deleted"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Duration returns how long the session ran, or zero if it never finished.
func (r *Record) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Reviewed returns the number of photos decided during the session.
func (r *Record) Reviewed() int {
	return r.Kept + r.Deleted
}

// Store persists session records.
type Store interface {
	// Save inserts or updates a record by ID.
	Save(ctx context.Context, rec Record) error
	// List returns all records, newest first.
	List(ctx context.Context) ([]Record, error)
	// Get returns a record by ID.
	Get(ctx context.Context, id string) (Record, error)
}
