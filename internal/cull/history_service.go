package cull

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hay-kot/cull/internal/core/history"
	"github.com/rs/zerolog"
)

// HistoryService records culling session summaries. Counts only; the set
// of kept or deleted photos is never persisted.
type HistoryService struct {
	store history.Store
	log   zerolog.Logger
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(store history.Store, log zerolog.Logger) *HistoryService {
	return &HistoryService{store: store, log: log}
}

// Begin records the start of a new culling session and returns the record.
func (h *HistoryService) Begin(ctx context.Context, photosDir string, catalogSize int) (history.Record, error) {
	rec := history.Record{
		ID:          uuid.NewString(),
		PhotosDir:   photosDir,
		CatalogSize: catalogSize,
		StartedAt:   time.Now(),
	}
	if err := h.store.Save(ctx, rec); err != nil {
		return history.Record{}, fmt.Errorf("begin session: %w", err)
	}
	h.log.Debug().Str("session_id", rec.ID).Int("catalog_size", catalogSize).Msg("session started")
	return rec, nil
}

// Finish stamps the record with final counts and the finish time.
func (h *HistoryService) Finish(ctx context.Context, rec history.Record, kept, deleted int) error {
	now := time.Now()
	rec.Kept = kept
	rec.Deleted = deleted
	rec.FinishedAt = &now

	if err := h.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	h.log.Debug().
		Str("session_id", rec.ID).
		Int("kept", kept).
		Int("deleted", deleted).
		Msg("session finished")
	return nil
}

// List returns all recorded sessions, newest first.
func (h *HistoryService) List(ctx context.Context) ([]history.Record, error) {
	return h.store.List(ctx)
}
