package triage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/cull/internal/core/catalog"
)

// Deleter runs batch deletions against a catalog source. It is the physical
// half of batch deletion; Session.BeginDeletion and Session.FinishDeletion
// own the triage-side bookkeeping around each call.
type Deleter struct {
	source catalog.Source
}

// NewDeleter creates a deleter bound to a catalog source.
func NewDeleter(source catalog.Source) *Deleter {
	return &Deleter{source: source}
}

// Execute physically deletes the given photos. An empty batch succeeds
// without touching the source. Cancellation surfaces as an ordinary
// failure; the caller rolls marks back the same way for both.
func (d *Deleter) Execute(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	log.Debug().Int("count", len(ids)).Msg("executing batch deletion")
	if err := d.source.Delete(ctx, ids); err != nil {
		return fmt.Errorf("delete %d photos: %w", len(ids), err)
	}
	return nil
}
