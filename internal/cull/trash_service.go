package cull

import (
	"fmt"
	"time"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/config"
	"github.com/rs/zerolog"
)

// TrashService manages the trash directory outside of a culling session.
type TrashService struct {
	config *config.Config
	log    zerolog.Logger
}

// NewTrashService creates a new TrashService.
func NewTrashService(cfg *config.Config, log zerolog.Logger) *TrashService {
	return &TrashService{config: cfg, log: log}
}

// open loads the trash manifest. Fails in permanent delete mode, where no
// trash directory exists.
func (t *TrashService) open() (*catalog.Trash, error) {
	if t.config.DeleteMode() == catalog.DeleteModePermanent {
		return nil, fmt.Errorf("delete mode is permanent, no trash to manage")
	}
	return catalog.OpenTrash(t.config.Delete.TrashDir)
}

// List returns all trash entries, newest deletions first.
func (t *TrashService) List() ([]catalog.TrashEntry, error) {
	trash, err := t.open()
	if err != nil {
		return nil, err
	}
	return trash.Entries(), nil
}

// Restore moves trashed files back to their original paths. Returns the
// restored paths. Stops at the first failure.
func (t *TrashService) Restore(names []string) ([]string, error) {
	trash, err := t.open()
	if err != nil {
		return nil, err
	}

	restored := make([]string, 0, len(names))
	for _, name := range names {
		path, err := trash.Restore(name)
		if err != nil {
			return restored, err
		}
		t.log.Info().Str("name", name).Str("path", path).Msg("restored from trash")
		restored = append(restored, path)
	}
	return restored, nil
}

// Empty permanently removes trashed files older than the given age. A zero
// age removes everything. Returns the number of files removed.
func (t *TrashService) Empty(olderThan time.Duration) (int, error) {
	trash, err := t.open()
	if err != nil {
		return 0, err
	}

	removed, err := trash.Empty(olderThan)
	if removed > 0 {
		t.log.Info().Int("count", removed).Msg("emptied trash")
	}
	return removed, err
}
