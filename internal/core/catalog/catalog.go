// Package catalog defines photo domain types and the source interface.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Photo is a single candidate photo in the catalog. Immutable once listed;
// the catalog is the sole source of truth for existence and ordering.
type Photo struct {
	ID      string    `json:"id"`
	Path    string    `json:"path"`
	TakenAt time.Time `json:"taken_at"`
	Size    int64     `json:"size"`
	Width   int       `json:"width,omitempty"`
	Height  int       `json:"height,omitempty"`
}

// Source supplies the full ordered list of candidate photos and performs
// physical deletion. A source owns no triage state.
//
// List returns photos sorted newest-first. Delete is batch-scoped: it either
// succeeds for the whole id set or reports a single *DeleteError.
type Source interface {
	List(ctx context.Context) ([]Photo, error)
	Delete(ctx context.Context, ids []string) error
}

// Sentinel kinds for catalog listing failures.
var (
	// ErrAccessDenied means the photo directory cannot be read at all.
	// Fatal to the session until access is restored.
	ErrAccessDenied = errors.New("catalog access denied")

	// ErrUnavailable means a transient listing failure. Retrying List may
	// succeed without any user action.
	ErrUnavailable = errors.New("catalog unavailable")
)

// IsAccessDenied reports whether err is an access-denied listing failure.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsUnavailable reports whether err is a transient listing failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// DeleteError reports a failed or cancelled batch deletion. The batch is
// all-or-nothing from the caller's perspective: when Restored is true the
// source rolled the filesystem back to its pre-call state.
type DeleteError struct {
	Failed   []string // ids that could not be deleted
	Restored bool     // already-deleted ids were put back
	Err      error
}

func (e *DeleteError) Error() string {
	if len(e.Failed) == 0 {
		return fmt.Sprintf("batch delete failed: %v", e.Err)
	}
	return fmt.Sprintf("batch delete failed for %d of batch: %v", len(e.Failed), e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}
