// Package triage holds the photo triage state machine: the decision store,
// the active queue projection, the review session, and batch deletion.
package triage

import (
	"errors"
	"sort"
)

// Sentinel errors for triage transitions.
var (
	// ErrNotInQueue means a transition targeted a photo that is not in the
	// active queue, usually because it was already decided. This is a
	// caller bug, not a user-facing failure.
	ErrNotInQueue = errors.New("photo not in active queue")

	// ErrDeletionInFlight means a batch deletion was requested while one
	// is already outstanding.
	ErrDeletionInFlight = errors.New("batch deletion already in flight")
)

// ActionKind identifies the kind of the last undoable decision.
type ActionKind int

const (
	ActionKeep ActionKind = iota
	ActionDelete
)

func (k ActionKind) String() string {
	if k == ActionKeep {
		return "keep"
	}
	return "delete"
}

// LastAction is the single-slot undo record: the most recent decision that
// has not been undone. There is no deeper history.
type LastAction struct {
	Kind    ActionKind
	PhotoID string
}

// Counts summarizes the store partition for display.
type Counts struct {
	Kept    int
	Marked  int
	Deleted int
}

// Store partitions photo identifiers into three disjoint sets: kept, marked
// for deletion, and deleted. A photo is in at most one set; photos in no set
// are still awaiting review. Deleted only gains members after a confirmed
// physical deletion.
type Store struct {
	kept    map[string]struct{}
	marked  map[string]struct{}
	deleted map[string]struct{}
	last    *LastAction
}

// NewStore creates an empty triage store.
func NewStore() *Store {
	return &Store{
		kept:    make(map[string]struct{}),
		marked:  make(map[string]struct{}),
		deleted: make(map[string]struct{}),
	}
}

// Keep records a keep decision for id. Fails with ErrNotInQueue when the
// photo was already decided.
func (s *Store) Keep(id string) error {
	if s.IsDecided(id) {
		return ErrNotInQueue
	}
	s.kept[id] = struct{}{}
	s.last = &LastAction{Kind: ActionKeep, PhotoID: id}
	return nil
}

// MarkForDeletion records a pending delete decision for id. Fails with
// ErrNotInQueue when the photo was already decided.
func (s *Store) MarkForDeletion(id string) error {
	if s.IsDecided(id) {
		return ErrNotInQueue
	}
	s.marked[id] = struct{}{}
	s.last = &LastAction{Kind: ActionDelete, PhotoID: id}
	return nil
}

// Undo reverts the last decision and clears the undo slot. Returns the
// restored photo id, or false when there is nothing to undo. Calling Undo
// twice in a row only undoes once.
func (s *Store) Undo() (string, bool) {
	if s.last == nil {
		return "", false
	}

	id := s.last.PhotoID
	switch s.last.Kind {
	case ActionKeep:
		delete(s.kept, id)
	case ActionDelete:
		delete(s.marked, id)
	}
	s.last = nil
	return id, true
}

// ResetAll clears kept and marked decisions and the undo slot. Deleted is
// untouched: physically deleted photos never return.
func (s *Store) ResetAll() {
	clear(s.kept)
	clear(s.marked)
	s.last = nil
}

// ReconcileAfterDeletion moves every confirmed id into deleted, whatever
// set it currently occupies. Photos marked after the batch was snapshotted
// stay marked. The undo slot is dropped when it points at a confirmed id,
// so a deleted photo can never be resurrected by undo.
func (s *Store) ReconcileAfterDeletion(confirmed []string) {
	for _, id := range confirmed {
		delete(s.marked, id)
		delete(s.kept, id)
		s.deleted[id] = struct{}{}
		if s.last != nil && s.last.PhotoID == id {
			s.last = nil
		}
	}
}

// RollbackMarks clears the marked set without deleting anything, restoring
// those photos to the active queue as if never decided. Used when a batch
// deletion fails or is cancelled.
func (s *Store) RollbackMarks() {
	if s.last != nil && s.last.Kind == ActionDelete {
		if _, ok := s.marked[s.last.PhotoID]; ok {
			s.last = nil
		}
	}
	clear(s.marked)
}

// IsDecided reports whether id belongs to any of the three sets.
func (s *Store) IsDecided(id string) bool {
	if _, ok := s.kept[id]; ok {
		return true
	}
	if _, ok := s.marked[id]; ok {
		return true
	}
	_, ok := s.deleted[id]
	return ok
}

// IsDeleted reports whether id was physically deleted.
func (s *Store) IsDeleted(id string) bool {
	_, ok := s.deleted[id]
	return ok
}

// IsMarked reports whether id has a pending delete decision.
func (s *Store) IsMarked(id string) bool {
	_, ok := s.marked[id]
	return ok
}

// IsKept reports whether id was kept.
func (s *Store) IsKept(id string) bool {
	_, ok := s.kept[id]
	return ok
}

// MarkedIDs returns a sorted snapshot of the marked set.
func (s *Store) MarkedIDs() []string {
	ids := make([]string, 0, len(s.marked))
	for id := range s.marked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LastAction returns the undo slot contents, if any.
func (s *Store) LastAction() (LastAction, bool) {
	if s.last == nil {
		return LastAction{}, false
	}
	return *s.last, true
}

// Counts returns the partition sizes.
func (s *Store) Counts() Counts {
	return Counts{
		Kept:    len(s.kept),
		Marked:  len(s.marked),
		Deleted: len(s.deleted),
	}
}
