package triage

import (
	"github.com/hay-kot/cull/internal/core/catalog"
)

// Phase is the review session lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReviewing
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReviewing:
		return "reviewing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Effect tells the session host what follow-up a transition demands.
// Mutating methods return an effect instead of calling outward, so the host
// stays in control of when blocking work runs.
type Effect int

const (
	EffectNone Effect = iota

	// EffectBatchDelete is returned exactly once per entry into Finished
	// with pending marks, and again when a completed batch leaves
	// mid-flight marks behind. The host should snapshot the marked set via
	// BeginDeletion and run the physical deletion.
	EffectBatchDelete
)

// Session owns one review pass over a photo catalog: the triage store, the
// derived active queue, and the cursor. All mutations are synchronous; the
// queue is re-projected after every one, so it always equals the catalog
// minus the three triage sets.
type Session struct {
	store   *Store
	catalog []catalog.Photo
	queue   []catalog.Photo
	cursor  int
	phase   Phase

	deleting       bool
	restartPending bool
}

// NewSession creates a session in the Loading phase with an empty store.
func NewSession() *Session {
	return &Session{store: NewStore()}
}

// SetCatalog replaces the catalog wholesale and re-projects the queue.
// The first catalog moves the session out of Loading. A refresh that adds
// photos while Finished reopens review from the top.
func (s *Session) SetCatalog(photos []catalog.Photo) Effect {
	prevLen := len(s.catalog)
	wasLoading := s.phase == PhaseLoading
	s.catalog = photos
	s.refreshQueue()

	if wasLoading {
		if len(s.queue) == 0 {
			return s.enterFinished()
		}
		s.phase = PhaseReviewing
		s.cursor = 0
		return EffectNone
	}

	if s.phase == PhaseFinished {
		if len(photos) > prevLen && len(s.queue) > 0 {
			s.phase = PhaseReviewing
			s.cursor = 0
		}
		return EffectNone
	}

	return s.clampCursor()
}

// Keep records a keep decision for id. The decided photo leaves the queue;
// the cursor stays put, so it now points at the next photo.
func (s *Session) Keep(id string) (Effect, error) {
	if !s.inQueue(id) {
		return EffectNone, ErrNotInQueue
	}
	if err := s.store.Keep(id); err != nil {
		return EffectNone, err
	}
	s.refreshQueue()
	return s.clampCursor(), nil
}

// MarkForDeletion records a pending delete decision for id.
func (s *Session) MarkForDeletion(id string) (Effect, error) {
	if !s.inQueue(id) {
		return EffectNone, ErrNotInQueue
	}
	if err := s.store.MarkForDeletion(id); err != nil {
		return EffectNone, err
	}
	s.refreshQueue()
	return s.clampCursor(), nil
}

// Undo reverts the most recent decision and moves the cursor to the
// restored photo's queue position. Returns false when the undo slot is
// empty; a second consecutive call is a no-op.
func (s *Session) Undo() bool {
	id, ok := s.store.Undo()
	if !ok {
		return false
	}

	s.refreshQueue()
	s.cursor = 0
	for i, p := range s.queue {
		if p.ID == id {
			s.cursor = i
			break
		}
	}
	if len(s.queue) > 0 {
		s.phase = PhaseReviewing
	}
	return true
}

// ResetAll clears keep and mark decisions and restarts review from the top
// of the queue. Deleted photos stay gone.
func (s *Session) ResetAll() {
	s.store.ResetAll()
	s.refreshQueue()
	s.cursor = 0
	if len(s.queue) > 0 {
		s.phase = PhaseReviewing
	} else if s.phase != PhaseLoading {
		s.phase = PhaseFinished
	}
}

// Restart flushes pending marks through a batch deletion, then resets all
// decisions so kept photos re-enter review. With marks pending the reset is
// deferred until the batch succeeds; a failed batch aborts the restart and
// reopens review over the rolled-back queue instead.
func (s *Session) Restart() Effect {
	if s.deleting {
		s.restartPending = true
		return EffectNone
	}
	if s.store.Counts().Marked > 0 {
		s.restartPending = true
		return EffectBatchDelete
	}
	s.ResetAll()
	return EffectNone
}

// BeginDeletion snapshots the marked set and raises the in-flight guard.
// Returns ErrDeletionInFlight when a batch is already outstanding, and an
// empty snapshot when there is nothing to delete.
func (s *Session) BeginDeletion() ([]string, error) {
	if s.deleting {
		return nil, ErrDeletionInFlight
	}
	ids := s.store.MarkedIDs()
	if len(ids) == 0 {
		return nil, nil
	}
	s.deleting = true
	return ids, nil
}

// FinishDeletion lowers the in-flight guard and reconciles the store with
// the physical outcome. On failure every pending mark rolls back and review
// reopens over the restored queue. On success the confirmed batch moves to
// deleted; marks that arrived mid-flight request another batch.
func (s *Session) FinishDeletion(confirmed []string, err error) Effect {
	s.deleting = false

	if err != nil {
		s.restartPending = false
		wasFinished := s.phase == PhaseFinished
		s.store.RollbackMarks()
		s.refreshQueue()
		if len(s.queue) > 0 {
			s.phase = PhaseReviewing
			if wasFinished || s.cursor >= len(s.queue) {
				s.cursor = 0
			}
		}
		return EffectNone
	}

	s.store.ReconcileAfterDeletion(confirmed)
	s.refreshQueue()

	if s.restartPending {
		s.restartPending = false
		s.ResetAll()
		return EffectNone
	}

	if s.phase == PhaseFinished && s.store.Counts().Marked > 0 {
		return EffectBatchDelete
	}
	return EffectNone
}

// Current returns the photo under the cursor.
func (s *Session) Current() (catalog.Photo, bool) {
	if s.phase != PhaseReviewing || s.cursor >= len(s.queue) {
		return catalog.Photo{}, false
	}
	return s.queue[s.cursor], true
}

// Phase returns the session lifecycle state.
func (s *Session) Phase() Phase {
	return s.phase
}

// Deleting reports whether a batch deletion is in flight.
func (s *Session) Deleting() bool {
	return s.deleting
}

// Cursor returns the active queue index under review.
func (s *Session) Cursor() int {
	return s.cursor
}

// Queue returns the current active queue projection.
func (s *Session) Queue() []catalog.Photo {
	return s.queue
}

// Catalog returns the full catalog, newest first.
func (s *Session) Catalog() []catalog.Photo {
	return s.catalog
}

// Counts returns the store partition sizes.
func (s *Session) Counts() Counts {
	return s.store.Counts()
}

// CanUndo reports whether the undo slot is occupied.
func (s *Session) CanUndo() bool {
	_, ok := s.store.LastAction()
	return ok
}

// LastAction returns the undo slot contents, if any.
func (s *Session) LastAction() (LastAction, bool) {
	return s.store.LastAction()
}

// IsMarked reports whether id has a pending delete decision.
func (s *Session) IsMarked(id string) bool {
	return s.store.IsMarked(id)
}

// IsKept reports whether id was kept.
func (s *Session) IsKept(id string) bool {
	return s.store.IsKept(id)
}

func (s *Session) inQueue(id string) bool {
	for _, p := range s.queue {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) refreshQueue() {
	s.queue = Project(s.catalog, s.store)
}

// clampCursor applies the bound rule after a recomputation: an index at or
// past the end of the queue means review is over.
func (s *Session) clampCursor() Effect {
	if s.cursor >= len(s.queue) {
		return s.enterFinished()
	}
	return EffectNone
}

// enterFinished transitions to Finished. The batch-delete effect fires only
// on an actual entry, never on re-evaluation while already Finished, and is
// suppressed while a batch is in flight.
func (s *Session) enterFinished() Effect {
	entered := s.phase != PhaseFinished
	s.phase = PhaseFinished
	s.cursor = 0

	if entered && !s.deleting && s.store.Counts().Marked > 0 {
		return EffectBatchDelete
	}
	return EffectNone
}
