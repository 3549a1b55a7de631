// Package sourcetest provides a scriptable catalog source for tests.
package sourcetest

import (
	"context"
	"sync"

	"github.com/hay-kot/cull/internal/core/catalog"
)

// Source is a catalog.Source double. List and Delete outcomes are scripted
// through the error fields; successful deletions remove photos so a
// follow-up List reflects physical reality.
type Source struct {
	mu sync.Mutex

	Photos    []catalog.Photo
	ListErr   error
	DeleteErr error

	// Batches records every id set passed to Delete, in call order.
	Batches [][]string
}

var _ catalog.Source = (*Source)(nil)

// New creates a source preloaded with photos for the given ids, in order.
func New(ids ...string) *Source {
	s := &Source{}
	for _, id := range ids {
		s.Photos = append(s.Photos, catalog.Photo{ID: id, Path: id})
	}
	return s
}

func (s *Source) List(_ context.Context) ([]catalog.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]catalog.Photo, len(s.Photos))
	copy(out, s.Photos)
	return out, nil
}

func (s *Source) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]string, len(ids))
	copy(batch, ids)
	s.Batches = append(s.Batches, batch)

	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.Photos[:0]
	for _, p := range s.Photos {
		if _, ok := drop[p.ID]; !ok {
			kept = append(kept, p)
		}
	}
	s.Photos = kept
	return nil
}

// CallCount returns how many Delete calls were made.
func (s *Source) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Batches)
}
