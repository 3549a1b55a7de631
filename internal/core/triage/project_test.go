package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/cull/internal/core/catalog"
)

func catalogOf(ids ...string) []catalog.Photo {
	out := make([]catalog.Photo, len(ids))
	for i, id := range ids {
		out[i] = catalog.Photo{ID: id, Path: id}
	}
	return out
}

func queueIDs(queue []catalog.Photo) []string {
	out := make([]string, len(queue))
	for i, p := range queue {
		out[i] = p.ID
	}
	return out
}

func TestProject(t *testing.T) {
	tests := []struct {
		name    string
		catalog []string
		setup   func(s *Store)
		want    []string
	}{
		{
			name:    "empty store passes catalog through",
			catalog: []string{"a", "b", "c"},
			setup:   func(_ *Store) {},
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "kept photos are excluded",
			catalog: []string{"a", "b", "c"},
			setup:   func(s *Store) { _ = s.Keep("b") },
			want:    []string{"a", "c"},
		},
		{
			name:    "all three sets are excluded",
			catalog: []string{"a", "b", "c", "d"},
			setup: func(s *Store) {
				_ = s.Keep("a")
				_ = s.MarkForDeletion("b")
				_ = s.MarkForDeletion("c")
				s.ReconcileAfterDeletion([]string{"c"})
			},
			want: []string{"d"},
		},
		{
			name:    "catalog order is preserved for survivors",
			catalog: []string{"e", "d", "c", "b", "a"},
			setup: func(s *Store) {
				_ = s.Keep("d")
				_ = s.MarkForDeletion("b")
			},
			want: []string{"e", "c", "a"},
		},
		{
			name:    "empty catalog projects empty",
			catalog: nil,
			setup:   func(s *Store) { _ = s.Keep("a") },
			want:    []string{},
		},
		{
			name:    "everything decided projects empty",
			catalog: []string{"a", "b"},
			setup: func(s *Store) {
				_ = s.Keep("a")
				_ = s.MarkForDeletion("b")
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			tt.setup(s)

			got := Project(catalogOf(tt.catalog...), s)
			assert.Equal(t, tt.want, queueIDs(got))
		})
	}
}

func TestProject_RecomputesFromScratch(t *testing.T) {
	s := NewStore()
	cat := catalogOf("a", "b", "c")

	first := Project(cat, s)
	require.Len(t, first, 3)

	require.NoError(t, s.Keep("a"))
	second := Project(cat, s)

	assert.Equal(t, []string{"a", "b", "c"}, queueIDs(first), "earlier projection must not change")
	assert.Equal(t, []string{"b", "c"}, queueIDs(second))
}
