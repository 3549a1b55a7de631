package triage

import "github.com/hay-kot/cull/internal/core/catalog"

// Project derives the active queue: the catalog filtered to photos not yet
// in any triage set, in catalog order. The queue is always recomputed in
// full from its inputs; it is never mutated independently, so it cannot
// drift from the store.
func Project(photos []catalog.Photo, store *Store) []catalog.Photo {
	out := make([]catalog.Photo, 0, len(photos))
	for _, p := range photos {
		if store.IsDecided(p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}
