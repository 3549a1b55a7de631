package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hay-kot/cull/pkg/randid"
)

const manifestName = "manifest.json"

// TrashEntry records one photo moved into the trash directory.
type TrashEntry struct {
	Original  string    `json:"original"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	DeletedAt time.Time `json:"deleted_at"`
}

// Trash manages a trash directory and its manifest. Photos deleted in trash
// mode are moved here instead of being removed, so they can be listed,
// restored, or purged later.
type Trash struct {
	dir     string
	entries []TrashEntry
}

// OpenTrash creates the trash directory if needed and loads its manifest.
func OpenTrash(dir string) (*Trash, error) {
	if dir == "" {
		return nil, fmt.Errorf("trash directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trash dir: %w", err)
	}

	t := &Trash{dir: dir}

	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read trash manifest: %w", err)
	}
	if err := json.Unmarshal(data, &t.entries); err != nil {
		return nil, fmt.Errorf("parse trash manifest: %w", err)
	}
	return t, nil
}

// Dir returns the trash directory path.
func (t *Trash) Dir() string {
	return t.dir
}

// Entries returns a copy of the manifest, newest deletions first.
func (t *Trash) Entries() []TrashEntry {
	out := make([]TrashEntry, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeletedAt.After(out[j].DeletedAt)
	})
	return out
}

// Add moves the file at path into the trash directory under a
// collision-proof name and appends a manifest entry in memory. Call Save to
// persist the manifest.
func (t *Trash) Add(path string) (TrashEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return TrashEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}

	name := fmt.Sprintf("%s_%s", randid.Generate(8), filepath.Base(path))
	if err := os.Rename(path, filepath.Join(t.dir, name)); err != nil {
		return TrashEntry{}, fmt.Errorf("move %s to trash: %w", path, err)
	}

	entry := TrashEntry{
		Original:  path,
		Name:      name,
		Size:      info.Size(),
		DeletedAt: time.Now(),
	}
	t.entries = append(t.entries, entry)
	return entry, nil
}

// Restore moves a trashed file back to its original path and drops its
// manifest entry. Fails when the original path is occupied again.
func (t *Trash) Restore(name string) (string, error) {
	idx := -1
	for i, e := range t.entries {
		if e.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", fmt.Errorf("no trash entry named %q", name)
	}

	entry := t.entries[idx]
	if _, err := os.Stat(entry.Original); err == nil {
		return "", fmt.Errorf("restore %s: original path already exists", name)
	}

	if err := os.MkdirAll(filepath.Dir(entry.Original), 0o755); err != nil {
		return "", fmt.Errorf("restore %s: %w", name, err)
	}
	if err := os.Rename(filepath.Join(t.dir, name), entry.Original); err != nil {
		return "", fmt.Errorf("restore %s: %w", name, err)
	}

	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	if err := t.Save(); err != nil {
		return "", err
	}
	return entry.Original, nil
}

// Empty removes trashed files older than the given age (zero means all) and
// their manifest entries. Returns the number of files removed.
func (t *Trash) Empty(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	kept := t.entries[:0]
	removed := 0
	var firstErr error
	for _, e := range t.entries {
		if olderThan > 0 && e.DeletedAt.After(cutoff) {
			kept = append(kept, e)
			continue
		}
		err := os.Remove(filepath.Join(t.dir, e.Name))
		if err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = err
			}
			kept = append(kept, e)
			continue
		}
		removed++
	}
	t.entries = kept

	if err := t.Save(); err != nil {
		return removed, err
	}
	return removed, firstErr
}

// Save writes the manifest atomically.
func (t *Trash) Save() error {
	data, err := json.MarshalIndent(t.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode trash manifest: %w", err)
	}

	target := filepath.Join(t.dir, manifestName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write trash manifest: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("write trash manifest: %w", err)
	}
	return nil
}

// unmove renames the given entries back to their originals and drops them
// from the manifest. Used to roll back a partially applied batch.
func (t *Trash) unmove(entries []TrashEntry) error {
	var firstErr error
	for _, e := range entries {
		if err := os.Rename(filepath.Join(t.dir, e.Name), e.Original); err != nil && firstErr == nil {
			firstErr = err
		}
		for i := len(t.entries) - 1; i >= 0; i-- {
			if t.entries[i].Name == e.Name {
				t.entries = append(t.entries[:i], t.entries[i+1:]...)
				break
			}
		}
	}
	return firstErr
}
