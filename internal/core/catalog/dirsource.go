package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DeleteMode selects what Delete does with photo files.
type DeleteMode string

const (
	DeleteModeTrash     DeleteMode = "trash"
	DeleteModePermanent DeleteMode = "permanent"
)

// DirConfig configures a DirSource.
type DirConfig struct {
	Dir      string
	Include  []string
	Exclude  []string
	Mode     DeleteMode
	TrashDir string
}

// DirSource lists photos from a directory tree and deletes by moving files
// to a trash directory or removing them permanently.
type DirSource struct {
	dir      string
	include  []string
	exclude  []string
	mode     DeleteMode
	trashDir string
}

var _ Source = (*DirSource)(nil)

// NewDirSource creates a filesystem-backed photo source.
func NewDirSource(cfg DirConfig) *DirSource {
	return &DirSource{
		dir:      cfg.Dir,
		include:  cfg.Include,
		exclude:  cfg.Exclude,
		mode:     cfg.Mode,
		trashDir: cfg.TrashDir,
	}
}

// List scans the photo directory and returns all matching photos sorted
// newest-first by capture time. Permission failures on the root map to
// ErrAccessDenied; other root failures map to ErrUnavailable.
func (s *DirSource) List(ctx context.Context) ([]Photo, error) {
	info, err := os.Stat(s.dir)
	switch {
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("stat %s: %w", s.dir, ErrAccessDenied)
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("stat %s: %w", s.dir, ErrUnavailable)
	case err != nil:
		return nil, fmt.Errorf("stat %s: %v: %w", s.dir, err, ErrUnavailable)
	case !info.IsDir():
		return nil, fmt.Errorf("%s is not a directory: %w", s.dir, ErrUnavailable)
	}

	paths, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	photos := make([]Photo, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("list cancelled: %v: %w", err, ErrUnavailable)
		}

		fi, err := os.Stat(p)
		if err != nil {
			// File disappeared between scan and stat.
			continue
		}

		w, h := imageDims(p)
		photos = append(photos, Photo{
			ID:      p,
			Path:    p,
			TakenAt: takenAt(p, fi.ModTime()),
			Size:    fi.Size(),
			Width:   w,
			Height:  h,
		})
	}

	sort.SliceStable(photos, func(i, j int) bool {
		if !photos[i].TakenAt.Equal(photos[j].TakenAt) {
			return photos[i].TakenAt.After(photos[j].TakenAt)
		}
		return photos[i].Path < photos[j].Path
	})

	return photos, nil
}

func (s *DirSource) scan(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == s.dir {
				return err
			}
			// Unreadable subdirectory, skip its contents.
			return nil
		}

		if d.IsDir() {
			if path == s.dir {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			if s.trashDir != "" && path == s.trashDir {
				return fs.SkipDir
			}
			return nil
		}

		if !HasImageExt(path) {
			return nil
		}

		rel, relErr := filepath.Rel(s.dir, path)
		if relErr != nil {
			return nil
		}
		if !s.matches(filepath.ToSlash(rel)) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("scan %s: %w", s.dir, ErrAccessDenied)
		}
		return nil, fmt.Errorf("scan %s: %v: %w", s.dir, err, ErrUnavailable)
	}
	return paths, nil
}

// matches applies include then exclude doublestar patterns to a
// slash-separated path relative to the photo directory.
func (s *DirSource) matches(rel string) bool {
	if len(s.include) > 0 {
		ok := false
		for _, pat := range s.include {
			if m, err := doublestar.Match(pat, rel); err == nil && m {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	for _, pat := range s.exclude {
		if m, err := doublestar.Match(pat, rel); err == nil && m {
			return false
		}
	}
	return true
}

// Delete removes the given photos according to the configured mode. The
// batch either fully succeeds or reports a single *DeleteError; in trash
// mode a mid-batch failure rolls already-moved files back first.
func (s *DirSource) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		if !s.contains(id) {
			return &DeleteError{
				Failed: []string{id},
				Err:    fmt.Errorf("%s is outside the photo directory", id),
			}
		}
	}

	if s.mode == DeleteModePermanent {
		return s.deletePermanent(ctx, ids)
	}
	return s.deleteToTrash(ctx, ids)
}

func (s *DirSource) deleteToTrash(ctx context.Context, ids []string) error {
	trash, err := OpenTrash(s.trashDir)
	if err != nil {
		return &DeleteError{Failed: ids, Err: err}
	}

	moved := make([]TrashEntry, 0, len(ids))
	for i, id := range ids {
		if cerr := ctx.Err(); cerr != nil {
			restoreErr := trash.unmove(moved)
			return &DeleteError{
				Failed:   ids[i:],
				Restored: restoreErr == nil,
				Err:      cerr,
			}
		}

		entry, err := trash.Add(id)
		if err != nil {
			restoreErr := trash.unmove(moved)
			return &DeleteError{
				Failed:   ids[i:],
				Restored: restoreErr == nil,
				Err:      err,
			}
		}
		moved = append(moved, entry)
	}

	if err := trash.Save(); err != nil {
		restoreErr := trash.unmove(moved)
		return &DeleteError{
			Failed:   ids,
			Restored: restoreErr == nil,
			Err:      err,
		}
	}
	return nil
}

func (s *DirSource) deletePermanent(ctx context.Context, ids []string) error {
	var failed []string
	var firstErr error
	for i, id := range ids {
		if cerr := ctx.Err(); cerr != nil {
			failed = append(failed, ids[i:]...)
			if firstErr == nil {
				firstErr = cerr
			}
			break
		}

		err := os.Remove(id)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			failed = append(failed, id)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if len(failed) > 0 {
		return &DeleteError{Failed: failed, Err: firstErr}
	}
	return nil
}

// contains reports whether path sits inside the photo directory.
func (s *DirSource) contains(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Trash opens the source's trash directory. Only meaningful in trash mode.
func (s *DirSource) Trash() (*Trash, error) {
	return OpenTrash(s.trashDir)
}

// Mode returns the configured delete mode.
func (s *DirSource) Mode() DeleteMode {
	return s.mode
}
