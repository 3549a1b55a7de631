package tui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/hay-kot/cull/internal/core/catalog"
)

// photosChangedMsg is sent when the photo directory changes on disk.
// The model responds with a wholesale catalog reload.
type photosChangedMsg struct{}

// PhotoWatcher watches the photo directory so photos added or removed
// mid-session re-enter the catalog without a restart.
type PhotoWatcher struct {
	watcher     *fsnotify.Watcher
	photosDir   string
	trashDir    string
	debounceDur time.Duration
}

// NewPhotoWatcher creates a watcher over photosDir and its subdirectories.
// Events under trashDir are ignored so batch deletions into the trash do
// not feed back as catalog changes.
func NewPhotoWatcher(photosDir, trashDir string) (*PhotoWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &PhotoWatcher{
		watcher:     watcher,
		photosDir:   photosDir,
		trashDir:    trashDir,
		debounceDur: 100 * time.Millisecond,
	}

	if err := w.addRecursive(photosDir); err != nil {
		watcher.Close()
		return nil, err
	}

	return w, nil
}

// Start returns a command that blocks until the next settled batch of
// file events, then reports a single change.
func (w *PhotoWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				if w.shouldIgnore(event.Name) {
					continue
				}

				// New subdirectories need their own watch.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						w.addRecursive(event.Name)
					}
				}

				// Debounce: wait for changes to settle.
				time.Sleep(w.debounceDur)

				// Drain any additional events that arrived during debounce.
				drained := false
				for !drained {
					select {
					case <-w.watcher.Events:
					default:
						drained = true
					}
				}

				return photosChangedMsg{}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				// Ignore errors, continue watching.
			}
		}
	}
}

// addRecursive adds a directory and all its subdirectories to the watcher.
func (w *PhotoWatcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip directories we can't read
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != w.photosDir {
				return filepath.SkipDir
			}
			if w.underTrash(p) {
				return filepath.SkipDir
			}
			return w.watcher.Add(p)
		}
		return nil
	})
}

// shouldIgnore returns true if the event path cannot affect the catalog.
func (w *PhotoWatcher) shouldIgnore(path string) bool {
	if w.underTrash(path) {
		return true
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}

	for _, suffix := range []string{".tmp", ".part", ".swp", "~"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	// Directories arrive without an extension; let them through so new
	// subtrees get watched.
	if filepath.Ext(path) == "" {
		return false
	}

	return !catalog.HasImageExt(path)
}

func (w *PhotoWatcher) underTrash(path string) bool {
	if w.trashDir == "" {
		return false
	}
	rel, err := filepath.Rel(w.trashDir, path)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}

// Close stops the watcher.
func (w *PhotoWatcher) Close() error {
	return w.watcher.Close()
}
