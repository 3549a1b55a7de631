package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/config"
	"github.com/hay-kot/cull/internal/core/notify"
	"github.com/hay-kot/cull/internal/core/triage"
	"github.com/hay-kot/cull/internal/cull"
	"github.com/hay-kot/cull/pkg/tuitest"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)

	dir := t.TempDir()
	cfg.Photos.Dir = dir
	cfg.Delete.TrashDir = filepath.Join(dir, ".cull-trash")

	m := NewModel(cfg, cull.NewApp(cfg, nil, nil, nil))
	m.width = 100
	m.height = 40

	// Tests drive reloads with explicit messages.
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}
	return m
}

func newTestModelWithKeybinding(t *testing.T, key string, kb config.Keybinding) Model {
	t.Helper()
	m := newTestModel(t)
	m.cfg.Keybindings[key] = kb
	m.handler = NewKeybindingHandler(m.cfg.Keybindings, m.cfg.Photos.Dir)
	return m
}

func testPhotos(n int) []catalog.Photo {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	out := make([]catalog.Photo, n)
	for i := range out {
		name := fmt.Sprintf("img-%02d.jpg", i)
		out[i] = catalog.Photo{
			ID:      name,
			Path:    "/photos/" + name,
			TakenAt: base.Add(time.Duration(i) * time.Minute),
			Size:    2048,
		}
	}
	return out
}

func updateModel(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm, cmd
}

func loadModel(t *testing.T, m Model, photos []catalog.Photo) Model {
	t.Helper()
	mm, _ := updateModel(t, m, catalogLoadedMsg{photos: photos})
	return mm
}

// fakeClock returns a now func that advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * step)
	}
}

func currentID(t *testing.T, m Model) string {
	t.Helper()
	photo, ok := m.session.Current()
	require.True(t, ok)
	return photo.ID
}

func TestModelCatalogLoadEntersReview(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, triage.PhaseLoading, m.session.Phase())

	m = loadModel(t, m, testPhotos(3))

	assert.Equal(t, triage.PhaseReviewing, m.session.Phase())
	assert.Equal(t, "img-00.jpg", currentID(t, m))
	assert.True(t, m.historyOnce)
}

func TestModelEmptyCatalogFinishes(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, nil)

	assert.Equal(t, triage.PhaseFinished, m.session.Phase())
	assert.False(t, m.session.Deleting())
}

func TestModelKeepAdvances(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(3))

	m, _ = updateModel(t, m, tuitest.KeyRight())
	assert.Equal(t, 1, m.session.Counts().Kept)
	assert.Equal(t, "img-01.jpg", currentID(t, m))

	m, _ = updateModel(t, m, tuitest.KeyPress('k'))
	assert.Equal(t, 2, m.session.Counts().Kept)
	assert.Equal(t, "img-02.jpg", currentID(t, m))
}

func TestModelMarkForDeletion(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(3))

	m, _ = updateModel(t, m, tuitest.KeyLeft())
	assert.Equal(t, 1, m.session.Counts().Marked)
	assert.Equal(t, "img-01.jpg", currentID(t, m))

	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	assert.Equal(t, 2, m.session.Counts().Marked)
	assert.Equal(t, "img-02.jpg", currentID(t, m))
}

func TestModelUndoRestoresDecision(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(3))

	m, _ = updateModel(t, m, tuitest.KeyRight())
	require.Equal(t, 1, m.session.Counts().Kept)

	m, _ = updateModel(t, m, tuitest.KeyPress('u'))
	assert.Equal(t, 0, m.session.Counts().Kept)
	assert.Equal(t, "img-00.jpg", currentID(t, m))
	assert.False(t, m.session.CanUndo())

	// Second undo is a no-op.
	m, _ = updateModel(t, m, tuitest.KeyPress('u'))
	assert.Equal(t, 0, m.session.Counts().Kept)
	assert.Equal(t, "img-00.jpg", currentID(t, m))
}

func TestModelFinishAutoStartsBatchDelete(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))

	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	m, cmd := updateModel(t, m, tuitest.KeyPress('d'))

	assert.Equal(t, triage.PhaseFinished, m.session.Phase())
	assert.True(t, m.session.Deleting())
	require.NotNil(t, cmd)

	ids := []string{"img-00.jpg", "img-01.jpg"}
	m, _ = updateModel(t, m, batchDeleteDoneMsg{ids: ids})

	assert.False(t, m.session.Deleting())
	assert.Equal(t, 2, m.session.Counts().Deleted)
	assert.Equal(t, triage.PhaseFinished, m.session.Phase())
	assert.True(t, m.toastController.HasToasts())
}

func TestModelBatchDeleteFailureReturnsMarks(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))

	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	require.True(t, m.session.Deleting())

	ids := []string{"img-00.jpg", "img-01.jpg"}
	delErr := &catalog.DeleteError{Failed: ids, Restored: true, Err: errors.New("permission denied")}
	m, _ = updateModel(t, m, batchDeleteDoneMsg{ids: ids, err: delErr})

	assert.False(t, m.session.Deleting())
	assert.Equal(t, triage.PhaseReviewing, m.session.Phase())
	assert.Equal(t, 0, m.session.Counts().Marked)
	assert.Equal(t, 0, m.session.Counts().Deleted)
	assert.Len(t, m.session.Queue(), 2)
	assert.Equal(t, "img-00.jpg", currentID(t, m))
	assert.True(t, m.toastController.HasToasts())
}

func TestModelMarksDuringDeletionChainNextBatch(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(3))

	// Mark one, then purge it immediately.
	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	m, _ = updateModel(t, m, tuitest.KeyPress('x'))
	require.Equal(t, stateConfirming, m.state)
	m, cmd := updateModel(t, m, tuitest.KeyPress('y'))
	require.NotNil(t, cmd)
	require.True(t, m.session.Deleting())

	// Marking while the batch runs is allowed.
	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	assert.Equal(t, 2, m.session.Counts().Marked)
	assert.Equal(t, "img-02.jpg", currentID(t, m))

	// A second batch is refused while one is in flight.
	m, _ = updateModel(t, m, tuitest.KeyPress('x'))
	m, cmd = updateModel(t, m, tuitest.KeyPress('y'))
	assert.Nil(t, cmd)
	assert.True(t, m.session.Deleting())

	// First batch lands. The mid-flight mark stays pending since review
	// is still open.
	m, _ = updateModel(t, m, batchDeleteDoneMsg{ids: []string{"img-00.jpg"}})
	assert.False(t, m.session.Deleting())
	assert.Equal(t, 1, m.session.Counts().Deleted)
	assert.Equal(t, 1, m.session.Counts().Marked)

	// Finishing review flushes the pending mark in a new batch.
	m, cmd = updateModel(t, m, tuitest.KeyRight())
	assert.Equal(t, triage.PhaseFinished, m.session.Phase())
	assert.True(t, m.session.Deleting())
	require.NotNil(t, cmd)

	m, _ = updateModel(t, m, batchDeleteDoneMsg{ids: []string{"img-01.jpg"}})
	assert.Equal(t, 2, m.session.Counts().Deleted)
	assert.Equal(t, 1, m.session.Counts().Kept)
	assert.False(t, m.session.Deleting())
}

func TestModelResetConfirmFlow(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))

	m, _ = updateModel(t, m, tuitest.KeyRight())
	require.Equal(t, 1, m.session.Counts().Kept)

	// Cancel via esc leaves decisions alone.
	m, _ = updateModel(t, m, tuitest.KeyPress('r'))
	assert.Equal(t, stateConfirming, m.state)
	assert.Equal(t, ActionTypeReset, m.pending.Type)
	m, _ = updateModel(t, m, tuitest.KeyEscape())
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, 1, m.session.Counts().Kept)

	// Toggling to Cancel and confirming also leaves decisions alone.
	m, _ = updateModel(t, m, tuitest.KeyPress('r'))
	m, _ = updateModel(t, m, tuitest.KeyPress('l'))
	m, _ = updateModel(t, m, tuitest.KeyEnter())
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, 1, m.session.Counts().Kept)

	// Enter on the default Confirm button resets.
	m, _ = updateModel(t, m, tuitest.KeyPress('r'))
	m, _ = updateModel(t, m, tuitest.KeyEnter())
	assert.Equal(t, 0, m.session.Counts().Kept)
	assert.Equal(t, triage.PhaseReviewing, m.session.Phase())
	assert.Equal(t, "img-00.jpg", currentID(t, m))
}

func TestModelRestartWithoutMarksResets(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))

	m, _ = updateModel(t, m, tuitest.KeyRight())
	m, _ = updateModel(t, m, tuitest.KeyPress('R'))
	require.Equal(t, stateConfirming, m.state)

	m, cmd := updateModel(t, m, tuitest.KeyPress('y'))
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.session.Counts().Kept)
	assert.Equal(t, triage.PhaseReviewing, m.session.Phase())
	assert.Equal(t, "img-00.jpg", currentID(t, m))
}

func TestModelRestartFlushesMarks(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))

	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	m, _ = updateModel(t, m, tuitest.KeyPress('R'))
	m, cmd := updateModel(t, m, tuitest.KeyPress('y'))
	require.NotNil(t, cmd)
	require.True(t, m.session.Deleting())

	m, _ = updateModel(t, m, batchDeleteDoneMsg{ids: []string{"img-00.jpg"}})

	assert.Equal(t, triage.PhaseReviewing, m.session.Phase())
	assert.Equal(t, 1, m.session.Counts().Deleted)
	assert.Equal(t, 0, m.session.Counts().Kept)
	assert.Equal(t, 0, m.session.Counts().Marked)
	assert.Equal(t, "img-01.jpg", currentID(t, m))
}

func TestModelRestartDuringDeletionDefers(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))

	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	require.True(t, m.session.Deleting())

	m, _ = updateModel(t, m, tuitest.KeyPress('R'))
	m, cmd := updateModel(t, m, tuitest.KeyPress('y'))
	assert.Nil(t, cmd)

	ids := []string{"img-00.jpg", "img-01.jpg"}
	m, _ = updateModel(t, m, batchDeleteDoneMsg{ids: ids})

	assert.False(t, m.session.Deleting())
	assert.Equal(t, 2, m.session.Counts().Deleted)
	assert.Equal(t, triage.PhaseFinished, m.session.Phase())
}

func TestModelQuitWithPendingMarksConfirms(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))

	m, _ = updateModel(t, m, tuitest.KeyPress('d'))
	m, cmd := updateModel(t, m, tuitest.KeyPress('q'))

	assert.Equal(t, stateConfirming, m.state)
	assert.False(t, m.quitting)
	assert.Nil(t, cmd)

	m, cmd = updateModel(t, m, tuitest.KeyPress('y'))
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}

func TestModelQuitCleanExitsDirectly(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(1))

	m, _ = updateModel(t, m, tuitest.KeyRight())
	m, cmd := updateModel(t, m, tuitest.KeyPress('q'))

	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}

func TestModelGuideOpensAndCloses(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(1))

	m, _ = updateModel(t, m, tuitest.KeyPress('?'))
	assert.Equal(t, stateGuide, m.state)
	require.NotNil(t, m.guideModal)

	m, _ = updateModel(t, m, tuitest.KeyPress('j'))
	m, _ = updateModel(t, m, tuitest.KeyEscape())
	assert.Equal(t, stateNormal, m.state)
	assert.Nil(t, m.guideModal)
}

func TestModelNotificationsModal(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(1))

	m, _ = updateModel(t, m, tuitest.KeyPress('n'))
	assert.Equal(t, stateNotifications, m.state)
	require.NotNil(t, m.notifyModal)

	// q closes the modal without quitting.
	m, _ = updateModel(t, m, tuitest.KeyPress('q'))
	assert.Equal(t, stateNormal, m.state)
	assert.Nil(t, m.notifyModal)
	assert.False(t, m.quitting)
}

func TestModelToastExpires(t *testing.T) {
	m := newTestModel(t)

	n := notify.Notification{Level: notify.LevelInfo, Message: "hello"}
	m, cmd := updateModel(t, m, notificationMsg{notification: n})
	assert.True(t, m.toastController.HasToasts())
	assert.NotNil(t, cmd)

	for range 50 {
		m, cmd = updateModel(t, m, toastTickMsg(time.Time{}))
	}
	assert.False(t, m.toastController.HasToasts())
	assert.Nil(t, cmd)
}

func TestModelEscDismissesToasts(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(1))

	n := notify.Notification{Level: notify.LevelInfo, Message: "hello"}
	m, _ = updateModel(t, m, notificationMsg{notification: n})
	require.True(t, m.toastController.HasToasts())

	m, _ = updateModel(t, m, tuitest.KeyEscape())
	assert.False(t, m.toastController.HasToasts())
	assert.Equal(t, stateNormal, m.state)
}

func TestModelMouseSwipeKeep(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))
	m.now = fakeClock(50 * time.Millisecond)

	m, _ = updateModel(t, m, tuitest.MousePress(50, 10))
	assert.True(t, m.dragging)

	m, _ = updateModel(t, m, tuitest.MouseDrag(58, 10))
	assert.Equal(t, 8, m.dragOffset)

	m, _ = updateModel(t, m, tuitest.MouseDrag(63, 10))
	m, _ = updateModel(t, m, tuitest.MouseRelease(66, 10))

	assert.False(t, m.dragging)
	assert.Equal(t, 0, m.dragOffset)
	assert.Equal(t, 1, m.session.Counts().Kept)
	assert.Equal(t, "img-01.jpg", currentID(t, m))
}

func TestModelMouseSwipeDelete(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))
	m.now = fakeClock(50 * time.Millisecond)

	m, _ = updateModel(t, m, tuitest.MousePress(50, 10))
	m, _ = updateModel(t, m, tuitest.MouseDrag(42, 10))
	m, _ = updateModel(t, m, tuitest.MouseDrag(37, 10))
	m, _ = updateModel(t, m, tuitest.MouseRelease(34, 10))

	assert.Equal(t, 1, m.session.Counts().Marked)
	assert.Equal(t, "img-01.jpg", currentID(t, m))
}

func TestModelMouseShortDragSnapsBack(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(2))
	m.now = fakeClock(50 * time.Millisecond)

	m, _ = updateModel(t, m, tuitest.MousePress(50, 10))
	m, _ = updateModel(t, m, tuitest.MouseDrag(55, 10))
	m, _ = updateModel(t, m, tuitest.MouseRelease(56, 10))

	assert.False(t, m.dragging)
	assert.Equal(t, 0, m.dragOffset)
	assert.Equal(t, 0, m.session.Counts().Kept)
	assert.Equal(t, 0, m.session.Counts().Marked)
	assert.Equal(t, "img-00.jpg", currentID(t, m))
}

func TestModelMouseIgnoredWhenFinished(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, nil)
	require.Equal(t, triage.PhaseFinished, m.session.Phase())

	m, _ = updateModel(t, m, tuitest.MousePress(50, 10))
	assert.False(t, m.dragging)
}

func TestModelCatalogUnavailableSchedulesRetry(t *testing.T) {
	m := newTestModel(t)

	errUnavail := fmt.Errorf("scan catalog: %w", catalog.ErrUnavailable)
	m, cmd := updateModel(t, m, catalogLoadedMsg{err: errUnavail})
	assert.Equal(t, 500*time.Millisecond, m.retryDelay)
	assert.Nil(t, m.loadErr)
	assert.Equal(t, triage.PhaseLoading, m.session.Phase())
	assert.NotNil(t, cmd)

	m, _ = updateModel(t, m, catalogLoadedMsg{err: errUnavail})
	assert.Equal(t, time.Second, m.retryDelay)

	m, cmd = updateModel(t, m, catalogRetryMsg{})
	assert.NotNil(t, cmd)

	m = loadModel(t, m, testPhotos(1))
	assert.Equal(t, time.Duration(0), m.retryDelay)
	assert.Equal(t, triage.PhaseReviewing, m.session.Phase())
}

func TestNextRetryDelay(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, nextRetryDelay(0))
	assert.Equal(t, time.Second, nextRetryDelay(500*time.Millisecond))
	assert.Equal(t, 8*time.Second, nextRetryDelay(5*time.Second))
	assert.Equal(t, 8*time.Second, nextRetryDelay(8*time.Second))
}

func TestModelAccessDeniedShowsErrorScreen(t *testing.T) {
	m := newTestModel(t)

	errDenied := fmt.Errorf("scan catalog: %w", catalog.ErrAccessDenied)
	m, cmd := updateModel(t, m, catalogLoadedMsg{err: errDenied})
	require.Error(t, m.loadErr)
	assert.Nil(t, cmd)

	view := tuitest.StripANSI(m.renderMain(100, 40))
	assert.Contains(t, view, "Cannot read photos")

	// Decision keys are inert on the error screen.
	m, cmd = updateModel(t, m, tuitest.KeyPress('d'))
	assert.Nil(t, cmd)
	assert.Error(t, m.loadErr)

	// Retry clears the screen and rescans.
	m, cmd = updateModel(t, m, tuitest.KeyPress('r'))
	assert.NoError(t, m.loadErr)
	assert.NotNil(t, cmd)
}

func TestModelPhotosChangedRescans(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(3))

	m, _ = updateModel(t, m, tuitest.KeyRight())
	require.Equal(t, 1, m.session.Counts().Kept)

	m, cmd := updateModel(t, m, photosChangedMsg{})
	assert.NotNil(t, cmd)

	// img-01 disappeared from disk between scans.
	all := testPhotos(3)
	m = loadModel(t, m, []catalog.Photo{all[0], all[2]})

	assert.Equal(t, 1, m.session.Counts().Kept)
	assert.Len(t, m.session.Queue(), 1)
	assert.Equal(t, "img-02.jpg", currentID(t, m))
}

func TestModelShellKeybinding(t *testing.T) {
	m := newTestModelWithKeybinding(t, "o", config.Keybinding{Sh: "echo {{ .Name }}", Help: "open"})
	m = loadModel(t, m, testPhotos(1))

	m, cmd := updateModel(t, m, tuitest.KeyPress('o'))
	assert.Equal(t, stateNormal, m.state)
	require.NotNil(t, cmd)

	m, _ = updateModel(t, m, shellDoneMsg{key: "o", err: errors.New("exit status 1")})
	assert.True(t, m.toastController.HasToasts())
}

func TestModelShellTemplateErrorToasts(t *testing.T) {
	m := newTestModelWithKeybinding(t, "b", config.Keybinding{Sh: "open {{ .Bogus }}"})
	m = loadModel(t, m, testPhotos(1))

	m, _ = updateModel(t, m, tuitest.KeyPress('b'))
	assert.True(t, m.toastController.HasToasts())
}

func TestModelViewStates(t *testing.T) {
	m := newTestModel(t)

	view := tuitest.StripANSI(m.renderMain(100, 40))
	assert.Contains(t, view, "Scanning photos")

	m = loadModel(t, m, testPhotos(2))
	view = tuitest.StripANSI(m.renderMain(100, 40))
	assert.Contains(t, view, "img-00.jpg")
	assert.Contains(t, view, "1/2")

	m, _ = updateModel(t, m, tuitest.KeyRight())
	m, _ = updateModel(t, m, tuitest.KeyRight())
	view = tuitest.StripANSI(m.renderMain(100, 40))
	assert.Contains(t, view, "Review complete")
}

func TestModelWindowSizeRebuildsOpenModals(t *testing.T) {
	m := newTestModel(t)
	m = loadModel(t, m, testPhotos(1))

	m, _ = updateModel(t, m, tuitest.KeyPress('?'))
	require.NotNil(t, m.guideModal)

	m, _ = updateModel(t, m, tuitest.WindowSize(120, 50))
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 50, m.height)
	assert.NotNil(t, m.guideModal)
}
