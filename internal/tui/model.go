package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/config"
	"github.com/hay-kot/cull/internal/core/history"
	"github.com/hay-kot/cull/internal/core/notify"
	"github.com/hay-kot/cull/internal/core/styles"
	"github.com/hay-kot/cull/internal/core/triage"
	"github.com/hay-kot/cull/internal/cull"
	"github.com/hay-kot/cull/internal/data/stores"
	tuinotify "github.com/hay-kot/cull/internal/tui/notify"
	"github.com/hay-kot/cull/internal/tui/swipe"
)

// UIState represents the current interaction state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateConfirming
	stateGuide
	stateNotifications
)

const (
	catalogRetryBase = 500 * time.Millisecond
	catalogRetryMax  = 8 * time.Second
	shellTimeout     = 30 * time.Second
)

// catalogLoadedMsg carries the result of a catalog scan.
type catalogLoadedMsg struct {
	photos []catalog.Photo
	err    error
}

// catalogRetryMsg triggers another scan attempt after a transient failure.
type catalogRetryMsg struct{}

// historyBeganMsg carries the session record opened at startup.
type historyBeganMsg struct {
	record history.Record
	err    error
}

// batchDeleteDoneMsg carries the result of a batch deletion.
type batchDeleteDoneMsg struct {
	ids []string
	err error
}

// shellDoneMsg carries the result of a shell keybinding command.
type shellDoneMsg struct {
	key string
	err error
}

// notificationMsg carries a notification from an async tea.Cmd into the Update loop.
type notificationMsg struct {
	notification notify.Notification
}

// Model is the main TUI model.
type Model struct {
	cfg     *config.Config
	app     *cull.App
	session *triage.Session
	deleter *triage.Deleter
	handler *KeybindingHandler

	width  int
	height int
	state  UIState

	card    *CardView
	spinner spinner.Model

	modal   Modal
	pending Action

	guideModal  *GuideModal
	notifyModal *NotificationModal

	notifyBus       *tuinotify.Bus
	toastController *ToastController
	toastView       *ToastView

	watcher *PhotoWatcher

	tracker    *swipe.Tracker
	dragging   bool
	dragOffset int

	loadErr    error
	retryDelay time.Duration

	historyOnce bool
	record      history.Record

	deleteCancel context.CancelFunc

	quitting bool
	now      func() time.Time
}

// NewModel creates the main TUI model.
func NewModel(cfg *config.Config, app *cull.App) Model {
	var notifyStore notify.Store
	if app.DB != nil {
		notifyStore = stores.NewNotifyStore(app.DB)
	}
	notifyBus := tuinotify.NewBus(notifyStore)
	toastCtrl := NewToastController()
	toastView := NewToastView(toastCtrl)

	// Wire bus -> toast controller
	notifyBus.Subscribe(func(n notify.Notification) {
		toastCtrl.Push(n)
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TextPrimaryStyle

	srcCfg := cfg.SourceConfig()
	watcher, err := NewPhotoWatcher(srcCfg.Dir, srcCfg.TrashDir)
	if err != nil {
		log.Warn().Err(err).Msg("photo watcher unavailable, live reload disabled")
		watcher = nil
	}

	return Model{
		cfg:     cfg,
		app:     app,
		session: triage.NewSession(),
		deleter: triage.NewDeleter(app.Catalog.Source()),
		handler: NewKeybindingHandler(cfg.Keybindings, srcCfg.Dir),
		card:    NewCardView(),
		tracker: swipe.NewTracker(swipe.Config{
			Threshold:   cfg.Swipe.Threshold,
			MinVelocity: cfg.GetMinVelocity(),
		}),
		state:           stateNormal,
		spinner:         s,
		notifyBus:       notifyBus,
		toastController: toastCtrl,
		toastView:       toastView,
		watcher:         watcher,
		now:             time.Now,
	}
}

// Init starts the initial catalog scan, the spinner, and the directory watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCatalog(), m.spinner.Tick}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	cmds = append(cmds, checkForUpdate(m.app.KV, m.app.Build.Version))
	return tea.Batch(cmds...)
}

// loadCatalog returns a command that scans the photo directory.
func (m Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		photos, err := m.app.Catalog.Scan(context.Background())
		return catalogLoadedMsg{photos: photos, err: err}
	}
}

// beginHistory returns a command that opens the session record.
func (m Model) beginHistory(catalogSize int) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.app.History.Begin(context.Background(), m.cfg.Photos.Dir, catalogSize)
		return historyBeganMsg{record: rec, err: err}
	}
}

// runBatchDelete returns a command that deletes the snapshot of marked photos.
func (m Model) runBatchDelete(ctx context.Context, ids []string) tea.Cmd {
	return func() tea.Msg {
		err := m.deleter.Execute(ctx, ids)
		return batchDeleteDoneMsg{ids: ids, err: err}
	}
}

// runShell returns a command that executes a shell keybinding.
func (m Model) runShell(action Action) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shellTimeout)
		defer cancel()
		return shellDoneMsg{key: action.Key, err: m.handler.Execute(ctx, action)}
	}
}

// scheduleCatalogRetry returns a command that re-triggers the catalog scan
// after the backoff delay.
func scheduleCatalogRetry(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return catalogRetryMsg{}
	})
}

func nextRetryDelay(d time.Duration) time.Duration {
	if d == 0 {
		return catalogRetryBase
	}
	d *= 2
	if d > catalogRetryMax {
		return catalogRetryMax
	}
	return d
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// Window
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	// Data loading
	case catalogLoadedMsg:
		return m.handleCatalogLoaded(msg)
	case catalogRetryMsg:
		return m.handleCatalogRetry(msg)
	case photosChangedMsg:
		return m.handlePhotosChanged(msg)
	case historyBeganMsg:
		return m.handleHistoryBegan(msg)

	// Action results
	case batchDeleteDoneMsg:
		return m.handleBatchDeleteDone(msg)
	case shellDoneMsg:
		return m.handleShellDone(msg)

	// Notifications
	case notificationMsg:
		return m.handleNotification(msg)
	case toastTickMsg:
		return m.handleToastTick(msg)
	case updateAvailableMsg:
		return m, m.notifyInfo("cull %s is available (running %s)", msg.result.Latest, msg.result.Current)

	// Input
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)
	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}

	return m, nil
}

// quit cancels any in-flight deletion, shuts down the watcher, and exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.deleteCancel != nil {
		m.deleteCancel()
		m.deleteCancel = nil
	}
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.quitting = true
	return m, tea.Quit
}

// HistoryRecord returns the session record opened at startup, if one was.
func (m Model) HistoryRecord() (history.Record, bool) {
	return m.record, m.record.ID != ""
}

// Counts returns the current triage tallies.
func (m Model) Counts() triage.Counts {
	return m.session.Counts()
}

// CatalogSize returns the number of photos in the catalog.
func (m Model) CatalogSize() int {
	return len(m.session.Catalog())
}

// ensureToastTick returns a tick command when there are active toasts.
// Multiple concurrent tick chains are harmless, extra ticks just expire
// toasts a little faster. Chains naturally stop when all toasts are gone.
func (m *Model) ensureToastTick() tea.Cmd {
	if m.toastController.HasToasts() {
		return scheduleToastTick()
	}
	return nil
}

// notifyError publishes an error-level notification and returns a command
// to start the toast tick timer if needed.
func (m *Model) notifyError(format string, args ...any) tea.Cmd {
	m.notifyBus.Errorf(format, args...)
	return m.ensureToastTick()
}

func (m *Model) notifySuccess(format string, args ...any) tea.Cmd {
	m.notifyBus.Successf(format, args...)
	return m.ensureToastTick()
}

func (m *Model) notifyWarn(format string, args ...any) tea.Cmd {
	m.notifyBus.Warnf(format, args...)
	return m.ensureToastTick()
}

func (m *Model) notifyInfo(format string, args ...any) tea.Cmd {
	m.notifyBus.Infof(format, args...)
	return m.ensureToastTick()
}
