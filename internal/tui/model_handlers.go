package tui

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/triage"
	"github.com/hay-kot/cull/internal/tui/swipe"
)

// --- Window ---

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Scroll modals have no resize hook, rebuild them at the new size.
	if m.guideModal != nil {
		m.guideModal = NewGuideModal(msg.Width, msg.Height)
	}
	if m.notifyModal != nil {
		m.notifyModal = NewNotificationModal(m.notifyBus, msg.Width, msg.Height)
	}
	return m, nil
}

// --- Catalog ---

func (m Model) handleCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if catalog.IsUnavailable(msg.err) {
			m.retryDelay = nextRetryDelay(m.retryDelay)
			log.Warn().Err(msg.err).Dur("retry_in", m.retryDelay).Msg("catalog scan failed, retrying")
			return m, tea.Batch(
				m.notifyWarn("photo scan failed, retrying in %s", m.retryDelay),
				scheduleCatalogRetry(m.retryDelay),
			)
		}

		log.Error().Err(msg.err).Str("dir", m.cfg.Photos.Dir).Msg("catalog scan failed")
		m.loadErr = msg.err
		return m, nil
	}

	m.loadErr = nil
	m.retryDelay = 0

	effect := m.session.SetCatalog(msg.photos)

	var cmds []tea.Cmd
	if !m.historyOnce {
		m.historyOnce = true
		cmds = append(cmds, m.beginHistory(len(msg.photos)))
	}

	mm, cmd := m.applyEffect(effect)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return mm, tea.Batch(cmds...)
}

func (m Model) handleCatalogRetry(_ catalogRetryMsg) (tea.Model, tea.Cmd) {
	return m, m.loadCatalog()
}

func (m Model) handlePhotosChanged(_ photosChangedMsg) (tea.Model, tea.Cmd) {
	log.Debug().Msg("photo directory changed, rescanning")
	cmds := []tea.Cmd{m.loadCatalog()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	return m, tea.Batch(cmds...)
}

// --- History ---

func (m Model) handleHistoryBegan(msg historyBeganMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Warn().Err(msg.err).Msg("failed to record session start")
		return m, nil
	}
	m.record = msg.record
	return m, nil
}

// --- Batch deletion ---

func (m Model) handleBatchDeleteDone(msg batchDeleteDoneMsg) (tea.Model, tea.Cmd) {
	if m.deleteCancel != nil {
		m.deleteCancel()
		m.deleteCancel = nil
	}

	if msg.err != nil {
		m.session.FinishDeletion(nil, msg.err)
		log.Error().Err(msg.err).Int("count", len(msg.ids)).Msg("batch delete failed")

		cmds := []tea.Cmd{m.notifyError("%v", msg.err)}
		var delErr *catalog.DeleteError
		if errors.As(msg.err, &delErr) && !delErr.Restored {
			// Disk state diverged from the session, rescan to resync.
			cmds = append(cmds, m.loadCatalog())
		}
		return m, tea.Batch(cmds...)
	}

	effect := m.session.FinishDeletion(msg.ids, nil)

	verb := "deleted"
	if m.cfg.DeleteMode() == catalog.DeleteModeTrash {
		verb = "moved to trash"
	}
	notifyCmd := m.notifySuccess("%s %s", english.Plural(len(msg.ids), "photo", ""), verb)

	mm, effectCmd := m.applyEffect(effect)
	return mm, tea.Batch(notifyCmd, effectCmd)
}

// applyEffect acts on a session effect. EffectBatchDelete starts a deletion.
func (m Model) applyEffect(effect triage.Effect) (Model, tea.Cmd) {
	if effect == triage.EffectBatchDelete {
		return m.startBatchDelete()
	}
	return m, nil
}

// startBatchDelete snapshots the marked set and launches the delete command.
func (m Model) startBatchDelete() (Model, tea.Cmd) {
	ids, err := m.session.BeginDeletion()
	if err != nil {
		log.Warn().Err(err).Msg("batch delete refused")
		return m, nil
	}
	if len(ids) == 0 {
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.deleteCancel = cancel
	log.Info().Int("count", len(ids)).Msg("starting batch delete")
	return m, m.runBatchDelete(ctx, ids)
}

// --- Shell keybindings ---

func (m Model) handleShellDone(msg shellDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.notifyError("%s: %v", msg.key, msg.err)
	}
	log.Debug().Str("key", msg.key).Msg("shell keybinding finished")
	return m, nil
}

// --- Notifications ---

func (m Model) handleNotification(msg notificationMsg) (tea.Model, tea.Cmd) {
	m.notifyBus.Publish(msg.notification)
	return m, m.ensureToastTick()
}

func (m Model) handleToastTick(_ toastTickMsg) (tea.Model, tea.Cmd) {
	m.toastController.Tick(toastTickInterval)
	if m.toastController.HasToasts() {
		return m, scheduleToastTick()
	}
	return m, nil
}

// --- Input ---

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case stateConfirming:
		return m.handleConfirmKey(keyStr)
	case stateGuide:
		return m.handleGuideKey(keyStr)
	case stateNotifications:
		return m.handleNotificationsKey(keyStr)
	}

	if keyStr == "esc" && m.toastController.HasToasts() {
		m.toastController.DismissAll()
		return m, nil
	}

	if m.loadErr != nil {
		return m.handleLoadErrorKey(keyStr)
	}

	action, ok := m.resolveKey(keyStr)
	if !ok {
		return m, nil
	}
	return m.dispatchAction(action, false)
}

// resolveKey maps a key press to an action against the current photo.
func (m Model) resolveKey(keyStr string) (Action, bool) {
	var photo *catalog.Photo
	if p, ok := m.session.Current(); ok {
		photo = &p
	}
	return m.handler.Resolve(keyStr, photo)
}

func (m Model) handleConfirmKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "enter":
		m.state = stateNormal
		action := m.pending
		m.pending = Action{}
		if m.modal.ConfirmSelected() {
			return m.dispatchAction(action, true)
		}
		return m, nil
	case "y", "Y":
		m.state = stateNormal
		action := m.pending
		m.pending = Action{}
		return m.dispatchAction(action, true)
	case "n", "N", "esc":
		m.state = stateNormal
		m.pending = Action{}
		return m, nil
	case "left", "right", "h", "l", "tab":
		m.modal.ToggleSelection()
		return m, nil
	}
	return m, nil
}

func (m Model) handleGuideKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc", "q", "?":
		m.state = stateNormal
		m.guideModal = nil
	case "j", "down":
		m.guideModal.ScrollDown()
	case "k", "up":
		m.guideModal.ScrollUp()
	}
	return m, nil
}

func (m Model) handleNotificationsKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc", "q", "n":
		m.state = stateNormal
		m.notifyModal = nil
	case "j", "down":
		m.notifyModal.ScrollDown()
	case "k", "up":
		m.notifyModal.ScrollUp()
	case "D":
		if err := m.notifyModal.Clear(); err != nil {
			return m, m.notifyError("clear notifications: %v", err)
		}
	}
	return m, nil
}

// handleLoadErrorKey runs while the fatal scan error screen is up.
func (m Model) handleLoadErrorKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "enter", "r":
		m.loadErr = nil
		return m, m.loadCatalog()
	case "q":
		return m.quit()
	}
	return m, nil
}

// dispatchAction executes a resolved action. confirmed is true when the user
// already accepted a confirmation prompt for this action.
func (m Model) dispatchAction(action Action, confirmed bool) (tea.Model, tea.Cmd) {
	if action.Err != nil {
		return m, m.notifyError("%s: %v", action.Key, action.Err)
	}

	if !confirmed && action.NeedsConfirm() {
		m.modal = NewModal("Confirm", action.Confirm)
		m.pending = action
		m.state = stateConfirming
		return m, nil
	}

	switch action.Type {
	case ActionTypeKeep:
		return m.decide(action.PhotoID, true)
	case ActionTypeDelete:
		return m.decide(action.PhotoID, false)
	case ActionTypeUndo:
		if m.session.Undo() {
			m.dragging = false
			m.dragOffset = 0
		}
		return m, nil
	case ActionTypeReset:
		m.session.ResetAll()
		return m, nil
	case ActionTypePurge:
		mm, cmd := m.startBatchDelete()
		return mm, cmd
	case ActionTypeRestart:
		mm, cmd := m.applyEffect(m.session.Restart())
		return mm, cmd
	case ActionTypeGuide:
		m.guideModal = NewGuideModal(m.width, m.height)
		m.state = stateGuide
		return m, nil
	case ActionTypeNotify:
		m.notifyModal = NewNotificationModal(m.notifyBus, m.width, m.height)
		m.state = stateNotifications
		return m, nil
	case ActionTypeQuit:
		return m.maybeQuit(confirmed)
	case ActionTypeShell:
		return m, m.runShell(action)
	}
	return m, nil
}

// decide records a keep or delete decision for the photo.
func (m Model) decide(id string, keep bool) (tea.Model, tea.Cmd) {
	if id == "" || m.session.Phase() != triage.PhaseReviewing {
		return m, nil
	}

	var (
		effect triage.Effect
		err    error
	)
	if keep {
		effect, err = m.session.Keep(id)
	} else {
		effect, err = m.session.MarkForDeletion(id)
	}
	if err != nil {
		log.Error().Err(err).Str("photo", id).Msg("triage decision rejected")
		return m, nil
	}

	m.dragging = false
	m.dragOffset = 0

	mm, cmd := m.applyEffect(effect)
	return mm, cmd
}

// maybeQuit asks for confirmation when marks are pending or a batch is
// running, otherwise quits.
func (m Model) maybeQuit(confirmed bool) (tea.Model, tea.Cmd) {
	if !confirmed {
		var prompt string
		switch {
		case m.session.Deleting():
			prompt = "A delete batch is still running. Quit anyway?"
		case m.session.Counts().Marked > 0:
			prompt = english.Plural(m.session.Counts().Marked, "marked photo", "") +
				" will not be deleted. Quit anyway?"
		}
		if prompt != "" {
			m.modal = NewModal("Quit", prompt)
			m.pending = Action{Type: ActionTypeQuit}
			m.state = stateConfirming
			return m, nil
		}
	}
	return m.quit()
}

// --- Mouse ---

func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseLeft || m.state != stateNormal || m.loadErr != nil {
		return m, nil
	}
	if m.session.Phase() != triage.PhaseReviewing {
		return m, nil
	}

	m.tracker.Begin(msg.X, m.now())
	m.dragging = true
	m.dragOffset = 0
	return m, nil
}

func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.dragging {
		return m, nil
	}
	m.tracker.Move(msg.X, m.now())
	m.dragOffset = m.tracker.Displacement()
	return m, nil
}

func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.dragging {
		return m, nil
	}
	m.dragging = false
	decision := m.tracker.Release(msg.X, m.now())
	m.dragOffset = 0

	photo, ok := m.session.Current()
	if !ok {
		return m, nil
	}

	switch decision {
	case swipe.Keep:
		return m.decide(photo.ID, true)
	case swipe.Delete:
		return m.decide(photo.ID, false)
	}
	return m, nil
}

// --- Spinner ---

func (m Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}
