package tui

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/styles"
	"github.com/hay-kot/cull/internal/core/triage"
)

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	mainView := m.renderMain(w, h)

	var content string
	switch {
	case m.state == stateConfirming:
		content = m.modal.Overlay(mainView, w, h)
	case m.state == stateGuide && m.guideModal != nil:
		content = m.guideModal.Overlay(mainView, w, h)
	case m.state == stateNotifications && m.notifyModal != nil:
		content = m.notifyModal.Overlay(mainView, w, h)
	default:
		content = mainView
	}

	// Apply toast overlay on top of everything
	if m.toastController.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// renderMain renders the body plus the status bar.
func (m Model) renderMain(w, h int) string {
	statusBar := renderStatusBar(m.session, m.spinner.View(), w)

	contentHeight := h - lipgloss.Height(statusBar)
	if contentHeight < 1 {
		contentHeight = 1
	}

	var body string
	switch {
	case m.loadErr != nil:
		body = renderLoadError(m.loadErr, m.cfg.Photos.Dir, w, contentHeight)
	case m.session.Phase() == triage.PhaseLoading:
		loading := lipgloss.JoinHorizontal(lipgloss.Left, m.spinner.View(), " Scanning photos")
		body = lipgloss.Place(w, contentHeight, lipgloss.Center, lipgloss.Center, loading)
	case m.session.Phase() == triage.PhaseFinished:
		trashMode := m.cfg.DeleteMode() == catalog.DeleteModeTrash
		body = renderFinished(m.session, m.spinner.View(), trashMode, w, contentHeight)
	default:
		body = m.renderCard(w, contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, statusBar)
}

// renderCard renders the photo under review.
func (m Model) renderCard(w, h int) string {
	photo, ok := m.session.Current()
	if !ok {
		empty := styles.TextMutedStyle.Render("No photo selected")
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, empty)
	}
	return m.card.Render(photo, w, h, m.dragOffset, m.cfg.Swipe.Threshold)
}
