package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/cull/internal/core/styles"
	"github.com/hay-kot/cull/internal/core/triage"
)

// renderStatusBar builds the single-line footer: phase badge, queue
// position, triage counts, and a help hint.
func renderStatusBar(sess *triage.Session, spin string, width int) string {
	var badge string
	switch {
	case sess.Deleting():
		badge = styles.WarningStyle.Render(spin + "DELETING")
	case sess.Phase() == triage.PhaseLoading:
		badge = styles.TextMutedStyle.Render(spin + "LOADING")
	case sess.Phase() == triage.PhaseFinished:
		badge = styles.SuccessStyle.Render(styles.IconKeep + " FINISHED")
	default:
		badge = styles.StatusTitleStyle.Render(styles.IconCamera + " REVIEWING")
	}

	left := badge
	if sess.Phase() == triage.PhaseReviewing && len(sess.Queue()) > 0 {
		left += fmt.Sprintf("  %d/%d", sess.Cursor()+1, len(sess.Queue()))
	}

	c := sess.Counts()
	left += "  " + styles.StatusKeepStyle.Render(fmt.Sprintf("%s %d", styles.IconKeep, c.Kept))
	left += " " + styles.StatusDeleteStyle.Render(fmt.Sprintf("%s %d", styles.IconDelete, c.Marked))
	left += " " + styles.StatusDoneStyle.Render(fmt.Sprintf("%s %d", styles.IconTrash, c.Deleted))

	right := styles.StatusHelpStyle.Render("? guide · q quit")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return styles.StatusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
