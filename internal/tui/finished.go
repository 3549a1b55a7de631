package tui

import (
	"fmt"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize/english"

	"github.com/hay-kot/cull/internal/core/styles"
	"github.com/hay-kot/cull/internal/core/triage"
)

// renderFinished draws the end-of-review screen: a deletion progress note
// while the batch runs, then the session summary.
func renderFinished(sess *triage.Session, spin string, trashMode bool, width, height int) string {
	c := sess.Counts()

	if sess.Deleting() {
		progress := styles.WarningStyle.Render(
			spin + "Deleting " + english.Plural(c.Marked, "marked photo", ""),
		)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, progress)
	}

	deletedNote := "deleted permanently"
	if trashMode {
		deletedNote = "moved to trash"
	}

	block := lipgloss.JoinVertical(
		lipgloss.Center,
		styles.FinishedTitleStyle.Render("Review complete"),
		"",
		styles.FinishedStatStyle.Render(fmt.Sprintf("%s %s kept", styles.IconKeep, english.Plural(c.Kept, "photo", ""))),
		styles.FinishedStatStyle.Render(fmt.Sprintf("%s %s %s", styles.IconTrash, english.Plural(c.Deleted, "photo", ""), deletedNote)),
		"",
		styles.FinishedHintStyle.Render("r reset · R restart · q quit"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
