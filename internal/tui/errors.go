package tui

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/cull/internal/core/styles"
)

// renderLoadError draws the blocking screen shown when the photo directory
// cannot be listed at all. Review cannot proceed until the user fixes
// access and retries.
func renderLoadError(err error, dir string, width, height int) string {
	block := lipgloss.JoinVertical(
		lipgloss.Center,
		styles.ErrorStyle.Bold(true).Render(styles.IconNotifyError+" Cannot read photos"),
		"",
		styles.TextMutedStyle.Render(dir),
		styles.TextErrorStyle.Render(err.Error()),
		"",
		styles.FinishedHintStyle.Render("check directory permissions, then press enter to retry · q quit"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
