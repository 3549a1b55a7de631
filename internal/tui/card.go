package tui

import (
	"fmt"
	"path/filepath"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/styles"
	"github.com/hay-kot/cull/internal/tui/preview"
)

const (
	cardMaxWidth = 84
	cardMinWidth = 24
	cardChrome   = 4 // border + horizontal padding

	// stampReveal is how many cells of drag travel reveal a decision stamp.
	stampReveal = 2
)

// CardView renders the photo under review: preview frame, metadata line,
// and the decision stamps that follow a live drag.
type CardView struct {
	renderer *preview.Renderer
}

func NewCardView() *CardView {
	return &CardView{renderer: preview.NewRenderer()}
}

// Render draws the card for photo inside a width x height cell area. The
// drag offset shifts the card horizontally and, past threshold, tints the
// border toward the decision it would commit.
func (c *CardView) Render(photo catalog.Photo, width, height, offset, threshold int) string {
	cardW := min(max(width-8, cardMinWidth), cardMaxWidth)
	if cardW > width {
		cardW = max(width, 1)
	}
	innerW := max(cardW-cardChrome, 1)
	previewLines := max(height-6, 1) // border rows, title, meta, breathing room

	frame, err := c.renderer.Render(photo.Path, innerW, previewLines)
	if err != nil {
		placeholder := styles.TextMutedStyle.Render("no preview: " + err.Error())
		frame = lipgloss.Place(innerW, previewLines, lipgloss.Center, lipgloss.Center, placeholder)
	}

	title := styles.CardTitleStyle.Render(ansi.Truncate(filepath.Base(photo.Path), innerW, "…"))
	meta := styles.CardMetaStyle.Render(ansi.Truncate(photoMeta(photo), innerW, "…"))

	style := styles.CardStyle
	switch {
	case threshold > 0 && offset >= threshold:
		style = styles.CardKeepStyle
	case threshold > 0 && offset <= -threshold:
		style = styles.CardDeleteStyle
	}

	card := style.Width(cardW - 2).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		frame,
		meta,
	))

	card = c.overlayStamp(card, offset)

	x := (width-lipgloss.Width(card))/2 + offset
	x = min(max(x, 0), max(width-lipgloss.Width(card), 0))

	shifted := lipgloss.NewStyle().MarginLeft(x).Render(card)
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Center, shifted)
}

// overlayStamp composites KEEP or DELETE over the card corner once the
// drag has travelled far enough to signal intent.
func (c *CardView) overlayStamp(card string, offset int) string {
	var stamp string
	var x int

	cardW := lipgloss.Width(card)
	switch {
	case offset >= stampReveal:
		stamp = styles.StampKeepStyle.Render(styles.IconKeep + " KEEP")
		x = 2
	case offset <= -stampReveal:
		stamp = styles.StampDeleteStyle.Render(styles.IconDelete + " DELETE")
		x = max(cardW-lipgloss.Width(stamp)-2, 0)
	default:
		return card
	}

	cardLayer := lipgloss.NewLayer(card)
	stampLayer := lipgloss.NewLayer(stamp)
	stampLayer.X(x).Y(1).Z(1)

	return lipgloss.NewCompositor(cardLayer, stampLayer).Render()
}

func photoMeta(photo catalog.Photo) string {
	meta := photo.TakenAt.Format("Jan 02, 2006 15:04")
	meta += " · " + humanize.Bytes(uint64(photo.Size))
	if photo.Width > 0 && photo.Height > 0 {
		meta += fmt.Sprintf(" · %d×%d", photo.Width, photo.Height)
	}
	return meta
}
