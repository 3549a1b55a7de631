package tui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/cull/internal/core/styles"
	"github.com/hay-kot/cull/internal/docs"
)

const (
	guideWidthPct  = 70
	guideMinWidth  = 60
	guideMaxHeight = 34
	guideMargin    = 4
	guideChrome    = 5 // title + divider + help + spacing
)

// GuideModal displays the embedded user guide rendered as markdown.
type GuideModal struct {
	viewport viewport.Model
	width    int
	height   int
}

// NewGuideModal renders the guide for the current terminal size.
func NewGuideModal(width, height int) *GuideModal {
	modalWidth := calcGuideWidth(width)
	modalHeight := min(height-guideMargin, guideMaxHeight)
	contentHeight := max(modalHeight-guideChrome, 1)

	vp := viewport.New(
		viewport.WithWidth(modalWidth-4),
		viewport.WithHeight(contentHeight),
	)

	content := docs.Guide
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(max(modalWidth-6, 20)),
	)
	if err == nil {
		if rendered, rerr := renderer.Render(docs.Guide); rerr == nil {
			content = rendered
		} else {
			log.Debug().Err(rerr).Msg("guide markdown rendering failed, showing raw text")
		}
	}
	vp.SetContent(content)

	return &GuideModal{
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// ScrollUp scrolls the guide up.
func (m *GuideModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the guide down.
func (m *GuideModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// Overlay renders the guide centered over the background.
func (m *GuideModal) Overlay(background string, width, height int) string {
	modalWidth := calcGuideWidth(width)
	modalHeight := min(height-guideMargin, guideMaxHeight)

	divider := styles.DividerStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	modalContent := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Guide"),
		divider,
		m.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [esc] close"),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Height(modalHeight).
		Render(modalContent)

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	modalLayer.X(max((width-modalW)/2, 0)).Y(max((height-modalH)/2, 0)).Z(1)

	compositor := lipgloss.NewCompositor(bgLayer, modalLayer)
	return compositor.Render()
}

func calcGuideWidth(termWidth int) int {
	available := max(termWidth-guideMargin, 1)
	target := termWidth * guideWidthPct / 100
	return min(max(target, guideMinWidth), available)
}
