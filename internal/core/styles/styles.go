// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	WarningStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	SuccessStyle       lipgloss.Style

	// Text styles.
	TextPrimaryStyle        lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextErrorStyle          lipgloss.Style

	// Photo card styles. The border tints toward keep or delete as a
	// drag moves the card.
	CardStyle       lipgloss.Style
	CardKeepStyle   lipgloss.Style
	CardDeleteStyle lipgloss.Style
	CardTitleStyle  lipgloss.Style
	CardMetaStyle   lipgloss.Style

	// Decision stamps overlaid on the card during a drag.
	StampKeepStyle   lipgloss.Style
	StampDeleteStyle lipgloss.Style

	// Status bar styles.
	StatusBarStyle    lipgloss.Style
	StatusTitleStyle  lipgloss.Style
	StatusKeepStyle   lipgloss.Style
	StatusDeleteStyle lipgloss.Style
	StatusDoneStyle   lipgloss.Style
	StatusHelpStyle   lipgloss.Style

	// Modal (confirmation dialog) styles.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	// Toast styles.
	ToastInfoStyle    lipgloss.Style
	ToastSuccessStyle lipgloss.Style
	ToastWarnStyle    lipgloss.Style
	ToastErrorStyle   lipgloss.Style

	// Finished screen styles.
	FinishedTitleStyle lipgloss.Style
	FinishedStatStyle  lipgloss.Style
	FinishedHintStyle  lipgloss.Style
)

// ColorPool is used for deterministic color hashing of directory badges.
var ColorPool []color.Color

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	WarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	SuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)

	TextPrimaryStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	TextForegroundBoldStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	TextMutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	TextErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	CardKeepStyle = CardStyle.
		BorderForeground(ColorSuccess)
	CardDeleteStyle = CardStyle.
		BorderForeground(ColorError)
	CardTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	CardMetaStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	StampKeepStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSuccess).
		Bold(true).
		Padding(0, 1)
	StampDeleteStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorError).
		Bold(true).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground).
		Padding(0, 1)
	StatusTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	StatusKeepStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	StatusDeleteStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	StatusDoneStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	ToastInfoStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	ToastSuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	ToastWarnStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	ToastErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	FinishedTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FinishedStatStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	FinishedHintStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ColorPool = []color.Color{
		ColorPrimary,
		ColorSecondary,
		ColorSuccess,
		ColorWarning,
		ColorError,
		ColorMuted,
	}
}

// ColorForString returns a deterministic color for a given string.
// The same string always produces the same color.
func ColorForString(s string) color.Color {
	var hash uint32
	for _, c := range s {
		hash = hash*31 + uint32(c)
	}
	return ColorPool[hash%uint32(len(ColorPool))]
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)
	surface := colorHexPtr(ColorSurface)

	cfg.Document.Color = fg

	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.H4.Color = primary
	cfg.H5.Color = primary
	cfg.H6.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg

	return cfg
}
