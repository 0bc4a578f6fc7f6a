// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Theme holds all the styled components for the application.
type Theme struct {
	Name         string
	Palette      Palette
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND MESSAGES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	SentMessage lipgloss.Style
	SentMeta    lipgloss.Style

	// ==========================================================================
	// COMPOSER
	// ==========================================================================

	Composer        lipgloss.Style
	ComposerFocused lipgloss.Style
	Prompt          lipgloss.Style
	Placeholder     lipgloss.Style
	Cursor          lipgloss.Style
	Selection       lipgloss.Style
	CharCount       lipgloss.Style
	CharCountDanger lipgloss.Style

	// ==========================================================================
	// SUGGESTION POPUP
	// ==========================================================================

	Popup          lipgloss.Style
	PopupTip       lipgloss.Style
	PopupItem      lipgloss.Style
	PopupSelected  lipgloss.Style
	PopupSecondary lipgloss.Style
	PopupMention   lipgloss.Style
	PopupLink      lipgloss.Style
	PopupNew       lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	StatusBar lipgloss.Style
	StatusKey lipgloss.Style
	Muted     lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Success   lipgloss.Style
}

// NewTheme creates a theme. "auto" or "" picks the palette from the
// terminal background.
func NewTheme(name string) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}
	t.SetName(name)
	return t
}

// SetName switches the palette and rebuilds every style.
func (t *Theme) SetName(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case ThemeDark, ThemeLight:
	default:
		name = ThemeLight
		if termenv.HasDarkBackground() {
			name = ThemeDark
		}
	}

	t.Name = name
	t.Palette = LightPalette
	if name == ThemeDark {
		t.Palette = DarkPalette
	}
	t.initStyles()
}

// IsDark reports whether the dark palette is active.
func (t *Theme) IsDark() bool {
	return t.Name == ThemeDark
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	p := t.Palette

	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Mention)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)

	t.SentMessage = lipgloss.NewStyle().
		Foreground(p.Text).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(p.Accent).
		PaddingLeft(1)

	t.SentMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Composer
	t.Composer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.ComposerFocused = t.Composer.
		BorderForeground(p.Accent)

	t.Prompt = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	t.Cursor = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.Surface)

	t.Selection = lipgloss.NewStyle().
		Background(p.Selection).
		Foreground(p.Text)

	t.CharCount = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.CharCountDanger = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	// Popup
	t.Popup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 1)

	t.PopupTip = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	t.PopupItem = lipgloss.NewStyle().
		Foreground(p.Text)

	t.PopupSelected = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextInverse).
		Bold(true)

	t.PopupSecondary = lipgloss.NewStyle().
		Foreground(p.TextSecondary)

	t.PopupMention = lipgloss.NewStyle().
		Foreground(p.Mention)

	t.PopupLink = lipgloss.NewStyle().
		Foreground(p.Link)

	t.PopupNew = lipgloss.NewStyle().
		Foreground(p.Success).
		Italic(true)

	// Status
	t.StatusBar = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Background(p.SurfaceDim).
		Padding(0, 1)

	t.StatusKey = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.Muted = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.Warning = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	t.Error = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	t.Info = lipgloss.NewStyle().
		Foreground(p.Link)

	t.Success = lipgloss.NewStyle().
		Foreground(p.Success)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// RenderWarning renders a warning with its text indicator.
func (t *Theme) RenderWarning(message string) string {
	return t.Warning.Render(StatusIndicators.Warning + " " + message)
}

// RenderError renders an error with its text indicator.
func (t *Theme) RenderError(message string) string {
	return t.Error.Render(StatusIndicators.Error + " " + message)
}

// RenderInfo renders an informational message with its text indicator.
func (t *Theme) RenderInfo(message string) string {
	return t.Info.Render(StatusIndicators.Info + " " + message)
}

// RenderSuccess renders a success message with its text indicator.
func (t *Theme) RenderSuccess(message string) string {
	return t.Success.Render(StatusIndicators.Success + " " + message)
}
