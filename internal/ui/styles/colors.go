// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme is built from.
type Palette struct {
	// Accent is the brand color: prompt, focus ring, selected suggestion.
	Accent lipgloss.Color
	// Mention highlights people, groups and broadcasts.
	Mention lipgloss.Color
	// Link highlights streams and topics.
	Link lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Surface    lipgloss.Color
	SurfaceDim lipgloss.Color
	Overlay    lipgloss.Color

	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color

	// Selection is the background of selected placeholder text.
	Selection lipgloss.Color
}

// =============================================================================
// PALETTES (Catppuccin Mocha / Latte)
// =============================================================================

// DarkPalette is used on dark terminals.
var DarkPalette = Palette{
	Accent:  "#22D3EE",
	Mention: "#A78BFA",
	Link:    "#60A5FA",

	Success: "#34D399",
	Warning: "#FBBF24",
	Error:   "#FB7185",

	Surface:    "#1E1E2E",
	SurfaceDim: "#181825",
	Overlay:    "#313244",

	Text:          "#CDD6F4",
	TextSecondary: "#A6ADC8",
	TextMuted:     "#6C7086",
	TextInverse:   "#1E1E2E",

	Selection: "#1E3A5F",
}

// LightPalette is used on light terminals.
var LightPalette = Palette{
	Accent:  "#0891B2",
	Mention: "#7C3AED",
	Link:    "#2563EB",

	Success: "#059669",
	Warning: "#D97706",
	Error:   "#E11D48",

	Surface:    "#FFFFFF",
	SurfaceDim: "#F5F5F5",
	Overlay:    "#E5E5E5",

	Text:          "#1F2937",
	TextSecondary: "#6B7280",
	TextMuted:     "#9CA3AF",
	TextInverse:   "#FFFFFF",

	Selection: "#BFDBFE",
}

// =============================================================================
// ACCESSIBILITY
// =============================================================================

// StatusIndicatorSet contains text indicators shown next to colored
// status messages, so the state does not rely on color alone.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are ASCII-only for maximum compatibility.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}
