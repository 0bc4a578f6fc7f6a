// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatcompose/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar shows the completion mode, the send key and a short message.
type StatusBar struct {
	Mode       string
	EnterSends bool
	Message    string
	Width      int
	theme      *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, EnterSends: true, Width: 80}
}

// SendHint describes how to send and how to add a newline.
func (s *StatusBar) SendHint() string {
	if s.EnterSends {
		return "Enter send | Alt+Enter newline"
	}
	return "Ctrl+J send | Enter newline"
}

// View renders the bar.
func (s *StatusBar) View() string {
	left := []string{}
	if s.Mode != "" {
		left = append(left, s.theme.StatusKey.Render(s.Mode))
	}
	if s.Message != "" {
		left = append(left, s.Message)
	}
	leftText := strings.Join(left, "  ")

	right := s.theme.Muted.Render(s.SendHint() + " | Tab accept | Esc close | Ctrl+P preview | Ctrl+Q quit")

	inner := s.Width - 2
	gap := inner - lipgloss.Width(leftText) - lipgloss.Width(right)
	if gap < 1 {
		return s.theme.StatusBar.Width(s.Width).Render(truncate(s.Mode+"  "+s.Message, inner))
	}
	return s.theme.StatusBar.Width(s.Width).Render(leftText + strings.Repeat(" ", gap) + right)
}
