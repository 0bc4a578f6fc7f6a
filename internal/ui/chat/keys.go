// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the compose view.
type KeyMap struct {
	Send          key.Binding
	Newline       key.Binding
	Accept        key.Binding
	PopupUp       key.Binding
	PopupDown     key.Binding
	Dismiss       key.Binding
	SelectAll     key.Binding
	DeleteWord    key.Binding
	CodeFence     key.Binding
	TogglePreview key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default bindings. Send and Newline swap when
// enter_sends is off.
func DefaultKeyMap(enterSends bool) KeyMap {
	send := key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "send"))
	newline := key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("Alt+Enter", "newline"))
	if !enterSends {
		send = key.NewBinding(key.WithKeys("ctrl+j", "alt+enter"), key.WithHelp("Ctrl+J", "send"))
		newline = key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "newline"))
	}

	return KeyMap{
		Send:    send,
		Newline: newline,
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "accept suggestion"),
		),
		PopupUp: key.NewBinding(
			key.WithKeys("up", "shift+tab", "ctrl+k"),
			key.WithHelp("up", "previous suggestion"),
		),
		PopupDown: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "next suggestion"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close suggestions"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "select all"),
		),
		DeleteWord: key.NewBinding(
			key.WithKeys("ctrl+w", "alt+backspace"),
			key.WithHelp("C-w", "delete word"),
		),
		CodeFence: key.NewBinding(
			key.WithKeys("alt+c"),
			key.WithHelp("M-c", "code block"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "toggle preview"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll sent messages"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll sent messages"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("C-q", "quit"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Accept, k.Dismiss, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Compose
		{k.Send, k.Newline, k.SelectAll, k.DeleteWord, k.CodeFence},
		// Suggestions
		{k.Accept, k.PopupUp, k.PopupDown, k.Dismiss},
		// View
		{k.TogglePreview, k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}

// =============================================================================
// HELP TEXT DATA
// =============================================================================

// HelpItem is one line of the typing guide in the help overlay.
type HelpItem struct {
	Key  string
	Desc string
}

// GetSyntaxHelpItems lists what each trigger character completes.
func GetSyntaxHelpItems() []HelpItem {
	return []HelpItem{
		{"@name", "Mention a person, group or everyone"},
		{"@_name", "Silent mention"},
		{"#channel", "Link a channel; type > for its topics"},
		{":name", "Insert an emoji"},
		{"/command", "Slash command at the start of a message"},
		{"```lang", "Code block language"},
		{"<time", "Insert a time"},
	}
}
