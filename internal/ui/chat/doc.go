// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the compose view of the chatcompose TUI.

The view is a Bubble Tea model built around one message box. Every edit
asks the typeahead engine for suggestions at the cursor and shows them in
a popup above the box.

# Key Components

## Model (model.go)

The Model struct holds the compose state:
  - The text buffer and where the message is going
  - The suggestion popup, time picker and markdown preview
  - The list of messages sent in this session

## Update Loop (update.go)

Keyboard handling, in priority order:
  - Time picker, while open
  - Popup navigation and acceptance (Tab, Enter, arrows, Esc, '>')
  - Send and newline handling
  - Plain editing keys

## View Rendering (view.go)

  - Header with the stream and topic, or the DM recipients
  - Sent messages
  - Warnings from the last accepted suggestion
  - Popup or time picker, the composer and the status bar

# Usage

	m := chat.New(chat.Options{
		Theme:   styles.NewTheme(cfg.UI.Theme),
		Config:  cfg,
		Engine:  engine,
		Context: typeahead.ComposeContext{MessageType: typeahead.MessageStream, StreamID: 1},
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
*/
package chat
