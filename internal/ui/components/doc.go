// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the chatcompose TUI:
// the composer box, the suggestion popup, the time picker, the markdown
// preview and the status bar.
package components
