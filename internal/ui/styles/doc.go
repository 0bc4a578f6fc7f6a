// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatcompose TUI.
//
// Two palettes exist, dark and light. A Theme holds the Lip Gloss styles
// built from one of them and can be switched at runtime, which is what the
// /dark and /light commands do.
package styles
