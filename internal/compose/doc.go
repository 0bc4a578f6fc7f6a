// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compose holds the message being written: a rune buffer with a
// cursor and selection, and the Enter key behaviour of the compose box.
//
// Positions are counted in characters (runes), matching the typeahead
// engine, so results from typeahead.Engine.Apply can be written back with
// Buffer.Replace.
package compose
