// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash commands available in the composer.
//
// # Key Types
//
//   - Registry: the built-in commands, filtered by environment
//   - ParseResult: a message split into command name and body
//   - Outcome: what sending a command message does
//
// # Built-in Commands
//
//   - /me: action message
//   - /poll: create a poll
//   - /todo: create a collaborative to-do list
//   - /dark, /light: switch theme (development environments only)
//
// # Usage
//
//	reg := commands.NewRegistry()
//	out := commands.NewParser(reg).Execute(message, devMode)
//	if out.Kind == commands.OutcomeUnknown {
//	    fmt.Println(out.Hint) // "Unknown command /pol. Did you mean /poll?"
//	}
package commands
