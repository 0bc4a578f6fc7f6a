// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typeahead implements the composer's autocomplete engine.
//
// The engine looks at the text before the cursor, finds the token being
// typed (an @-mention, #stream, :emoji:, /command, code fence, topic link or
// <time> marker), lists matching suggestions in a mode-specific order and,
// once the user picks one, rewrites the message with the canonical syntax.
//
// # Key Types
//
//   - Engine: stateful per input box; Candidates sets the completion mode
//     that Apply, HeaderTip and AutomatedSelection read
//   - Suggestion: one entry in the popup (user, broadcast, group, stream,
//     emoji, slash command, topic, language, time jump, topic jump)
//   - Result: the rewritten text, cursor and optional placeholder
//     selection after applying a suggestion
//
// # Usage
//
//	eng := typeahead.NewEngine(typeahead.Sources{Directory: dir, ...}, opts)
//	items := eng.Candidates(text, cursor, composeCtx)
//	res := eng.Apply(items[0], text, cursor, typeahead.ApplyOptions{Context: composeCtx})
//
// An Engine is not safe for concurrent use; each input box owns one.
package typeahead
