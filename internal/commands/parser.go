// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the result of parsing a message.
type ParseResult struct {
	// IsCommand is true if the message starts with /
	IsCommand bool

	// Command is the matched command (nil if not found)
	Command *Command

	// CommandName is the raw command name including the slash (e.g., "/poll")
	CommandName string

	// Body is everything after the command name, trimmed
	Body string

	// RawInput is the original message
	RawInput string
}

// =============================================================================
// OUTCOMES
// =============================================================================

// OutcomeKind says what sending a message does.
type OutcomeKind int

const (
	OutcomeMessage    OutcomeKind = iota // Plain message
	OutcomeAction                        // /me
	OutcomePoll                          // /poll
	OutcomeTodo                          // /todo
	OutcomeDarkTheme                     // /dark
	OutcomeLightTheme                    // /light
	OutcomeUnknown                       // Unrecognized command; nothing is sent
)

// Outcome describes the effect of sending a message.
type Outcome struct {
	Kind OutcomeKind

	// Command is set for recognized commands.
	Command *Command

	// Body is the message text (for commands, the text after the name).
	Body string

	// Options holds poll options or to-do tasks, one per body line after
	// the first for polls and every line for to-do lists.
	Options []string

	// Hint is a user-facing note for unknown commands.
	Hint string
}

// =============================================================================
// PARSER
// =============================================================================

// Parser splits messages into commands and bodies.
type Parser struct {
	registry *Registry
}

// NewParser creates a new parser with the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse parses a message. Returns IsCommand=false unless it starts with /.
func (p *Parser) Parse(input string) ParseResult {
	result := ParseResult{RawInput: input}

	trimmed := strings.TrimLeftFunc(input, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, "/") {
		return result
	}
	// "//" and "/ " are ordinary text.
	if len(trimmed) == 1 || trimmed[1] == '/' || unicode.IsSpace(rune(trimmed[1])) {
		return result
	}

	result.IsCommand = true
	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end == -1 {
		result.CommandName = trimmed
	} else {
		result.CommandName = trimmed[:end]
		result.Body = strings.TrimSpace(trimmed[end:])
	}
	result.Command = p.registry.Get(result.CommandName)
	return result
}

// Execute decides what sending input does. Dev-only commands are unknown
// outside development environments.
func (p *Parser) Execute(input string, devMode bool) Outcome {
	res := p.Parse(input)
	if !res.IsCommand {
		return Outcome{Kind: OutcomeMessage, Body: input}
	}

	cmd := res.Command
	if cmd == nil || (cmd.DevOnly && !devMode) {
		return Outcome{
			Kind: OutcomeUnknown,
			Body: res.Body,
			Hint: UnknownCommandHint(res.CommandName, Suggest(p.registry.Available(devMode), res.CommandName)),
		}
	}

	out := Outcome{Kind: cmd.Kind, Command: cmd, Body: res.Body}
	switch cmd.Kind {
	case OutcomePoll:
		lines := splitLines(res.Body)
		if len(lines) > 0 {
			out.Body = lines[0]
			out.Options = lines[1:]
		}
	case OutcomeTodo:
		out.Options = splitLines(res.Body)
		out.Body = ""
	}
	return out
}

// splitLines returns the non-blank lines of s, trimmed, with a leading
// list marker removed.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"- ", "* ", "+ "} {
			line = strings.TrimPrefix(line, marker)
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsCommand returns true if the input appears to be a command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}
