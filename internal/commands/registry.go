// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is a slash command that can start a message.
type Command struct {
	// Name without the slash (e.g., "poll")
	Name string

	// Aliases are alternative names without the slash (e.g., "night")
	Aliases []string

	// Info is shown next to the command in the typeahead
	Info string

	// Placeholder is inserted after the command and highlighted so the
	// user can type over it
	Placeholder string

	// DevOnly commands are offered only in development environments
	DevOnly bool

	// Kind is what sending the command does
	Kind OutcomeKind
}

// Text returns the command as typed, e.g. "/poll".
func (c *Command) Text() string {
	return "/" + c.Name
}

// Matches reports whether name is the command's name or one of its aliases.
func (c *Command) Matches(name string) bool {
	name = strings.TrimPrefix(strings.ToLower(name), "/")
	if name == c.Name {
		return true
	}
	for _, a := range c.Aliases {
		if name == a {
			return true
		}
	}
	return false
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias, with or without the slash.
func (r *Registry) Get(name string) *Command {
	name = strings.TrimPrefix(strings.ToLower(name), "/")
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands ordered by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Available returns the commands offered in the given environment.
func (r *Registry) Available(devMode bool) []*Command {
	all := r.All()
	out := all[:0]
	for _, cmd := range all {
		if cmd.DevOnly && !devMode {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:    "dark",
		Aliases: []string{"night"},
		Info:    "Switch to the dark theme",
		DevOnly: true,
		Kind:    OutcomeDarkTheme,
	})

	r.Register(&Command{
		Name:    "light",
		Aliases: []string{"day"},
		Info:    "Switch to light theme",
		DevOnly: true,
		Kind:    OutcomeLightTheme,
	})

	r.Register(&Command{
		Name:        "me",
		Info:        "Action message",
		Placeholder: "is …",
		Kind:        OutcomeAction,
	})

	r.Register(&Command{
		Name:        "poll",
		Info:        "Create a poll",
		Placeholder: "Question",
		Kind:        OutcomePoll,
	})

	r.Register(&Command{
		Name:        "todo",
		Info:        "Create a collaborative to-do list",
		Placeholder: "Task list",
		Kind:        OutcomeTodo,
	})
}
