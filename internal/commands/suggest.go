// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestions bounds "did you mean" hints.
const maxSuggestions = 3

// Suggest returns up to three command texts resembling name, best first.
// Subsequence matches win; otherwise names within edit distance two.
func Suggest(cmds []*Command, name string) []string {
	name = strings.TrimPrefix(strings.ToLower(name), "/")
	if name == "" {
		return nil
	}

	targets := make([]string, 0, len(cmds))
	owner := make(map[string]*Command, len(cmds))
	for _, cmd := range cmds {
		targets = append(targets, cmd.Name)
		owner[cmd.Name] = cmd
		for _, a := range cmd.Aliases {
			targets = append(targets, a)
			owner[a] = cmd
		}
	}

	matches := fuzzy.RankFindFold(name, targets)
	sort.Sort(matches)

	var out []string
	seen := make(map[*Command]bool)
	add := func(target string) {
		cmd := owner[target]
		if seen[cmd] || len(out) >= maxSuggestions {
			return
		}
		seen[cmd] = true
		out = append(out, cmd.Text())
	}
	for _, m := range matches {
		add(m.Target)
	}
	if len(out) > 0 {
		return out
	}

	type scored struct {
		target string
		dist   int
	}
	var near []scored
	for _, target := range targets {
		if d := fuzzy.LevenshteinDistance(name, target); d <= 2 {
			near = append(near, scored{target, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	for _, n := range near {
		add(n.target)
	}
	return out
}

// UnknownCommandHint formats the message shown for an unknown command.
func UnknownCommandHint(name string, suggestions []string) string {
	msg := "Unknown command " + name + "."
	switch len(suggestions) {
	case 0:
		return msg
	case 1:
		return msg + " Did you mean " + suggestions[0] + "?"
	default:
		return msg + " Did you mean one of " + strings.Join(suggestions, ", ") + "?"
	}
}
