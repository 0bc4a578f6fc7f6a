// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package languages lists the code block languages the composer can
// complete after a fence, ranked by popularity.
package languages

import (
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Markdown extensions that are written like fence languages but are not
// highlighted code.
var extensions = []string{"spoiler", "quote", "math"}

// popular lists the most used languages, most popular first. Everything
// else ranks below them alphabetically.
var popular = []string{
	"quote", "spoiler", "math",
	"python", "javascript", "java", "go", "c", "cpp", "typescript",
	"bash", "sql", "html", "css", "json", "yaml", "rust", "ruby",
	"php", "kotlin", "swift", "csharp", "scala", "haskell", "markdown",
	"text", "diff", "console", "dockerfile", "lua", "perl", "r",
}

// Catalogue is an immutable set of language names.
type Catalogue struct {
	names    []string
	priority map[string]int
	known    map[string]bool
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalogue
)

// Default returns the catalogue built from the registered chroma lexers.
func Default() *Catalogue {
	defaultOnce.Do(func() {
		defaultCat = New(lexerNames())
	})
	return defaultCat
}

// lexerNames returns every lexer name and alias usable in a fence.
func lexerNames() []string {
	var names []string
	for _, name := range lexers.Names(true) {
		name = strings.ToLower(name)
		if name == "" || strings.ContainsAny(name, " \t`~") {
			continue
		}
		names = append(names, name)
	}
	return names
}

// New builds a catalogue from names plus the markdown extensions.
func New(names []string) *Catalogue {
	c := &Catalogue{
		priority: make(map[string]int, len(popular)),
		known:    make(map[string]bool, len(names)+len(extensions)),
	}
	for i, name := range popular {
		c.priority[name] = len(popular) - i
	}

	for _, name := range append(append([]string(nil), extensions...), names...) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || c.known[name] {
			continue
		}
		c.known[name] = true
		c.names = append(c.names, name)
	}
	sort.SliceStable(c.names, func(i, j int) bool {
		return c.Compare(c.names[i], c.names[j]) < 0
	})
	return c
}

// Names returns all languages, most popular first.
func (c *Catalogue) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Known reports whether name is in the catalogue.
func (c *Catalogue) Known(name string) bool {
	return c.known[strings.ToLower(name)]
}

// Priority is higher for more popular languages; unranked ones are 0.
func (c *Catalogue) Priority(name string) int {
	return c.priority[strings.ToLower(name)]
}

// Compare orders by popularity, then alphabetically.
func (c *Catalogue) Compare(a, b string) int {
	pa, pb := c.Priority(a), c.Priority(b)
	if pa != pb {
		if pa > pb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
