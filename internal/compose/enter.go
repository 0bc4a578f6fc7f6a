// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compose

import (
	"regexp"
	"strconv"
	"strings"
)

// Modifiers are the keys held with Enter.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// ShouldEnterSend decides whether Enter sends the message. With
// enterSends, a bare Enter sends and any modifier inserts a newline.
// Without it, Ctrl, Alt or Meta sends; Shift+Enter never does.
func ShouldEnterSend(enterSends bool, mods Modifiers) bool {
	nonShift := mods.Ctrl || mods.Alt || mods.Meta
	if enterSends {
		return !nonShift && !mods.Shift
	}
	return nonShift
}

var numberedRe = regexp.MustCompile(`^(\d+)\. `)

var bullets = []string{"- ", "* ", "+ "}

// HandleEnter inserts a newline the way the compose box does when Enter
// does not send. A selection is replaced by a plain newline. Outside code
// blocks, list items continue on the next line, and Enter on an empty item
// removes its marker instead.
func HandleEnter(b *Buffer) {
	if b.HasSelection() {
		b.Insert("\n")
		return
	}
	if InsideCodeBlock(b.Before()) {
		b.Insert("\n")
		return
	}

	line := lastLine(b.Before())

	for _, bullet := range bullets {
		if !strings.HasPrefix(line, bullet) {
			continue
		}
		if line == bullet {
			b.Select(b.Cursor()-len(bullet), b.Cursor())
			b.Insert("")
			return
		}
		b.Insert("\n" + bullet)
		return
	}

	if m := numberedRe.FindStringSubmatch(line); m != nil {
		if line == m[0] {
			b.Select(b.Cursor()-len([]rune(m[0])), b.Cursor())
			b.Insert("")
			return
		}
		n, err := strconv.Atoi(m[1])
		if err == nil {
			b.Insert("\n" + strconv.Itoa(n+1) + ". ")
			return
		}
	}

	b.Insert("\n")
}

// InsideCodeBlock reports whether text ends inside an open ``` or ~~~
// fence.
func InsideCodeBlock(text string) bool {
	var open string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		switch {
		case open == "" && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")):
			open = trimmed[:3]
		case open != "" && strings.HasPrefix(trimmed, open):
			open = ""
		}
	}
	return open != ""
}

func lastLine(text string) string {
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		return text[i+1:]
	}
	return text
}
