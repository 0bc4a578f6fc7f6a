// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"strings"
	"unicode"
)

// MaxLookback is how many characters before the cursor the tokenizer
// examines.
const MaxLookback = 40

// Tokens returned for a '>' near the cursor. Neither is literal text; the
// engine re-examines the input with the topic patterns.
const (
	TopicJumpToken = ">topic_jump"
	TopicListToken = ">topic_list"
)

// terminalSymbols may follow a token being completed. Anything else right
// after the cursor means the cursor sits inside a finished word.
const terminalSymbols = ",.;?!()[]> \u00a0\"'\n\t"

// TokenizeComposeStr finds the token being typed at the end of s, the text
// before the cursor. It scans backward at most MaxLookback characters for a
// sigil at the start of the text or after whitespace or an opening
// punctuation mark, and returns the text from the sigil on. It returns ""
// when there is nothing to complete.
func TokenizeComposeStr(s string) string {
	r := []rune(s)
	minI := len(r) - MaxLookback
	if minI < 0 {
		minI = 0
	}

	for i := len(r) - 1; i >= minI; i-- {
		switch r[i] {
		case '`', '~':
			// Fences must start a line.
			if i == 2 {
				return s
			}
			if i > 2 && r[i-3] == '\n' {
				return string(r[i-2:])
			}

		case '/':
			if i == 0 {
				return s
			}

		case '#', '@', ':', '_':
			if i == 0 {
				return s
			}
			if opensToken(r[i-1]) {
				return string(r[i:])
			}

		case '<':
			if strings.HasPrefix(string(r[i:]), "<time") {
				return string(r[i:])
			}

		case '>':
			if hasSuffixBefore(r, i, "**") || hasSuffixBefore(r, i, "** ") {
				return TopicJumpToken
			}
			return TopicListToken
		}
	}
	return ""
}

// opensToken reports whether a sigil after c starts a token.
func opensToken(c rune) bool {
	return unicode.IsSpace(c) || strings.ContainsRune(`"'(/<[{`, c)
}

// hasSuffixBefore reports whether r[:i] ends with suffix.
func hasSuffixBefore(r []rune, i int, suffix string) bool {
	sr := []rune(suffix)
	if i < len(sr) {
		return false
	}
	return string(r[i-len(sr):i]) == suffix
}

// SplitAtCursor splits text at a cursor given in characters (runes). The
// cursor is clamped to the text.
func SplitAtCursor(text string, cursor int) (before, after string) {
	r := []rune(text)
	cursor = clampCursor(cursor, len(r))
	return string(r[:cursor]), string(r[cursor:])
}

func clampCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > n {
		return n
	}
	return cursor
}

// inWord reports whether the text after the cursor continues a word, in
// which case nothing is completed.
func inWord(after string) bool {
	if after == "" {
		return false
	}
	first := []rune(after)[0]
	return !strings.ContainsRune(terminalSymbols, first)
}

// runeLen is the length of s in characters.
func runeLen(s string) int {
	return len([]rune(s))
}

// dropLastRunes removes the last n characters of s.
func dropLastRunes(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return ""
	}
	if n <= 0 {
		return s
	}
	return string(r[:len(r)-n])
}
