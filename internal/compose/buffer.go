// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compose

import "strings"

// DefaultMaxChars is the longest message a Buffer accepts.
const DefaultMaxChars = 10000

// Buffer is the text of the compose box. The selection runs from the
// anchor to the cursor; it is empty when they are equal.
type Buffer struct {
	text     []rune
	cursor   int
	anchor   int
	maxChars int
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{maxChars: DefaultMaxChars}
}

// SetMaxChars changes the character limit. Values below 1 remove it.
func (b *Buffer) SetMaxChars(n int) {
	b.maxChars = n
}

// Value returns the full text.
func (b *Buffer) Value() string {
	return string(b.text)
}

// Len is the length in characters.
func (b *Buffer) Len() int {
	return len(b.text)
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// SetValue replaces the text and moves the cursor to the end.
func (b *Buffer) SetValue(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
	b.anchor = b.cursor
}

// Replace sets the text and cursor in one step, as after accepting a
// suggestion. The cursor is clamped to the text.
func (b *Buffer) Replace(s string, cursor int) {
	b.text = []rune(s)
	b.SetCursor(cursor)
}

// Reset clears the buffer.
func (b *Buffer) Reset() {
	b.text = nil
	b.cursor = 0
	b.anchor = 0
}

// SetCursor moves the cursor and clears the selection.
func (b *Buffer) SetCursor(pos int) {
	b.cursor = b.clamp(pos)
	b.anchor = b.cursor
}

// Select selects [start, end) and leaves the cursor at end.
func (b *Buffer) Select(start, end int) {
	b.anchor = b.clamp(start)
	b.cursor = b.clamp(end)
}

// Selection returns the selected range, start <= end.
func (b *Buffer) Selection() (start, end int) {
	if b.anchor <= b.cursor {
		return b.anchor, b.cursor
	}
	return b.cursor, b.anchor
}

// HasSelection reports whether any text is selected.
func (b *Buffer) HasSelection() bool {
	return b.anchor != b.cursor
}

// SelectedText returns the selected text.
func (b *Buffer) SelectedText() string {
	start, end := b.Selection()
	return string(b.text[start:end])
}

// Before returns the text before the cursor.
func (b *Buffer) Before() string {
	return string(b.text[:b.cursor])
}

// After returns the text after the cursor.
func (b *Buffer) After() string {
	return string(b.text[b.cursor:])
}

// Insert replaces the selection with s and moves the cursor after it.
// Input that would exceed the limit is truncated.
func (b *Buffer) Insert(s string) {
	start, end := b.Selection()
	ins := []rune(s)
	if b.maxChars > 0 {
		room := b.maxChars - (len(b.text) - (end - start))
		if room < 0 {
			room = 0
		}
		if len(ins) > room {
			ins = ins[:room]
		}
	}

	out := make([]rune, 0, len(b.text)-(end-start)+len(ins))
	out = append(out, b.text[:start]...)
	out = append(out, ins...)
	out = append(out, b.text[end:]...)
	b.text = out
	b.SetCursor(start + len(ins))
}

// InsertRune inserts a single character.
func (b *Buffer) InsertRune(r rune) {
	b.Insert(string(r))
}

// Backspace deletes the selection or the character before the cursor.
func (b *Buffer) Backspace() {
	if b.HasSelection() {
		b.Insert("")
		return
	}
	if b.cursor == 0 {
		return
	}
	b.Select(b.cursor-1, b.cursor)
	b.Insert("")
}

// Delete deletes the selection or the character after the cursor.
func (b *Buffer) Delete() {
	if b.HasSelection() {
		b.Insert("")
		return
	}
	if b.cursor >= len(b.text) {
		return
	}
	b.Select(b.cursor, b.cursor+1)
	b.Insert("")
}

// DeleteWordBackward deletes back to the previous word start.
func (b *Buffer) DeleteWordBackward() {
	if b.HasSelection() {
		b.Insert("")
		return
	}
	i := b.cursor
	for i > 0 && isBlank(b.text[i-1]) {
		i--
	}
	for i > 0 && !isBlank(b.text[i-1]) {
		i--
	}
	b.Select(i, b.cursor)
	b.Insert("")
}

// Left moves the cursor one character back.
func (b *Buffer) Left() {
	b.SetCursor(b.cursor - 1)
}

// Right moves the cursor one character forward.
func (b *Buffer) Right() {
	b.SetCursor(b.cursor + 1)
}

// Home moves to the start of the current line.
func (b *Buffer) Home() {
	b.SetCursor(b.lineStart(b.cursor))
}

// End moves to the end of the current line.
func (b *Buffer) End() {
	b.SetCursor(b.lineEnd(b.cursor))
}

// Up moves to the same column on the previous line.
func (b *Buffer) Up() {
	start := b.lineStart(b.cursor)
	if start == 0 {
		b.SetCursor(0)
		return
	}
	col := b.cursor - start
	prevStart := b.lineStart(start - 1)
	b.SetCursor(min(prevStart+col, start-1))
}

// Down moves to the same column on the next line.
func (b *Buffer) Down() {
	end := b.lineEnd(b.cursor)
	if end >= len(b.text) {
		b.SetCursor(len(b.text))
		return
	}
	col := b.cursor - b.lineStart(b.cursor)
	nextStart := end + 1
	b.SetCursor(min(nextStart+col, b.lineEnd(nextStart)))
}

// Lines splits the text into lines.
func (b *Buffer) Lines() []string {
	return strings.Split(string(b.text), "\n")
}

// CursorRowCol returns the cursor line and column, both from 0.
func (b *Buffer) CursorRowCol() (row, col int) {
	start := 0
	for i := 0; i < b.cursor; i++ {
		if b.text[i] == '\n' {
			row++
			start = i + 1
		}
	}
	return row, b.cursor - start
}

func (b *Buffer) lineStart(pos int) int {
	for pos > 0 && b.text[pos-1] != '\n' {
		pos--
	}
	return pos
}

func (b *Buffer) lineEnd(pos int) int {
	for pos < len(b.text) && b.text[pos] != '\n' {
		pos++
	}
	return pos
}

func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(b.text) {
		return len(b.text)
	}
	return pos
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
