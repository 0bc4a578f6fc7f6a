// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatcompose/internal/compose"
	"github.com/jeranaias/chatcompose/internal/ui/styles"
)

// =============================================================================
// COMPOSER COMPONENT - Multiline message box with cursor and selection
// =============================================================================

// Composer renders a compose.Buffer.
type Composer struct {
	buffer      *compose.Buffer
	placeholder string
	width       int
	minHeight   int
	focused     bool
	theme       *styles.Theme
}

// NewComposer creates a composer over buf.
func NewComposer(buf *compose.Buffer, theme *styles.Theme) *Composer {
	return &Composer{
		buffer:      buf,
		placeholder: "Message... (@ mention, # channel, : emoji, / command)",
		width:       80,
		minHeight:   1,
		focused:     true,
		theme:       theme,
	}
}

// SetWidth sets the outer width.
func (c *Composer) SetWidth(width int) {
	c.width = width
}

// SetPlaceholder sets the text shown when the buffer is empty.
func (c *Composer) SetPlaceholder(p string) {
	c.placeholder = p
}

// Focus focuses the composer.
func (c *Composer) Focus() {
	c.focused = true
}

// Blur removes focus.
func (c *Composer) Blur() {
	c.focused = false
}

// View renders the box and its character counter.
func (c *Composer) View() string {
	var content string
	if c.buffer.Len() == 0 && !c.focused {
		content = c.theme.Placeholder.Render(c.placeholder)
	} else {
		content = c.renderText()
	}

	style := c.theme.Composer
	if c.focused {
		style = c.theme.ComposerFocused
	}
	box := style.Width(c.width - 2).Render(content)

	counter := lipgloss.NewStyle().
		Width(c.width - 2).
		Align(lipgloss.Right).
		Render(c.renderCharCount())

	return lipgloss.JoinVertical(lipgloss.Left, box, counter)
}

// renderText draws the text with the selection highlighted and a block
// cursor.
func (c *Composer) renderText() string {
	text := []rune(c.buffer.Value())
	cursor := c.buffer.Cursor()
	selStart, selEnd := c.buffer.Selection()

	var b strings.Builder
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			b.WriteString(plain.String())
			plain.Reset()
		}
	}

	for i, r := range text {
		switch {
		case c.focused && i == cursor && !c.buffer.HasSelection():
			flush()
			if r == '\n' {
				b.WriteString(c.theme.Cursor.Render(" "))
				b.WriteRune('\n')
			} else {
				b.WriteString(c.theme.Cursor.Render(string(r)))
			}
		case i >= selStart && i < selEnd:
			flush()
			if r == '\n' {
				b.WriteRune('\n')
			} else {
				b.WriteString(c.theme.Selection.Render(string(r)))
			}
		default:
			plain.WriteRune(r)
		}
	}
	flush()

	if c.focused && cursor >= len(text) && !c.buffer.HasSelection() {
		b.WriteString(c.theme.Cursor.Render(" "))
	}
	return b.String()
}

func (c *Composer) renderCharCount() string {
	n := c.buffer.Len()
	text := fmtNumber(n) + " chars | " + fmtNumber(len(c.buffer.Lines())) + " lines"
	if n >= compose.DefaultMaxChars*9/10 {
		return c.theme.CharCountDanger.Render(text)
	}
	return c.theme.CharCount.Render(text)
}
