// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN PREVIEW
// =============================================================================

// Preview renders message markdown with glamour. Renderers are cached per
// style and width.
type Preview struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewPreview creates a preview for the "dark" or "light" glamour style.
func NewPreview(style string) *Preview {
	return &Preview{style: style, width: 80}
}

// SetStyle switches between the dark and light glamour styles.
func (p *Preview) SetStyle(style string) {
	if style != p.style {
		p.style = style
		p.renderer = nil
	}
}

// SetWidth sets the wrap width.
func (p *Preview) SetWidth(width int) {
	if width != p.width {
		p.width = width
		p.renderer = nil
	}
}

// Render renders markdown. If rendering fails the text is returned as is.
func (p *Preview) Render(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	if p.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(p.style),
			glamour.WithWordWrap(p.width),
		)
		if err != nil {
			return markdown
		}
		p.renderer = r
	}
	out, err := p.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(out, "\n")
}
