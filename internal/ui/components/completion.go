// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatcompose/internal/typeahead"
	"github.com/jeranaias/chatcompose/internal/ui/styles"
)

// =============================================================================
// SUGGESTION POPUP COMPONENT
// =============================================================================

// SuggestionPopup displays the typeahead suggestions above the composer.
type SuggestionPopup struct {
	items      []typeahead.Suggestion
	tip        string
	selected   int
	maxVisible int
	width      int
	theme      *styles.Theme
}

// NewSuggestionPopup creates an empty popup.
func NewSuggestionPopup(theme *styles.Theme) *SuggestionPopup {
	return &SuggestionPopup{
		maxVisible: 8,
		width:      50,
		theme:      theme,
	}
}

// SetItems replaces the suggestions and selects the first one. tip is the
// header line shown above them, if any.
func (c *SuggestionPopup) SetItems(items []typeahead.Suggestion, tip string) {
	c.items = items
	c.tip = tip
	c.selected = 0
}

// Items returns the current suggestions.
func (c *SuggestionPopup) Items() []typeahead.Suggestion {
	return c.items
}

// Visible reports whether there is anything to show.
func (c *SuggestionPopup) Visible() bool {
	return len(c.items) > 0
}

// Clear hides the popup.
func (c *SuggestionPopup) Clear() {
	c.items = nil
	c.tip = ""
	c.selected = 0
}

// Selected returns the highlighted suggestion, or nil.
func (c *SuggestionPopup) Selected() typeahead.Suggestion {
	if c.selected < 0 || c.selected >= len(c.items) {
		return nil
	}
	return c.items[c.selected]
}

// SelectedIndex returns the highlighted position.
func (c *SuggestionPopup) SelectedIndex() int {
	return c.selected
}

// Next selects the next suggestion, wrapping around.
func (c *SuggestionPopup) Next() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.items)
}

// Prev selects the previous suggestion, wrapping around.
func (c *SuggestionPopup) Prev() {
	if len(c.items) == 0 {
		return
	}
	c.selected--
	if c.selected < 0 {
		c.selected = len(c.items) - 1
	}
}

// SetWidth sets the popup width.
func (c *SuggestionPopup) SetWidth(width int) {
	c.width = width
}

// SetMaxVisible sets the number of rows shown at once.
func (c *SuggestionPopup) SetMaxVisible(n int) {
	if n > 0 {
		c.maxVisible = n
	}
}

// window returns the visible range, keeping the selection centred.
func (c *SuggestionPopup) window() (start, end int) {
	end = len(c.items)
	if len(c.items) <= c.maxVisible {
		return 0, end
	}
	start = c.selected - c.maxVisible/2
	if start < 0 {
		start = 0
	}
	end = start + c.maxVisible
	if end > len(c.items) {
		end = len(c.items)
		start = end - c.maxVisible
	}
	return start, end
}

// View renders the popup.
func (c *SuggestionPopup) View() string {
	if len(c.items) == 0 {
		return ""
	}

	inner := c.width - 4
	if inner < 10 {
		inner = 10
	}

	var rows []string
	if c.tip != "" {
		rows = append(rows, c.theme.PopupTip.Render(truncate(c.tip, inner)))
	}

	start, end := c.window()
	for i := start; i < end; i++ {
		rows = append(rows, c.renderItem(c.items[i], i == c.selected, inner))
	}
	if hidden := len(c.items) - (end - start); hidden > 0 {
		rows = append(rows, c.theme.Muted.Render(fmtNumber(len(c.items))+" suggestions"))
	}

	return c.theme.Popup.Width(c.width - 2).Render(strings.Join(rows, "\n"))
}

// renderItem renders one row: indicator, primary text and secondary text.
func (c *SuggestionPopup) renderItem(item typeahead.Suggestion, isSelected bool, width int) string {
	primary, secondary := Label(item)

	primaryWidth := width * 2 / 5
	if primaryWidth < 12 {
		primaryWidth = 12
	}
	secondaryWidth := width - primaryWidth - 3
	if secondaryWidth < 0 {
		secondaryWidth = 0
	}

	indicator := "  "
	primaryStyle := c.primaryStyle(item)
	secondaryStyle := c.theme.PopupSecondary
	if t, ok := item.(typeahead.TopicSuggestion); ok && t.New {
		secondaryStyle = c.theme.PopupNew
	}
	if isSelected {
		indicator = "> "
		primaryStyle = c.theme.PopupSelected
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		c.theme.Prompt.Render(indicator),
		primaryStyle.Render(fit(primary, primaryWidth)),
		" ",
		secondaryStyle.Render(truncate(secondary, secondaryWidth)),
	)
}

func (c *SuggestionPopup) primaryStyle(item typeahead.Suggestion) lipgloss.Style {
	switch item.Kind() {
	case typeahead.KindUser, typeahead.KindBroadcast, typeahead.KindGroup:
		return c.theme.PopupMention
	case typeahead.KindStream, typeahead.KindTopic:
		return c.theme.PopupLink
	}
	return c.theme.PopupItem
}

// Label returns the texts shown for a suggestion. Emoji lead with their
// glyph; streams and slash commands show their sigil.
func Label(item typeahead.Suggestion) (primary, secondary string) {
	primary, secondary = item.Primary(), item.Secondary()
	switch v := item.(type) {
	case typeahead.EmojiSuggestion:
		if g := v.Glyph(); g != "" {
			return g + " " + primary, ""
		}
		return primary, "custom"
	case typeahead.UserSuggestion:
		if v.Silent {
			primary = "_" + primary
		}
	case typeahead.BroadcastSuggestion:
		primary = "@" + primary
	case typeahead.GroupSuggestion:
		primary = "@" + primary
		secondary = strings.TrimSpace(secondary + " (" + fmtNumber(len(v.Group.Members)) + " members)")
	case typeahead.StreamSuggestion:
		primary = "#" + primary
		if v.Stream.InviteOnly {
			primary += " (private)"
		}
	case typeahead.LanguageSuggestion:
		if primary == "" {
			primary = "(no language)"
		}
	}
	return primary, secondary
}
