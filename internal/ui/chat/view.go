// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatcompose/internal/typeahead"
)

// =============================================================================
// MAIN LAYOUT
// =============================================================================

// renderChat stacks the header, sent messages and the compose area.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderCompose(),
	)
}

// fixedHeight is the height of everything but the viewport.
func (m Model) fixedHeight() int {
	return lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderCompose())
}

// renderCompose renders the area below the sent messages: warnings,
// preview, popup or picker, message box and status bar.
func (m Model) renderCompose() string {
	var parts []string

	for _, w := range m.warnings {
		parts = append(parts, m.theme.RenderWarning(w))
	}

	if m.showPreview && m.buffer.Len() > 0 {
		if out := m.preview.Render(m.buffer.Value()); out != "" {
			parts = append(parts, m.theme.Muted.Render("Preview"), out)
		}
	}

	switch {
	case m.picker.IsOpen():
		parts = append(parts, m.picker.View())
	case m.popup.Visible():
		parts = append(parts, m.popup.View())
	}

	parts = append(parts, m.composer.View(), m.status.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	title := m.theme.HeaderTitle.Render(m.destination())
	var badge string
	if m.newTopic {
		badge = " " + m.theme.PopupNew.Render("(new topic)")
	}

	return m.theme.Header.Width(width).Render(title + badge)
}

// destination describes where the message goes.
func (m Model) destination() string {
	return Destination(m.dir, m.context)
}

// Destination names a compose context for display. dir may be nil.
func Destination(dir Directory, ctx typeahead.ComposeContext) string {
	switch {
	case ctx.IsStream():
		name := fmt.Sprintf("channel %d", ctx.StreamID)
		if dir != nil {
			if s, ok := dir.StreamByID(ctx.StreamID); ok {
				name = s.Name
			}
		}
		if ctx.Topic == "" {
			return "#" + name
		}
		return "#" + name + " > " + ctx.Topic

	case ctx.IsPrivate():
		names := make([]string, 0, len(ctx.Recipients))
		for _, id := range ctx.Recipients {
			name := fmt.Sprintf("user %d", id)
			if dir != nil {
				if u, ok := dir.UserByID(id); ok {
					name = u.FullName
				}
			}
			names = append(names, name)
		}
		if len(names) == 0 {
			return "DM"
		}
		return "DM: " + strings.Join(names, ", ")
	}
	return "New message"
}

// =============================================================================
// SENT MESSAGES
// =============================================================================

// updateViewport re-renders the sent messages into the viewport.
func (m *Model) updateViewport() {
	if len(m.sent) == 0 {
		m.viewport.SetContent(m.renderEmptyState())
		return
	}
	rendered := make([]string, len(m.sent))
	for i, msg := range m.sent {
		rendered[i] = m.renderSentMessage(msg)
	}
	m.viewport.SetContent(strings.Join(rendered, "\n\n"))
}

func (m *Model) renderSentMessage(msg SentMessage) string {
	layout := "3:04pm"
	if m.cfg.Compose.TwentyFourHourTime {
		layout = "15:04"
	}
	meta := []string{msg.Time.Format(layout)}
	if msg.Context.MessageType == typeahead.MessageStream && msg.Context.Topic != "" {
		meta = append(meta, msg.Context.Topic)
	}
	if label := msg.KindLabel(); label != "" {
		meta = append(meta, label)
	}

	var body strings.Builder
	body.WriteString(msg.Body)
	for _, opt := range msg.Options {
		body.WriteString("\n  - " + opt)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.SentMeta.Render(strings.Join(meta, " | ")),
		m.theme.SentMessage.Render(body.String()),
	)
}

func (m *Model) renderEmptyState() string {
	return m.theme.Muted.Render("Nothing sent yet. Type @ to mention someone, # for a channel, : for emoji, F1 for help.")
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m Model) renderHelpOverlay() string {
	var sb strings.Builder
	sb.WriteString(m.theme.HeaderTitle.Render("Keys"))
	sb.WriteString("\n\n")
	sb.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.HeaderTitle.Render("Typing"))
	sb.WriteString("\n\n")
	for _, item := range GetSyntaxHelpItems() {
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			m.theme.StatusKey.Render(fmt.Sprintf("%-10s", item.Key)),
			m.theme.Muted.Render(item.Desc)))
	}
	sb.WriteString("\n")
	sb.WriteString(m.theme.Muted.Render("Press F1 or Esc to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.Popup.Render(sb.String()))
}
