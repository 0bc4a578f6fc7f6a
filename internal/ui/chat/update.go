// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/chatcompose/internal/commands"
	"github.com/jeranaias/chatcompose/internal/compose"
	"github.com/jeranaias/chatcompose/internal/typeahead"
	"github.com/jeranaias/chatcompose/internal/ui/styles"
)

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The time picker owns the keyboard while open
	if m.picker.IsOpen() {
		return m.handlePickerKey(msg)
	}

	if m.showHelp {
		switch msg.String() {
		case "f1", "esc", "enter", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.popup.Visible() {
		if handled, cmd := m.handlePopupKey(msg); handled {
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CodeFence):
		m.InsertCodeFence()
		return m, nil

	case key.Matches(msg, m.keys.TogglePreview):
		m.showPreview = !m.showPreview
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil

	case msg.Type == tea.KeyEnter || msg.Type == tea.KeyCtrlJ:
		mods := compose.Modifiers{Alt: msg.Alt, Ctrl: msg.Type == tea.KeyCtrlJ}
		if compose.ShouldEnterSend(m.cfg.Compose.EnterSends, mods) {
			return m.send()
		}
		compose.HandleEnter(m.buffer)

	case msg.Type == tea.KeyEsc:
		m.warnings = nil
		return m, nil

	default:
		if !m.handleEditKey(msg) {
			return m, nil
		}
	}

	m.dismissed = false
	m.edited()
	return m, nil
}

// handleEditKey applies a text editing key. It reports false for keys it
// does not know.
func (m *Model) handleEditKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.SelectAll):
		m.buffer.Select(0, m.buffer.Len())
		return true
	case key.Matches(msg, m.keys.DeleteWord):
		m.buffer.DeleteWordBackward()
		return true
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.buffer.Insert(string(msg.Runes))
	case tea.KeySpace:
		m.buffer.InsertRune(' ')
	case tea.KeyBackspace:
		m.buffer.Backspace()
	case tea.KeyDelete:
		m.buffer.Delete()
	case tea.KeyLeft:
		m.buffer.Left()
	case tea.KeyRight:
		m.buffer.Right()
	case tea.KeyHome:
		m.buffer.Home()
	case tea.KeyEnd:
		m.buffer.End()
	case tea.KeyUp:
		m.buffer.Up()
	case tea.KeyDown:
		m.buffer.Down()
	default:
		return false
	}
	return true
}

// handlePopupKey handles keys that act on the suggestion popup.
func (m *Model) handlePopupKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PopupUp):
		m.popup.Prev()
		return true, nil

	case key.Matches(msg, m.keys.PopupDown):
		m.popup.Next()
		return true, nil

	case key.Matches(msg, m.keys.Accept), msg.Type == tea.KeyEnter && !msg.Alt:
		return true, m.accept(m.popup.Selected(), "")

	case key.Matches(msg, m.keys.Dismiss):
		m.dismissPopup()
		return true, nil

	case msg.Type == tea.KeyRunes && m.engine.TriggersSelection(string(msg.Runes)):
		return true, m.accept(m.popup.Selected(), string(msg.Runes))
	}
	return false, nil
}

func (m *Model) dismissPopup() {
	m.dismissed = true
	m.popup.Clear()
	m.engine.Reset()
	m.status.Mode = ""
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.picker.Close()
		return m, nil

	case tea.KeyEnter:
		t, err := m.picker.Value()
		if err != nil {
			m.picker.SetError(err)
			return m, nil
		}
		m.picker.Close()
		res := m.engine.ApplyTimestamp(m.buffer.Value(), m.pickerCursor, typeahead.FormatTimestamp(t))
		m.applyResult(res)
		m.edited()
		return m, nil
	}
	return m, m.picker.Update(msg)
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

// edited runs after every change to the text or cursor.
func (m *Model) edited() {
	m.refreshSuggestions()
	if m.showPreview {
		m.layout()
	}
}

// refreshSuggestions asks the engine for suggestions at the cursor.
func (m *Model) refreshSuggestions() {
	if m.dismissed {
		return
	}
	items := m.engine.Candidates(m.buffer.Value(), m.buffer.Cursor(), m.context)
	if m.engine.AutomatedSelection() && len(items) > 0 {
		m.accept(items[0], "")
		return
	}
	m.popup.SetItems(items, m.engine.HeaderTip())
	m.status.Mode = string(m.engine.Mode())
}

// accept writes item into the buffer. trigger is the key that accepted it
// when that was not Tab or Enter.
func (m *Model) accept(item typeahead.Suggestion, trigger string) tea.Cmd {
	if item == nil {
		return nil
	}
	res := m.engine.Apply(item, m.buffer.Value(), m.buffer.Cursor(), typeahead.ApplyOptions{
		Key:     trigger,
		Context: m.context,
	})
	m.popup.Clear()

	if res.TimePicker != nil {
		m.pickerCursor = res.Cursor
		m.engine.Reset()
		m.status.Mode = ""
		return m.picker.Open(res.TimePicker.Initial)
	}

	m.applyResult(res)
	m.refreshSuggestions()
	return nil
}

func (m *Model) applyResult(res typeahead.Result) {
	m.buffer.Replace(res.Text, res.Cursor)
	if h := res.Highlight; h != nil {
		m.buffer.Select(h.Start, h.End)
	}
	m.warnings = res.Warnings
	m.engine.SetCodeFormattingButton(false)
}

// InsertCodeFence starts a code block at the cursor, as the formatting
// button does, so the language popup opens on the empty fence.
func (m *Model) InsertCodeFence() {
	before := m.buffer.Before()
	if before != "" && !strings.HasSuffix(before, "\n") {
		m.buffer.Insert("\n")
	}
	m.buffer.Insert("```")
	m.engine.SetCodeFormattingButton(true)
	m.dismissed = false
	m.edited()
}

// =============================================================================
// SENDING
// =============================================================================

func (m Model) send() (tea.Model, tea.Cmd) {
	text := m.buffer.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	out := m.parser.Execute(text, m.cfg.Compose.DevelopmentEnvironment)
	switch out.Kind {
	case commands.OutcomeUnknown:
		m.status.Message = out.Hint
		return m, nil

	case commands.OutcomeDarkTheme:
		m.setTheme(styles.ThemeDark)
		m.resetCompose()
		return m, nil

	case commands.OutcomeLightTheme:
		m.setTheme(styles.ThemeLight)
		m.resetCompose()
		return m, nil
	}

	sent := SentMessage{
		ID:      m.messageID(),
		Kind:    out.Kind,
		Body:    out.Body,
		Options: out.Options,
		Context: m.context,
		Time:    m.now(),
	}
	m.sent = append(m.sent, sent)
	m.logger.Info("message sent",
		zap.String("id", sent.ID),
		zap.String("kind", sent.KindLabel()),
		zap.Int("chars", len([]rune(text))))

	m.resetCompose()
	m.status.Message = ""
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, RecordUsageCmd(m.usage, EmojiNames(text))
}

func (m *Model) resetCompose() {
	m.buffer.Reset()
	m.warnings = nil
	m.dismissed = false
	m.popup.Clear()
	m.engine.Reset()
	m.status.Mode = ""
	m.layout()
}

func (m *Model) setTheme(name string) {
	m.theme.SetName(name)
	m.preview.SetStyle(m.theme.Name)
	m.status.Message = "Switched to " + m.theme.Name + " theme"
	m.updateViewport()
}

func (m *Model) messageID() string {
	if m.newID != nil {
		return m.newID()
	}
	m.nextID++
	return strconv.Itoa(m.nextID)
}
