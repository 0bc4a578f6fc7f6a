// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatcompose/internal/ui/styles"
)

// ErrBadTime is returned for input the picker cannot read.
var ErrBadTime = errors.New("expected a time like 2025-06-01 14:30")

// Picker layouts, tried in order.
var pickerLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 3:04pm",
	"2006-01-02 3:04 pm",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02",
}

// =============================================================================
// TIME PICKER COMPONENT
// =============================================================================

// TimePicker is a one-line editor for the <time:...> mention.
type TimePicker struct {
	input      textinput.Model
	open       bool
	twentyFour bool
	location   *time.Location
	err        error
	theme      *styles.Theme
}

// NewTimePicker creates a closed picker.
func NewTimePicker(theme *styles.Theme, twentyFourHour bool) *TimePicker {
	ti := textinput.New()
	ti.Prompt = "Time: "
	ti.CharLimit = 40
	ti.Width = 30
	ti.PromptStyle = theme.Prompt
	return &TimePicker{
		input:      ti,
		twentyFour: twentyFourHour,
		location:   time.Local,
		theme:      theme,
	}
}

// Open shows the picker with initial filled in.
func (p *TimePicker) Open(initial time.Time) tea.Cmd {
	p.open = true
	p.err = nil
	p.location = initial.Location()
	p.input.SetValue(p.format(initial))
	p.input.CursorEnd()
	return p.input.Focus()
}

// Close hides the picker.
func (p *TimePicker) Close() {
	p.open = false
	p.err = nil
	p.input.Blur()
}

// IsOpen reports whether the picker is shown.
func (p *TimePicker) IsOpen() bool {
	return p.open
}

// Value parses the typed time.
func (p *TimePicker) Value() (time.Time, error) {
	return ParsePickerTime(p.input.Value(), p.location)
}

// SetError shows err under the input.
func (p *TimePicker) SetError(err error) {
	p.err = err
}

// Update forwards key input to the text field.
func (p *TimePicker) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the picker.
func (p *TimePicker) View() string {
	if !p.open {
		return ""
	}
	lines := []string{
		p.theme.PopupTip.Render("Mention a time-zone-aware time (Enter to insert, Esc to cancel)"),
		p.input.View(),
	}
	if p.err != nil {
		lines = append(lines, p.theme.RenderError(p.err.Error()))
	}
	return p.theme.Popup.Render(strings.Join(lines, "\n"))
}

func (p *TimePicker) format(t time.Time) string {
	if p.twentyFour {
		return t.Format("2006-01-02 15:04")
	}
	return t.Format("2006-01-02 3:04pm")
}

// ParsePickerTime reads a time typed into the picker, in loc.
func ParsePickerTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}
	for _, v := range []string{value, strings.ToLower(value)} {
		for _, layout := range pickerLayouts {
			if t, err := time.ParseInLocation(layout, v, loc); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, ErrBadTime
}
