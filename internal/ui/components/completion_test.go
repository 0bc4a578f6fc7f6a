// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatcompose/internal/commands"
	"github.com/jeranaias/chatcompose/internal/roster"
	"github.com/jeranaias/chatcompose/internal/typeahead"
	"github.com/jeranaias/chatcompose/internal/ui/styles"
)

func sampleItems(n int) []typeahead.Suggestion {
	items := make([]typeahead.Suggestion, n)
	for i := range items {
		items[i] = typeahead.TopicSuggestion{Topic: "topic " + fmtNumber(i)}
	}
	return items
}

func TestSuggestionPopup_Navigation(t *testing.T) {
	p := NewSuggestionPopup(styles.NewTheme(styles.ThemeDark))
	assert.False(t, p.Visible())
	assert.Nil(t, p.Selected())

	p.Next()
	p.Prev()
	assert.Equal(t, 0, p.SelectedIndex())

	p.SetItems(sampleItems(3), "")
	require.True(t, p.Visible())
	assert.Equal(t, "topic 0", p.Selected().Primary())

	p.Next()
	p.Next()
	assert.Equal(t, 2, p.SelectedIndex())
	p.Next()
	assert.Equal(t, 0, p.SelectedIndex(), "wraps to the top")
	p.Prev()
	assert.Equal(t, 2, p.SelectedIndex(), "wraps to the bottom")

	p.SetItems(sampleItems(2), "tip")
	assert.Equal(t, 0, p.SelectedIndex(), "new items reset the selection")

	p.Clear()
	assert.False(t, p.Visible())
	assert.Empty(t, p.View())
}

func TestSuggestionPopup_Window(t *testing.T) {
	p := NewSuggestionPopup(styles.NewTheme(styles.ThemeDark))
	p.SetMaxVisible(4)
	p.SetItems(sampleItems(10), "")

	start, end := p.window()
	assert.Equal(t, [2]int{0, 4}, [2]int{start, end})

	for i := 0; i < 5; i++ {
		p.Next()
	}
	start, end = p.window()
	assert.Equal(t, [2]int{3, 7}, [2]int{start, end})

	p.Prev()
	p.Prev()
	p.Prev()
	p.Prev()
	p.Prev()
	p.Prev()
	start, end = p.window()
	assert.Equal(t, [2]int{6, 10}, [2]int{start, end}, "selection on the last item")
}

func TestSuggestionPopup_View(t *testing.T) {
	p := NewSuggestionPopup(styles.NewTheme(styles.ThemeDark))
	p.SetWidth(60)
	p.SetItems([]typeahead.Suggestion{
		typeahead.StreamSuggestion{Stream: roster.Stream{ID: 1, Name: "general", Description: "General talk"}},
		typeahead.StreamSuggestion{Stream: roster.Stream{ID: 2, Name: "secret", InviteOnly: true}},
	}, "Press > for list of topics")

	view := p.View()
	assert.Contains(t, view, "Press > for list of topics")
	assert.Contains(t, view, "> #general")
	assert.Contains(t, view, "General talk")
	assert.Contains(t, view, "#secret (private)")
}

func TestLabel(t *testing.T) {
	reg := commands.NewRegistry()
	tests := []struct {
		name          string
		item          typeahead.Suggestion
		wantPrimary   string
		wantSecondary string
	}{
		{"unicode emoji", typeahead.EmojiSuggestion{Name: "tada", Code: "1f389"}, "🎉 :tada:", ""},
		{"realm emoji", typeahead.EmojiSuggestion{Name: "zulip", IsRealm: true}, ":zulip:", "custom"},
		{"user", typeahead.UserSuggestion{User: roster.User{FullName: "Hamlet", Email: "hamlet@zulip.com"}}, "Hamlet", "hamlet@zulip.com"},
		{"silent user", typeahead.UserSuggestion{User: roster.User{FullName: "Hamlet"}, Silent: true}, "_Hamlet", ""},
		{"broadcast", typeahead.BroadcastSuggestion{Name: "all", Description: "Notify channel"}, "@all", "Notify channel"},
		{"group", typeahead.GroupSuggestion{Group: roster.Group{Name: "backend", Description: "Backend team", Members: []int{1, 2}}}, "@backend", "Backend team (2 members)"},
		{"stream", typeahead.StreamSuggestion{Stream: roster.Stream{Name: "design"}}, "#design", ""},
		{"slash", typeahead.SlashSuggestion{Command: reg.Get("poll")}, "/poll", "Create a poll"},
		{"plain fence", typeahead.LanguageSuggestion{}, "(no language)", ""},
		{"language", typeahead.LanguageSuggestion{Language: "python"}, "python", ""},
		{"new topic", typeahead.TopicSuggestion{Topic: "lunch", New: true}, "lunch", "New"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			primary, secondary := Label(tc.item)
			assert.Equal(t, tc.wantPrimary, primary)
			assert.Equal(t, tc.wantSecondary, secondary)
		})
	}
}
