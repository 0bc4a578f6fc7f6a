// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTheme_Named(t *testing.T) {
	dark := NewTheme("dark")
	assert.Equal(t, ThemeDark, dark.Name)
	assert.True(t, dark.IsDark())
	assert.Equal(t, DarkPalette, dark.Palette)

	light := NewTheme(" LIGHT ")
	assert.Equal(t, ThemeLight, light.Name)
	assert.False(t, light.IsDark())
	assert.Equal(t, LightPalette, light.Palette)
}

func TestNewTheme_AutoPicksAPalette(t *testing.T) {
	for _, name := range []string{"", "auto", "solarized"} {
		theme := NewTheme(name)
		assert.Contains(t, []string{ThemeDark, ThemeLight}, theme.Name, name)
	}
}

func TestSetName_RebuildsStyles(t *testing.T) {
	theme := NewTheme(ThemeDark)
	assert.Equal(t, DarkPalette.Accent, theme.Prompt.GetForeground())

	theme.SetName(ThemeLight)
	assert.Equal(t, LightPalette.Accent, theme.Prompt.GetForeground())
	assert.Equal(t, LightPalette.Accent, theme.PopupSelected.GetBackground())
}

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme(ThemeDark)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{80, LayoutMedium},
		{120, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), tt.width)
	}
}

func TestRenderHelpers_KeepIndicators(t *testing.T) {
	theme := NewTheme(ThemeLight)
	assert.Contains(t, theme.RenderWarning("careful"), "[!] careful")
	assert.Contains(t, theme.RenderError("broken"), "[X] broken")
	assert.Contains(t, theme.RenderInfo("note"), "[i] note")
	assert.Contains(t, theme.RenderSuccess("done"), "[OK] done")
}
