// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme()

	// Verify each style category is initialized by rendering a test string.
	// An uninitialized style returns the input unchanged; an empty result
	// would mean something went badly wrong.
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"ErrorBubble", theme.ErrorBubble},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"CodeBlock", theme.CodeBlock},
		{"OverlayBox", theme.OverlayBox},
	}

	for _, s := range styles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

func TestAdaptiveColorsDefined(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"Indigo", Indigo},
		{"Cyan", Cyan},
		{"Emerald", Emerald},
		{"Rose", Rose},
		{"Amber", Amber},
		{"TextPrimary", TextPrimary},
		{"UserBubbleBg", UserBubbleBg},
		{"AssistantBubbleBg", AssistantBubbleBg},
		{"ErrorBubbleBg", ErrorBubbleBg},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s must define both light and dark variants", c.name)
		}
	}
}
