// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sceneforge/sceneforge/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome renders the empty-conversation screen shown before the first
// prompt is submitted.
type Welcome struct {
	Version  string
	Endpoint string
	Width    int
	theme    *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{Version: "dev", Width: 80, theme: theme}
}

// View renders the welcome screen.
func (w Welcome) View() string {
	logo := w.theme.HeaderTitle.Render("SceneForge")
	version := w.theme.HeaderSubtitle.Render("v" + w.Version)

	lines := []string{
		logo + " " + version,
		"",
		"Describe an animation and press " + w.theme.ShortcutKey.Render("enter") +
			" to generate Manim scene code.",
		"",
		w.theme.ShortcutKey.Render("ctrl+i") + "  refine the prompt before generating",
		w.theme.ShortcutKey.Render("ctrl+n") + "  start a new conversation",
		w.theme.ShortcutKey.Render("ctrl+g") + "  show the rendering guide",
	}
	if w.Endpoint != "" {
		lines = append(lines, "",
			w.theme.StatusNote.Render("service: "+w.Endpoint))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Indigo).
		Padding(1, 3).
		Render(content)

	return lipgloss.PlaceHorizontal(w.Width, lipgloss.Center, box)
}
