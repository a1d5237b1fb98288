// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sceneforge/sceneforge/internal/session"
	"github.com/sceneforge/sceneforge/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom status bar: which endpoint is serving the
// session, what the session is currently doing, and the key hints.
type StatusBar struct {
	Width      int
	Endpoint   string
	OnFallback bool
	Operation  session.Operation
	Note       string
	theme      *styles.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{Width: 80, theme: theme}
}

// operationLabel maps the session operation to a short display label.
func operationLabel(op session.Operation) string {
	switch op {
	case session.OpGenerating:
		return "generating"
	case session.OpImproving:
		return "improving prompt"
	case session.OpFetchingInstructions:
		return "fetching guide"
	default:
		return "ready"
	}
}

// View renders the status bar.
func (s StatusBar) View() string {
	var endpoint string
	if s.OnFallback {
		endpoint = s.theme.EndpointFallback.Render("fallback")
	} else {
		endpoint = s.theme.EndpointPrimary.Render("primary")
	}

	state := operationLabel(s.Operation)
	if s.Operation != session.OpIdle {
		state = s.theme.WarningText.Render(state)
	}

	left := endpoint
	if s.Endpoint != "" {
		left += " " + s.theme.ShortcutDesc.Render(s.Endpoint)
	}
	left += " " + s.theme.ShortcutDesc.Render("|") + " " + state
	if s.Note != "" {
		left += " " + s.theme.StatusNote.Render(s.Note)
	}

	hints := []string{
		s.theme.ShortcutKey.Render("enter") + s.theme.ShortcutDesc.Render(" generate"),
		s.theme.ShortcutKey.Render("^i") + s.theme.ShortcutDesc.Render(" improve"),
		s.theme.ShortcutKey.Render("^n") + s.theme.ShortcutDesc.Render(" new"),
		s.theme.ShortcutKey.Render("^g") + s.theme.ShortcutDesc.Render(" guide"),
		s.theme.ShortcutKey.Render("^c") + s.theme.ShortcutDesc.Render(" quit"),
	}
	right := strings.Join(hints, "  ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.Width).
		Render(left + strings.Repeat(" ", gap) + right)
}
