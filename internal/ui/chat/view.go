// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sceneforge/sceneforge/internal/pipeline"
	"github.com/sceneforge/sceneforge/internal/session"
	"github.com/sceneforge/sceneforge/internal/ui/components"
)

// =============================================================================
// VIEWPORT CONTENT
// =============================================================================

// refreshViewport rebuilds the conversation transcript and scrolls to the
// newest message.
func (m *Model) refreshViewport() {
	messages := m.sess.Messages()
	if len(messages) == 0 {
		w := components.NewWelcome(m.theme)
		w.Version = m.version
		w.Width = m.viewport.Width
		w.Endpoint = m.api.Endpoints().Current()
		m.viewport.SetContent(w.View())
		return
	}

	var parts []string
	for i := range messages {
		bubble := components.NewMessageBubble(&messages[i])
		bubble.SetWidth(m.viewport.Width)
		parts = append(parts, bubble.View())
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}

// showGuideInViewport swaps the viewport content for the rendering guide.
func (m *Model) showGuideInViewport() {
	title := m.theme.OverlayTitle.Render("Rendering Guide")
	hint := m.theme.OverlayHint.Render("esc to close")
	m.viewport.SetContent(title + "  " + hint + "\n\n" + m.guide)
	m.viewport.GotoTop()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat interface.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.theme.Header.Width(m.width - 2).
		Render("SceneForge " + m.theme.HeaderSubtitle.Render("natural language to Manim"))

	var thinking string
	if op := m.sess.Operation(); op != session.OpIdle {
		thinking = " " + m.spinner.View() + " " +
			m.theme.ThinkingText.Render(operationVerb(op))
	}

	input := m.theme.InputContainer.Width(m.width).Render(
		m.input.View() + "\n" + m.charCount())

	bar := components.NewStatusBar(m.theme)
	bar.Width = m.width
	bar.Endpoint = m.api.Endpoints().Current()
	bar.OnFallback = m.api.Endpoints().OnFallback()
	bar.Operation = m.sess.Operation()
	bar.Note = m.note

	sections := []string{header, m.viewport.View()}
	if thinking != "" {
		sections = append(sections, thinking)
	}
	sections = append(sections, input, bar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// charCount renders the prompt length indicator. The limit matches the
// service-side cap, so anything the input accepts will be sent verbatim.
func (m Model) charCount() string {
	used := len([]rune(m.input.Value()))
	label := strconv.Itoa(used) + "/" + strconv.Itoa(pipeline.MaxPromptLength)

	switch {
	case used >= pipeline.MaxPromptLength:
		return m.theme.CharCountDanger.Render(label)
	case used >= pipeline.MaxPromptLength*9/10:
		return m.theme.CharCountWarning.Render(label)
	default:
		return m.theme.CharCount.Render(label)
	}
}

// operationVerb describes the in-flight operation for the thinking line.
func operationVerb(op session.Operation) string {
	switch op {
	case session.OpGenerating:
		return "generating scene code..."
	case session.OpImproving:
		return "refining your prompt..."
	case session.OpFetchingInstructions:
		return "fetching the rendering guide..."
	default:
		return ""
	}
}
