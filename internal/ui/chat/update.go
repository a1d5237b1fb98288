// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/sceneforge/sceneforge/internal/pipeline"
	"github.com/sceneforge/sceneforge/internal/session"
	"github.com/sceneforge/sceneforge/internal/util"
)

// =============================================================================
// RESIZE HANDLING
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// input area: top border + three textarea rows + char count line
	inputHeight := 5
	headerHeight := 3
	statusHeight := 1

	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - headerHeight - inputHeight - statusHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.SetWidth(msg.Width - 4)
	m.ready = true

	m.refreshViewport()
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The guide overlay swallows everything except close and quit.
	if m.showGuide {
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.CloseOverlay):
			m.showGuide = false
			m.refreshViewport()
			m.input.Focus()
			return m, textarea.Blink
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submitGeneration()

	case key.Matches(msg, m.keyMap.Improve):
		return m.submitImprovement()

	case key.Matches(msg, m.keyMap.NewChat):
		return m.startNewChat()

	case key.Matches(msg, m.keyMap.Instructions):
		return m.openGuide()

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// Everything else goes to the input field.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.sess.SetDraftPrompt(m.input.Value())
	return m, cmd
}

// =============================================================================
// OPERATION STARTS
// =============================================================================

func (m Model) submitGeneration() (tea.Model, tea.Cmd) {
	prompt := m.input.Value()
	if util.IsBlank(prompt) {
		return m, nil
	}

	token, err := m.sess.StartGeneration(prompt)
	if err != nil {
		m.note = busyNote(err)
		return m, nil
	}

	m.note = ""
	m.input.Reset()
	m.refreshViewport()
	return m, tea.Batch(m.spinner.Tick, generateCmd(m.api, token, prompt))
}

func (m Model) submitImprovement() (tea.Model, tea.Cmd) {
	prompt := m.input.Value()
	if util.IsBlank(prompt) {
		return m, nil
	}

	token, err := m.sess.StartImprovement(prompt)
	if err != nil {
		m.note = busyNote(err)
		return m, nil
	}

	m.note = ""
	return m, tea.Batch(m.spinner.Tick, improveCmd(m.api, token, prompt))
}

func (m Model) startNewChat() (tea.Model, tea.Cmd) {
	if err := m.sess.Reset(); err != nil {
		m.note = busyNote(err)
		return m, nil
	}
	// The draft prompt survives a reset; the input field keeps its text.
	m.note = ""
	m.refreshViewport()
	m.viewport.GotoTop()
	return m, nil
}

func (m Model) openGuide() (tea.Model, tea.Cmd) {
	if m.guide != "" {
		m.showGuide = true
		m.showGuideInViewport()
		return m, nil
	}

	token, err := m.sess.StartInstructions()
	if err != nil {
		m.note = busyNote(err)
		return m, nil
	}

	m.note = ""
	return m, tea.Batch(m.spinner.Tick, instructionsCmd(m.api, token))
}

// =============================================================================
// OPERATION COMPLETIONS
// =============================================================================

func (m Model) handleGenerateDone(msg GenerateDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// The service swallows model failures, so an error here means the
		// request itself never completed on either endpoint.
		m.sess.FinishGeneration(msg.Token, pipeline.ErrorCode(msg.Err.Error()), true)
	} else {
		m.sess.FinishGeneration(msg.Token, msg.Code, pipeline.IsErrorCode(msg.Code))
	}
	m.refreshViewport()
	return m, nil
}

func (m Model) handleImproveDone(msg ImproveDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.sess.FailImprovement(msg.Token)
		m.note = "improve failed: " + util.FirstLine(msg.Err.Error())
		return m, nil
	}
	if m.sess.FinishImprovement(msg.Token, msg.Refined) {
		m.input.SetValue(msg.Refined)
	}
	return m, nil
}

func (m Model) handleInstructionsDone(msg InstructionsDoneMsg) (tea.Model, tea.Cmd) {
	if !m.sess.FinishInstructions(msg.Token) {
		return m, nil
	}
	if msg.Err != nil {
		m.note = "guide unavailable: " + util.FirstLine(msg.Err.Error())
		return m, nil
	}

	m.guide = m.renderMarkdown(msg.Markdown)
	m.showGuide = true
	m.showGuideInViewport()
	return m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// busyNote maps a rejected start to a status-bar note.
func busyNote(err error) string {
	if errors.Is(err, session.ErrBusy) {
		return "wait for the current operation to finish"
	}
	return err.Error()
}

// renderMarkdown renders the guide with glamour, falling back to the raw
// markdown when the renderer cannot be built.
func (m Model) renderMarkdown(md string) string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
