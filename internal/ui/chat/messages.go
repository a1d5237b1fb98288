// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types for the chat view and the
// commands that produce them. Each in-flight operation carries the session
// token it was started with; the session manager discards completions whose
// token no longer matches, so a reset mid-flight can never corrupt the
// conversation.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sceneforge/sceneforge/internal/client"
)

// =============================================================================
// OPERATION RESULT MESSAGES
// =============================================================================

// GenerateDoneMsg delivers the result of a generation request.
type GenerateDoneMsg struct {
	Token string
	Code  string
	Err   error
}

// ImproveDoneMsg delivers the result of a prompt-improvement request.
type ImproveDoneMsg struct {
	Token   string
	Refined string
	Err     error
}

// InstructionsDoneMsg delivers the rendering guide markdown.
type InstructionsDoneMsg struct {
	Token    string
	Markdown string
	Err      error
}

// =============================================================================
// COMMANDS
// =============================================================================

// generateCmd posts the prompt to the generation service. The service
// answers 200 even when generation fails (the reply is then an error
// placeholder), so Err here means the request itself could not complete.
func generateCmd(api *client.Client, token, prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
		defer cancel()

		code, err := api.Generate(ctx, prompt)
		return GenerateDoneMsg{Token: token, Code: code, Err: err}
	}
}

// improveCmd asks the service for a refined version of the prompt.
func improveCmd(api *client.Client, token, prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
		defer cancel()

		refined, err := api.ImprovePrompt(ctx, prompt)
		return ImproveDoneMsg{Token: token, Refined: refined, Err: err}
	}
}

// instructionsCmd fetches the rendering guide.
func instructionsCmd(api *client.Client, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
		defer cancel()

		md, err := api.Instructions(ctx)
		return InstructionsDoneMsg{Token: token, Markdown: md, Err: err}
	}
}
