// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot generation for scripting.
//
// Examples:
//   sceneforge -ask "a circle morphing into a square"
//   sceneforge -ask "matrix rotation demo" > scene.py

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/sceneforge/sceneforge/internal/client"
	"github.com/sceneforge/sceneforge/internal/pipeline"
	"github.com/sceneforge/sceneforge/internal/util"
)

// RunAsk generates scene code for a single prompt and prints it to stdout.
// Exits nonzero when the reply is an error placeholder so scripts can tell
// a failed generation from a successful one.
func RunAsk(ctx context.Context, api *client.Client, prompt string) error {
	if util.IsBlank(prompt) {
		return fmt.Errorf("empty prompt")
	}

	code, err := api.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	if pipeline.IsErrorCode(code) {
		fmt.Fprintln(os.Stderr, code)
		return fmt.Errorf("generation failed")
	}

	// Plain code on stdout: ask mode exists for piping into files.
	fmt.Println(code)
	return nil
}

// RenderMarkdown renders markdown for terminal display with glamour,
// returning the raw text when rendering is not possible.
func RenderMarkdown(md string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
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
