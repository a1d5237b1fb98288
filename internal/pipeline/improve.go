// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sceneforge/sceneforge/internal/llm"
)

// ImprovementError wraps a failure from the prompt improvement pipeline.
// Unlike generation, improvement failures propagate to the caller so the
// original prompt can be kept instead of silently replaced.
type ImprovementError struct {
	Err error
}

// Error implements the error interface.
func (e *ImprovementError) Error() string {
	return fmt.Sprintf("failed to improve prompt: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ImprovementError) Unwrap() error {
	return e.Err
}

// Improver expands vague animation prompts into detailed specifications.
type Improver struct {
	model Completer
}

// NewImprover creates an Improver backed by the given model client.
func NewImprover(model Completer) *Improver {
	return &Improver{model: model}
}

// Improve rewrites a prompt into a detailed animation specification.
// Failures are returned as *ImprovementError; the result, on success, is
// whitespace-trimmed model output.
func (i *Improver) Improve(ctx context.Context, prompt string) (string, error) {
	prompt = capPrompt(prompt)

	log.Printf("IMPROVE | prompt_len=%d", len(prompt))

	messages := []llm.ChatMessage{
		llm.NewSystemMessage(improveSystemTemplate),
		llm.NewUserMessage("Prompt: " + prompt),
	}

	text, err := i.model.CompleteText(ctx, messages)
	if err != nil {
		log.Printf("IMPROVE_FAILED | error=%v", err)
		return "", &ImprovementError{Err: err}
	}

	improved := strings.TrimSpace(text)
	log.Printf("IMPROVE_OK | improved_len=%d", len(improved))
	return improved, nil
}
