// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"log"

	"github.com/sceneforge/sceneforge/internal/llm"
)

// MaxPromptLength is the maximum prompt length sent to the model.
// Longer prompts are truncated, not rejected.
const MaxPromptLength = 5000

// errorCodePrefix marks generation failures in the returned code. The marker
// is a comment so the result still renders as code in clients.
const errorCodePrefix = "// Error generating code: "

// Completer is the model invocation surface the pipelines depend on.
// *llm.Client satisfies it.
type Completer interface {
	CompleteText(ctx context.Context, messages []llm.ChatMessage) (string, error)
}

// Generator turns animation descriptions into Manim code.
type Generator struct {
	model Completer
}

// NewGenerator creates a Generator backed by the given model client.
func NewGenerator(model Completer) *Generator {
	return &Generator{model: model}
}

// Generate produces Manim code for the given prompt.
//
// Generate never returns an error: every failure, including model invocation
// errors and empty completions, is converted into a placeholder comment
// beginning with "// Error generating code: ". Callers always receive
// renderable text.
func (g *Generator) Generate(ctx context.Context, prompt string) string {
	prompt = capPrompt(prompt)

	log.Printf("GENERATE | prompt_len=%d", len(prompt))

	messages := []llm.ChatMessage{
		llm.NewSystemMessage(codegenSystemTemplate),
		llm.NewUserMessage("Question : " + prompt),
	}

	text, err := g.model.CompleteText(ctx, messages)
	if err != nil {
		log.Printf("GENERATE_FAILED | error=%v", err)
		return errorCodePrefix + err.Error()
	}

	code := StripFence(text)
	log.Printf("GENERATE_OK | code_len=%d", len(code))
	return code
}

// IsErrorCode reports whether generated code is a failure placeholder rather
// than real output.
func IsErrorCode(code string) bool {
	return len(code) >= len(errorCodePrefix) && code[:len(errorCodePrefix)] == errorCodePrefix
}

// ErrorCode builds a failure placeholder from a detail line. Clients use it
// for failures the service never saw, such as both endpoints being down, so
// every failed generation carries the same marker.
func ErrorCode(detail string) string {
	return errorCodePrefix + detail
}

// capPrompt truncates prompts that exceed MaxPromptLength.
func capPrompt(prompt string) string {
	if len(prompt) > MaxPromptLength {
		log.Printf("PROMPT_TRUNCATED | from=%d to=%d", len(prompt), MaxPromptLength)
		return prompt[:MaxPromptLength]
	}
	return prompt
}
