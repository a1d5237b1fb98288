// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sceneforge/sceneforge/internal/llm"
)

// fakeModel returns a canned completion or error and records the last request.
type fakeModel struct {
	reply    string
	err      error
	messages []llm.ChatMessage
}

func (f *fakeModel) CompleteText(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// ===== StripFence =====

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain code untouched", "from manim import *", "from manim import *"},
		{"full fence", "```python\nfrom manim import *\n```", "from manim import *"},
		{"prefix only", "```python\nx = 1", "x = 1"},
		{"suffix only", "x = 1\n```", "x = 1"},
		{"empty", "", ""},
		{"bare fence pair", "```python\n```", ""},
		{"embedded fence kept", "print(\"```python\")", "print(\"```python\")"},
		{"other language prefix kept", "```py\nx = 1\n```", "```py\nx = 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripFence(tc.in); got != tc.want {
				t.Errorf("StripFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripFence_Idempotent(t *testing.T) {
	inputs := []string{
		"```python\nfrom manim import *\n```",
		"from manim import *",
		"x = 1\n```",
		"",
	}
	for _, in := range inputs {
		once := StripFence(in)
		twice := StripFence(once)
		if once != twice {
			t.Errorf("StripFence not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

// ===== Generation =====

func TestGenerate_StripsFence(t *testing.T) {
	model := &fakeModel{reply: "```python\nfrom manim import *\n\nclass Demo(Scene):\n    pass\n```"}
	gen := NewGenerator(model)

	code := gen.Generate(context.Background(), "draw a circle")
	if strings.Contains(code, "```") {
		t.Errorf("fence not stripped: %q", code)
	}
	if !strings.HasPrefix(code, "from manim import *") {
		t.Errorf("unexpected code: %q", code)
	}
}

func TestGenerate_ErrorBecomesPlaceholder(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	gen := NewGenerator(model)

	code := gen.Generate(context.Background(), "draw a circle")
	if !strings.HasPrefix(code, "// Error generating code: ") {
		t.Fatalf("expected placeholder, got %q", code)
	}
	if !strings.Contains(code, "connection refused") {
		t.Errorf("placeholder should carry the error detail: %q", code)
	}
	if !IsErrorCode(code) {
		t.Error("IsErrorCode should recognize the placeholder")
	}
}

func TestGenerate_EmptyCompletionBecomesPlaceholder(t *testing.T) {
	model := &fakeModel{err: llm.ErrEmptyCompletion}
	gen := NewGenerator(model)

	code := gen.Generate(context.Background(), "draw a circle")
	if !IsErrorCode(code) {
		t.Errorf("expected placeholder for empty completion, got %q", code)
	}
}

func TestGenerate_CapsLongPrompts(t *testing.T) {
	model := &fakeModel{reply: "code"}
	gen := NewGenerator(model)

	long := strings.Repeat("a", MaxPromptLength+1000)
	gen.Generate(context.Background(), long)

	// The user message carries "Question : " plus the capped prompt.
	if len(model.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(model.messages))
	}
	user := model.messages[1].Content
	if got := len(user) - len("Question : "); got != MaxPromptLength {
		t.Errorf("prompt sent to model has length %d, want %d", got, MaxPromptLength)
	}
}

func TestGenerate_SendsSystemInstructions(t *testing.T) {
	model := &fakeModel{reply: "code"}
	NewGenerator(model).Generate(context.Background(), "draw a circle")

	if len(model.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(model.messages))
	}
	if model.messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", model.messages[0].Role)
	}
	if !strings.Contains(model.messages[0].Content, "Manim") {
		t.Error("system message should describe Manim code generation")
	}
}

func TestIsErrorCode(t *testing.T) {
	if IsErrorCode("from manim import *") {
		t.Error("real code misclassified as error placeholder")
	}
	if !IsErrorCode("// Error generating code: timeout") {
		t.Error("placeholder not recognized")
	}
}

// ===== Improvement =====

func TestImprove_TrimsOutput(t *testing.T) {
	model := &fakeModel{reply: "\n  A circle grows from radius 0 to 2 over 3 seconds.  \n"}
	imp := NewImprover(model)

	improved, err := imp.Improve(context.Background(), "circle")
	if err != nil {
		t.Fatalf("Improve() error: %v", err)
	}
	if improved != "A circle grows from radius 0 to 2 over 3 seconds." {
		t.Errorf("improved = %q", improved)
	}
}

func TestImprove_PropagatesErrors(t *testing.T) {
	cause := errors.New("upstream down")
	model := &fakeModel{err: cause}
	imp := NewImprover(model)

	_, err := imp.Improve(context.Background(), "circle")
	if err == nil {
		t.Fatal("Improve() should propagate failures")
	}

	var impErr *ImprovementError
	if !errors.As(err, &impErr) {
		t.Fatalf("err = %T, want *ImprovementError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ImprovementError should wrap the cause")
	}
	if !strings.HasPrefix(err.Error(), "failed to improve prompt: ") {
		t.Errorf("err message = %q", err.Error())
	}
}

func TestImprove_CapsLongPrompts(t *testing.T) {
	model := &fakeModel{reply: "ok"}
	imp := NewImprover(model)

	long := strings.Repeat("b", MaxPromptLength*2)
	if _, err := imp.Improve(context.Background(), long); err != nil {
		t.Fatalf("Improve() error: %v", err)
	}

	user := model.messages[1].Content
	if got := len(user) - len("Prompt: "); got != MaxPromptLength {
		t.Errorf("prompt sent to model has length %d, want %d", got, MaxPromptLength)
	}
}

func TestImprove_ForbidsCodeInInstructions(t *testing.T) {
	model := &fakeModel{reply: "ok"}
	NewImprover(model).Improve(context.Background(), "circle")

	system := model.messages[0]
	if system.Role != "system" {
		t.Fatalf("first message role = %q, want system", system.Role)
	}
	if !strings.Contains(system.Content, "DO NOT GENERATE CODE") {
		t.Error("improvement instructions should forbid code output")
	}
}
