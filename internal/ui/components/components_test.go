// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/sceneforge/sceneforge/internal/model"
	"github.com/sceneforge/sceneforge/internal/session"
	"github.com/sceneforge/sceneforge/internal/ui/styles"
)

// =============================================================================
// WORD WRAP TESTS
// =============================================================================

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{
			name:  "short line unchanged",
			text:  "hello world",
			width: 40,
			want:  "hello world",
		},
		{
			name:  "wraps at width",
			text:  "one two three four",
			width: 9,
			want:  "one two\nthree\nfour",
		},
		{
			name:  "preserves existing newlines",
			text:  "first\nsecond",
			width: 40,
			want:  "first\nsecond",
		},
		{
			name:  "zero width returns input",
			text:  "unchanged",
			width: 0,
			want:  "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordWrap(tt.text, tt.width)
			if got != tt.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestMaxLineWidth(t *testing.T) {
	if got := maxLineWidth("ab\nabcd\na"); got != 4 {
		t.Errorf("maxLineWidth = %d, want 4", got)
	}
	if got := maxLineWidth(""); got != 0 {
		t.Errorf("maxLineWidth(empty) = %d, want 0", got)
	}
}

// =============================================================================
// SYNTAX HIGHLIGHTING TESTS
// =============================================================================

func TestHighlightReturnsContent(t *testing.T) {
	code := "from manim import *\n\nclass MyScene(Scene):\n    pass"
	got := Highlight(code, "python")
	if got == "" {
		t.Fatal("Highlight returned empty output")
	}
}

func TestHighlightUnknownLanguage(t *testing.T) {
	// Unknown languages must still render the code, never drop it.
	code := "some opaque text"
	got := Highlight(code, "no-such-language")
	if got == "" {
		t.Fatal("Highlight returned empty output for unknown language")
	}
}

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestMessageBubbleRoles(t *testing.T) {
	tests := []struct {
		name string
		msg  model.Message
	}{
		{"user prompt", model.NewUserMessage("draw a circle")},
		{"scene code", model.NewAssistantMessage("from manim import *")},
		{"error placeholder", model.NewErrorMessage("// Error generating code: timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMessageBubble(&tt.msg)
			b.SetWidth(60)
			if b.View() == "" {
				t.Error("View() returned empty output")
			}
		})
	}
}

func TestMessageBubbleNilMessage(t *testing.T) {
	b := NewMessageBubble(nil)
	// Must not panic and must still render something.
	if b.View() == "" {
		t.Error("View() returned empty output for nil message")
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestOperationLabel(t *testing.T) {
	tests := []struct {
		op   session.Operation
		want string
	}{
		{session.OpIdle, "ready"},
		{session.OpGenerating, "generating"},
		{session.OpImproving, "improving prompt"},
		{session.OpFetchingInstructions, "fetching guide"},
	}

	for _, tt := range tests {
		if got := operationLabel(tt.op); got != tt.want {
			t.Errorf("operationLabel(%v) = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestStatusBarView(t *testing.T) {
	theme := styles.NewTheme()

	bar := NewStatusBar(theme)
	bar.Width = 120
	bar.OnFallback = true
	bar.Operation = session.OpGenerating

	out := bar.View()
	if out == "" {
		t.Fatal("status bar rendered empty")
	}
	if !strings.Contains(out, "fallback") {
		t.Error("status bar should name the fallback endpoint")
	}
}

func TestWelcomeView(t *testing.T) {
	theme := styles.NewTheme()

	w := NewWelcome(theme)
	w.Width = 100
	w.Endpoint = "http://localhost:5000"

	if w.View() == "" {
		t.Fatal("welcome screen rendered empty")
	}
}
