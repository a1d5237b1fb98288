// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "testing"

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", true},
		{"spaces", "   ", true},
		{"tabs and newlines", "\t\n  \r\n", true},
		{"text", "animate a circle", false},
		{"text with padding", "  x  ", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsBlank(tc.input); got != tc.want {
				t.Errorf("IsBlank(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"tiny max no ellipsis", "hello", 2, "he"},
		{"unicode not split", "héllo wörld", 8, "héllo..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.input, tc.maxRunes); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.maxRunes, got, tc.want)
			}
		})
	}
}

func TestTruncateWidth_WideRunes(t *testing.T) {
	// Each CJK rune is two columns wide.
	got := TruncateWidth("日本語のテキスト", 7)
	if w := len([]rune(got)); w == 0 {
		t.Fatal("TruncateWidth returned empty string")
	}
	if got == "日本語のテキスト" {
		t.Error("expected truncation of wide string")
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single line", "animate a ball", "animate a ball"},
		{"multi line", "line one\nline two", "line one"},
		{"leading whitespace", "  \n  first\nsecond", "first"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FirstLine(tc.input); got != tc.want {
				t.Errorf("FirstLine(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
