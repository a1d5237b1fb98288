// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const testKey = "sk-or-test-abcdefghijklmnopqrstuvwxyz0123456789"

func chatOKResponse() string {
	return `{
		"id": "gen-1",
		"model": "openrouter/auto",
		"choices": [{
			"message": {"role": "assistant", "content": "from manim import *"},
			"finish_reason": "stop"
		}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30}
	}`
}

func TestComplete_Success(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatOKResponse()))
	}))
	defer server.Close()

	client := NewClient(testKey).WithBaseURL(server.URL)

	resp, err := client.Complete(context.Background(), []ChatMessage{NewUserMessage("draw a circle")})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got := resp.GetContent(); got != "from manim import *" {
		t.Errorf("content = %q", got)
	}
	if gotAuth != "Bearer "+testKey {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestComplete_NotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Complete(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestComplete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, ErrAuthFailed},
		{"payment required", http.StatusPaymentRequired, `{"error":{"message":"no credits"}}`, ErrInsufficientCredits},
		{"not found", http.StatusNotFound, `{"error":{"message":"no such model"}}`, ErrModelNotFound},
		{"unauthorized unparseable", http.StatusUnauthorized, `oops`, ErrAuthFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(testKey).WithBaseURL(server.URL)
			_, err := client.Complete(context.Background(), []ChatMessage{NewUserMessage("hi")})
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestComplete_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":{"message":"upstream down"}}`))
			return
		}
		w.Write([]byte(chatOKResponse()))
	}))
	defer server.Close()

	client := NewClient(testKey).WithBaseURL(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Complete(ctx, []ChatMessage{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("Complete() error after retries: %v", err)
	}
	if resp.GetContent() == "" {
		t.Error("expected non-empty content after retry")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestComplete_DoesNotRetryAuthFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	client := NewClient(testKey).WithBaseURL(server.URL)
	_, err := client.Complete(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1 (auth failures are not retryable)", got)
	}
}

func TestCompleteText_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"gen-1","model":"openrouter/auto","choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(testKey).WithBaseURL(server.URL)
	_, err := client.CompleteText(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("err = %v, want ErrEmptyCompletion", err)
	}
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{testKey, true},
		{"  " + testKey + "  ", true},
		{"sk-or-short", false},
		{"sk-ant-REDACTED", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := ValidateAPIKey(tc.key); got != tc.want {
			t.Errorf("ValidateAPIKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestAPIKeyMasked(t *testing.T) {
	if got := NewClient("").APIKeyMasked(); got != "[not set]" {
		t.Errorf("masked empty key = %q", got)
	}
	masked := NewClient(testKey).APIKeyMasked()
	if masked == testKey || masked == "" {
		t.Errorf("masked key should not expose the key: %q", masked)
	}
}
