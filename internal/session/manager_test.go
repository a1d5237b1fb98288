// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/sceneforge/sceneforge/internal/model"
)

func TestGeneration_AppendsUserThenAssistant(t *testing.T) {
	m := NewManager()

	token, err := m.StartGeneration("Animate a bouncing ball")
	if err != nil {
		t.Fatalf("StartGeneration() error: %v", err)
	}
	if m.Operation() != OpGenerating {
		t.Errorf("operation = %v, want generating", m.Operation())
	}

	if !m.FinishGeneration(token, "class Ball(Scene):\n    pass", false) {
		t.Fatal("FinishGeneration() rejected a live token")
	}

	msgs := m.Messages()
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "Animate a bouncing ball" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].Role != model.RoleAssistant {
		t.Errorf("second message role = %v, want assistant", msgs[1].Role)
	}
	if m.Operation() != OpIdle {
		t.Errorf("operation after finish = %v, want idle", m.Operation())
	}
	if m.LastGeneratedCode() != "class Ball(Scene):\n    pass" {
		t.Errorf("last code = %q", m.LastGeneratedCode())
	}
}

func TestGeneration_FailureStillAppendsBothMessages(t *testing.T) {
	m := NewManager()

	token, _ := m.StartGeneration("draw a circle")
	if !m.FinishGeneration(token, "// Error generating code: timeout", true) {
		t.Fatal("FinishGeneration() rejected a live token")
	}

	msgs := m.Messages()
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2 even on failure", len(msgs))
	}
	if !msgs[1].IsError {
		t.Error("assistant message should be marked as error")
	}
	if m.LastGeneratedCode() != "" {
		t.Error("failure must not update last generated code")
	}
}

func TestStart_BlankPromptIsNoOp(t *testing.T) {
	m := NewManager()
	m.SetDraftPrompt("   ")

	if _, err := m.StartGeneration("   \t\n"); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("StartGeneration(blank) err = %v, want ErrEmptyPrompt", err)
	}
	if _, err := m.StartImprovement(""); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("StartImprovement(blank) err = %v, want ErrEmptyPrompt", err)
	}

	if len(m.Messages()) != 0 {
		t.Error("blank start must not touch the conversation")
	}
	if m.DraftPrompt() != "   " {
		t.Error("blank start must not touch the draft prompt")
	}
	if m.Operation() != OpIdle {
		t.Error("blank start must leave the session idle")
	}
}

func TestOperations_AreMutuallyExclusive(t *testing.T) {
	m := NewManager()

	token, err := m.StartGeneration("draw")
	if err != nil {
		t.Fatalf("StartGeneration() error: %v", err)
	}

	if _, err := m.StartGeneration("another"); !errors.Is(err, ErrBusy) {
		t.Errorf("second generation err = %v, want ErrBusy", err)
	}
	if _, err := m.StartImprovement("another"); !errors.Is(err, ErrBusy) {
		t.Errorf("improvement while generating err = %v, want ErrBusy", err)
	}
	if _, err := m.StartInstructions(); !errors.Is(err, ErrBusy) {
		t.Errorf("instructions while generating err = %v, want ErrBusy", err)
	}

	// Rejected starts must not have appended anything.
	if got := len(m.Messages()); got != 1 {
		t.Errorf("message count = %d, want 1 (only the accepted user message)", got)
	}

	m.FinishGeneration(token, "code", false)
	if _, err := m.StartImprovement("now it works"); err != nil {
		t.Errorf("start after idle err = %v", err)
	}
}

func TestImprovement_ReplacesDraftAndLeavesConversation(t *testing.T) {
	m := NewManager()
	m.SetDraftPrompt("circle to square")

	token, err := m.StartImprovement(m.DraftPrompt())
	if err != nil {
		t.Fatalf("StartImprovement() error: %v", err)
	}

	refined := "A circle expanding into a square, 2s duration, blue fill"
	if !m.FinishImprovement(token, refined) {
		t.Fatal("FinishImprovement() rejected a live token")
	}

	if m.DraftPrompt() != refined {
		t.Errorf("draft = %q, want refined prompt", m.DraftPrompt())
	}
	if len(m.Messages()) != 0 {
		t.Error("improvement must not append messages")
	}
}

func TestImprovement_FailureKeepsDraft(t *testing.T) {
	m := NewManager()
	m.SetDraftPrompt("circle to square")

	token, _ := m.StartImprovement("circle to square")
	if !m.FailImprovement(token) {
		t.Fatal("FailImprovement() rejected a live token")
	}

	if m.DraftPrompt() != "circle to square" {
		t.Errorf("draft = %q, want original", m.DraftPrompt())
	}
	if m.Operation() != OpIdle {
		t.Error("session should return to idle after failure")
	}
}

func TestInstructions_GuardOnly(t *testing.T) {
	m := NewManager()

	token, err := m.StartInstructions()
	if err != nil {
		t.Fatalf("StartInstructions() error: %v", err)
	}
	if m.Operation() != OpFetchingInstructions {
		t.Errorf("operation = %v", m.Operation())
	}
	if !m.FinishInstructions(token) {
		t.Fatal("FinishInstructions() rejected a live token")
	}
	if len(m.Messages()) != 0 {
		t.Error("instructions fetch must not touch the conversation")
	}
}

func TestFinish_StaleTokenDiscarded(t *testing.T) {
	m := NewManager()

	token, _ := m.StartGeneration("draw")
	m.FinishGeneration(token, "code", false)

	// Late duplicate completion with the same token.
	if m.FinishGeneration(token, "late code", false) {
		t.Error("finished token should be stale")
	}
	if got := len(m.Messages()); got != 2 {
		t.Errorf("message count = %d, want 2 (no duplicate append)", got)
	}

	// Token from a finished improvement can't complete a generation.
	impToken, _ := m.StartImprovement("draw")
	if m.FinishGeneration(impToken, "code", false) {
		t.Error("generation finish with improvement token should be rejected")
	}
	m.FailImprovement(impToken)
}

func TestReset_ClearsConversationKeepsDraft(t *testing.T) {
	m := NewManager()
	m.SetDraftPrompt("next idea")

	token, _ := m.StartGeneration("draw")
	m.FinishGeneration(token, "code", false)
	m.SetDraftPrompt("next idea")

	if err := m.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	if len(m.Messages()) != 0 {
		t.Error("reset should clear the message log")
	}
	if m.LastGeneratedCode() != "" {
		t.Error("reset should clear the last generated code")
	}
	if m.DraftPrompt() != "next idea" {
		t.Error("reset should keep the draft prompt")
	}
}

func TestReset_RejectedWhileBusy(t *testing.T) {
	m := NewManager()

	token, _ := m.StartGeneration("draw")
	if err := m.Reset(); !errors.Is(err, ErrBusy) {
		t.Errorf("Reset() while busy err = %v, want ErrBusy", err)
	}

	// The in-flight operation still completes normally.
	if !m.FinishGeneration(token, "code", false) {
		t.Error("in-flight operation should survive a rejected reset")
	}
}

func TestConcurrentStarts_OnlyOneWins(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	tokens := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if token, err := m.StartGeneration("draw"); err == nil {
				tokens <- token
			}
		}()
	}
	wg.Wait()
	close(tokens)

	var won []string
	for token := range tokens {
		won = append(won, token)
	}
	if len(won) != 1 {
		t.Fatalf("%d starts accepted, want exactly 1", len(won))
	}
	if got := len(m.Messages()); got != 1 {
		t.Errorf("message count = %d, want 1", got)
	}

	m.FinishGeneration(won[0], "code", false)
	if m.conv.CountRole(model.RoleUser) != m.conv.CountRole(model.RoleAssistant) {
		t.Error("idle session should have matching user/assistant counts")
	}
}
