// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/sceneforge/sceneforge/internal/model"
	"github.com/sceneforge/sceneforge/internal/util"
)

// Error variables for state machine violations.
var (
	// ErrBusy indicates another operation is already in flight.
	ErrBusy = errors.New("another operation is in progress")

	// ErrEmptyPrompt indicates a blank prompt; the start is a no-op.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// Manager is the mutex-guarded owner of a session's conversation, draft
// prompt, and operation state. All methods are safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	conv     *model.Conversation
	draft    string
	lastCode string

	op    Operation
	token string // identifies the in-flight operation; empty when idle
}

// NewManager creates a session with an empty conversation in the idle state.
func NewManager() *Manager {
	return &Manager{
		conv: model.NewConversation(),
		op:   OpIdle,
	}
}

// Operation returns the current operation state.
func (m *Manager) Operation() Operation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.op
}

// Busy reports whether any operation is in flight.
func (m *Manager) Busy() bool {
	return m.Operation() != OpIdle
}

// Messages returns a snapshot of the conversation's message log.
func (m *Manager) Messages() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.History()
}

// ConversationID returns the conversation's identifier.
func (m *Manager) ConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.ID
}

// DraftPrompt returns the current draft prompt.
func (m *Manager) DraftPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SetDraftPrompt replaces the draft prompt, typically as the user types.
func (m *Manager) SetDraftPrompt(prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = prompt
}

// LastGeneratedCode returns the most recent successful generation result.
func (m *Manager) LastGeneratedCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCode
}

// Token returns the token of the in-flight operation, or "" when idle.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// ===== GENERATION =====

// StartGeneration begins a code generation for the given prompt.
//
// A blank prompt returns ErrEmptyPrompt without changing any state. If
// another operation is in flight it returns ErrBusy. On success the user
// message is appended, the draft is cleared, and the returned token must be
// passed to FinishGeneration.
func (m *Manager) StartGeneration(prompt string) (string, error) {
	if util.IsBlank(prompt) {
		return "", ErrEmptyPrompt
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpIdle {
		return "", ErrBusy
	}

	m.conv.AppendUser(prompt)
	m.draft = ""
	m.op = OpGenerating
	m.token = uuid.NewString()
	return m.token, nil
}

// FinishGeneration completes a generation by appending exactly one assistant
// message. isError marks the content as a failure placeholder rather than
// real code. A stale token (superseded by reset or a newer operation) is
// discarded: the conversation is untouched and false is returned.
func (m *Manager) FinishGeneration(token, content string, isError bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpGenerating || token != m.token {
		return false
	}

	if isError {
		m.conv.AppendError(content)
	} else {
		m.conv.AppendAssistant(content)
		m.lastCode = content
	}
	m.toIdle()
	return true
}

// ===== IMPROVEMENT =====

// StartImprovement begins a prompt improvement. The conversation is never
// touched by this path. Blank prompts and busy sessions fail the same way
// as StartGeneration.
func (m *Manager) StartImprovement(prompt string) (string, error) {
	if util.IsBlank(prompt) {
		return "", ErrEmptyPrompt
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpIdle {
		return "", ErrBusy
	}

	m.op = OpImproving
	m.token = uuid.NewString()
	return m.token, nil
}

// FinishImprovement completes an improvement by replacing the draft prompt
// with the refined text. Stale tokens are discarded.
func (m *Manager) FinishImprovement(token, refined string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpImproving || token != m.token {
		return false
	}

	m.draft = refined
	m.toIdle()
	return true
}

// FailImprovement completes a failed improvement. The draft prompt is left
// exactly as it was.
func (m *Manager) FailImprovement(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpImproving || token != m.token {
		return false
	}

	m.toIdle()
	return true
}

// ===== INSTRUCTIONS =====

// StartInstructions begins fetching the usage guide. The guide is display
// content only, so neither start nor finish touches the conversation.
func (m *Manager) StartInstructions() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpIdle {
		return "", ErrBusy
	}

	m.op = OpFetchingInstructions
	m.token = uuid.NewString()
	return m.token, nil
}

// FinishInstructions returns the session to idle after an instructions fetch,
// successful or not.
func (m *Manager) FinishInstructions(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpFetchingInstructions || token != m.token {
		return false
	}

	m.toIdle()
	return true
}

// ===== RESET =====

// Reset starts a new chat: the message log and last generated code are
// cleared, the draft prompt is kept. Reset is only legal while idle; callers
// disable the action while an operation is in flight.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.op != OpIdle {
		return ErrBusy
	}

	m.conv.Reset()
	m.lastCode = ""
	m.token = ""
	return nil
}

// toIdle clears the in-flight state. Callers hold the mutex.
func (m *Manager) toIdle() {
	m.op = OpIdle
	m.token = ""
}
