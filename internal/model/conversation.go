// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered chat session between the user and the
// generator. Messages are append-only: a Message is never edited or removed
// once added, and the only whole-conversation mutation is Reset.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages"`
}

// NewConversation creates a new, empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a single message to the conversation.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AppendUser creates and appends a user message.
func (c *Conversation) AppendUser(content string) Message {
	msg := NewUserMessage(content)
	c.Append(msg)
	return msg
}

// AppendAssistant creates and appends an assistant message.
func (c *Conversation) AppendAssistant(content string) Message {
	msg := NewAssistantMessage(content)
	c.Append(msg)
	return msg
}

// AppendError creates and appends an assistant error-placeholder message.
func (c *Conversation) AppendError(content string) Message {
	msg := NewErrorMessage(content)
	c.Append(msg)
	return msg
}

// LastMessage returns the most recent message, or a zero Message if empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// LastAssistantMessage returns the most recent assistant message.
func (c *Conversation) LastAssistantMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// CountRole returns the number of messages with the given role.
func (c *Conversation) CountRole(role Role) int {
	n := 0
	for _, msg := range c.Messages {
		if msg.Role == role {
			n++
		}
	}
	return n
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// History returns the message sequence for display. Callers must treat the
// returned slice as read-only.
func (c *Conversation) History() []Message {
	return c.Messages
}

// Reset removes all messages, starting a fresh session under the same ID
// lineage. The conversation itself, not its messages, is the unit of reuse.
func (c *Conversation) Reset() {
	c.Messages = make([]Message, 0)
	c.UpdatedAt = time.Now()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
