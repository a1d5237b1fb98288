// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the client for
// representing a chat between the user and the scene-code generator.
//
// # Key Types
//
//   - Conversation: ordered, append-only container for a chat session
//   - Message: single message with role, content, and timestamp
//   - Role: message role enumeration (user, assistant)
//
// Messages are immutable once appended; the only whole-conversation
// mutation is Reset, which starts a fresh session. Conversations live for
// the process lifetime only — there is deliberately no on-disk persistence.
package model
