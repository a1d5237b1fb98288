// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view for SceneForge.
//
// The view owns a session.Manager (the conversation state machine) and an
// endpoint fallback client. Submitting a prompt starts a generation, ctrl+i
// refines the draft prompt, ctrl+n starts a fresh conversation and ctrl+g
// shows the rendering guide. While an operation is in flight every other
// operation is rejected, so the three never overlap.
package chat
