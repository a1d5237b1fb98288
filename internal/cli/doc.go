// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the non-TUI client surfaces: a line-mode REPL for
// terminals where the full-screen interface is unwanted or unavailable, a
// one-shot ask mode for scripting, and TTY detection shared by both.
//
// The REPL drives the same conversation state machine as the TUI, so the
// operation rules (one at a time, blank prompts ignored, draft survives a
// reset) are identical in both frontends.
package cli
