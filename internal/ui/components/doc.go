// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the SceneForge
// TUI: message bubbles for prompts and replies, syntax-highlighted code
// blocks for generated Manim scenes, and the status bar.
package components
