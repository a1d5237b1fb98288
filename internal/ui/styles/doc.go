// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the SceneForge TUI.
// All colors use Lip Gloss AdaptiveColor so the palette adjusts to light and
// dark terminals automatically, and the Theme adapts to the terminal's color
// profile as reported by termenv.
package styles
