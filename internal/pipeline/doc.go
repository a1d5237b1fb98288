// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline implements the prompt pipelines that turn natural-language
// animation descriptions into Manim code.
//
// Two pipelines exist with deliberately different error contracts:
//
//   - Generation never returns an error. Any failure is converted into a
//     placeholder code comment so callers can always render something.
//   - Improvement propagates errors, wrapped in *ImprovementError, so callers
//     can distinguish an improved prompt from a failure.
//
// Both pipelines cap prompt length before invoking the model and sanitize
// markdown code fences from model output where appropriate.
package pipeline
