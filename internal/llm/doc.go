// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides OpenRouter integration for cloud model inference.
//
// OpenRouter exposes many model providers through a single chat-completions
// API. This package implements the client used by the generation pipelines:
// request/response types, error mapping, and retry with exponential backoff.
package llm
