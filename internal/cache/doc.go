// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides exact-match caching of generation results.
//
// Prompts are hashed and looked up before invoking the model; identical
// prompts within the TTL window return the cached code without a model call.
// Two implementations exist: a bounded in-memory cache and a SQLite-backed
// store that survives restarts. Error placeholders are never cached.
package cache
