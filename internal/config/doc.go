// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for sceneforge.
//
// Supports TOML configuration with sensible defaults and environment
// variable overrides. Configuration is read once at process start and is
// treated as immutable for the process lifetime; neither the client nor the
// generation service re-reads it while running.
//
// Configuration file location (in order of precedence):
//   - SCENEFORGE_* environment variables
//   - ~/.sceneforge/config.toml
//   - Built-in defaults
package config
