// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small string helpers shared by the client and the
// generation service.
//
// The truncation helpers are rune- and width-aware so previews of prompts
// and generated code never split a multi-byte character or overflow a
// terminal column budget.
package util
