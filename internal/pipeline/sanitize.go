// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import "strings"

// StripFence removes a leading "```python" marker and a trailing "```" marker
// from model output, trimming surrounding whitespace after each removal.
//
// Only exact markers at the very start and end are stripped; fences embedded
// in the middle of the text are left alone. Already-clean code passes through
// unchanged, so applying the function twice gives the same result as once.
func StripFence(s string) string {
	if strings.HasPrefix(s, "```python") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```python"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
