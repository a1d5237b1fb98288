// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// Operation is the session's single in-flight-operation discriminator.
// Exactly one value is active at a time; OpIdle means nothing is running.
type Operation int

const (
	// OpIdle means no operation is in flight.
	OpIdle Operation = iota

	// OpGenerating means a code generation request is in flight.
	OpGenerating

	// OpImproving means a prompt improvement request is in flight.
	OpImproving

	// OpFetchingInstructions means the usage guide is being fetched.
	OpFetchingInstructions
)

// String returns a human-readable name for the operation.
func (o Operation) String() string {
	switch o {
	case OpIdle:
		return "idle"
	case OpGenerating:
		return "generating"
	case OpImproving:
		return "improving"
	case OpFetchingInstructions:
		return "fetching_instructions"
	default:
		return "unknown"
	}
}
