// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the per-session conversation state machine.
//
// The Manager guards three pieces of state behind one mutex: the ordered
// message log, the draft prompt, and a single Operation value. At most one
// operation runs at a time; starting a second while one is in flight fails
// with ErrBusy. Every operation is identified by a token so that completions
// arriving after the operation was superseded are discarded instead of
// applied.
//
// The message-appension contract: generation appends exactly one user and
// one assistant message per accepted start, whether the pipeline succeeds or
// fails. Improvement and instruction fetches never touch the conversation.
package session
