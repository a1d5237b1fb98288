// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"strings"
	"sync"
)

// Endpoints holds the primary and fallback base URLs plus the session's
// current choice. The current endpoint starts at primary; once switched to
// fallback it stays there for the lifetime of the Endpoints value. The value
// is safe for concurrent use.
type Endpoints struct {
	mu       sync.Mutex
	primary  string
	fallback string
	current  string
}

// NewEndpoints creates an endpoint set with current pointing at primary.
// Trailing slashes are trimmed so paths can be joined with a plain "+".
func NewEndpoints(primary, fallback string) *Endpoints {
	p := strings.TrimSuffix(primary, "/")
	f := strings.TrimSuffix(fallback, "/")
	return &Endpoints{
		primary:  p,
		fallback: f,
		current:  p,
	}
}

// Current returns the base URL requests should go to.
func (e *Endpoints) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Primary returns the primary base URL.
func (e *Endpoints) Primary() string {
	return e.primary
}

// Fallback returns the fallback base URL.
func (e *Endpoints) Fallback() string {
	return e.fallback
}

// OnFallback reports whether the session has switched to the fallback.
func (e *Endpoints) OnFallback() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current == e.fallback
}

// SwitchToFallback marks the fallback as the session's current endpoint.
// Concurrent first-failures may both call this; the switch happens once and
// never reverts.
func (e *Endpoints) SwitchToFallback() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = e.fallback
}
