// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client implements the endpoint-fallback HTTP client used to reach
// the generation service over an unreliable network.
//
// Requests go to the session's current endpoint, initially the primary. On
// any failure (transport error or non-2xx status) the session switches to the
// fallback endpoint and retries exactly once; the switch is sticky for the
// remainder of the session. There is no retry beyond that single fallback
// attempt. Callers that need more resilience wrap this client with their own
// backoff policy.
package client
