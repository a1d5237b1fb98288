// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the generation service over HTTP.
//
// Endpoints:
//   - POST /generate       - Natural-language prompt to Manim code
//   - POST /improve_prompt - Rewrite a vague prompt into a detailed one
//   - GET  /instructions   - Static "how to run" guide
//   - GET  /health         - Health check
//   - GET  /stats          - Usage statistics
//   - GET  /metrics        - Prometheus metrics
//
// The two generation endpoints carry different error contracts: /generate
// always answers 200 with code (failures become a placeholder comment in the
// body), while /improve_prompt answers 400 for a missing prompt and 500 with
// an error body when the pipeline fails.
package server
