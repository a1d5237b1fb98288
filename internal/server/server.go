// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sceneforge/sceneforge/internal/cache"
	"github.com/sceneforge/sceneforge/internal/instructions"
	"github.com/sceneforge/sceneforge/internal/pipeline"
	"github.com/sceneforge/sceneforge/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the HTTP server.
	DefaultPort = 5000

	// MaxRequestBodySize limits request bodies to prevent DoS (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// Version is the server version.
	Version = "0.1.0"
)

// ============================================================================
// SERVER STATS
// ============================================================================

// ServerStats tracks service usage counters.
type ServerStats struct {
	TotalRequests  int64     `json:"total_requests"`
	Generations    int64     `json:"generations"`
	Improvements   int64     `json:"improvements"`
	CacheHits      int64     `json:"cache_hits"`
	FailedRequests int64     `json:"failed_requests"`
	StartTime      time.Time `json:"start_time"`
}

// NewServerStats creates a new ServerStats instance.
func NewServerStats() *ServerStats {
	return &ServerStats{StartTime: time.Now()}
}

// RecordGeneration records one generation request.
func (s *ServerStats) RecordGeneration(cacheHit, failed bool) {
	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.Generations, 1)
	if cacheHit {
		atomic.AddInt64(&s.CacheHits, 1)
	}
	if failed {
		atomic.AddInt64(&s.FailedRequests, 1)
	}
}

// RecordImprovement records one improvement request.
func (s *ServerStats) RecordImprovement(failed bool) {
	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.Improvements, 1)
	if failed {
		atomic.AddInt64(&s.FailedRequests, 1)
	}
}

// Snapshot returns a copy of the current counters.
func (s *ServerStats) Snapshot() ServerStats {
	return ServerStats{
		TotalRequests:  atomic.LoadInt64(&s.TotalRequests),
		Generations:    atomic.LoadInt64(&s.Generations),
		Improvements:   atomic.LoadInt64(&s.Improvements),
		CacheHits:      atomic.LoadInt64(&s.CacheHits),
		FailedRequests: atomic.LoadInt64(&s.FailedRequests),
		StartTime:      s.StartTime,
	}
}

// Uptime returns how long the server has been running.
func (s *ServerStats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the generation service HTTP server.
type Server struct {
	port   int
	router *http.ServeMux
	server *http.Server

	generator *pipeline.Generator
	improver  *pipeline.Improver
	cache     cache.Store
	stats     *ServerStats
	metrics   *Metrics

	cors    *CORSConfig
	limiter *RateLimiter

	mu sync.RWMutex
}

// NewServer creates a server with the given pipelines. If port is 0 the
// default port is used.
func NewServer(port int, generator *pipeline.Generator, improver *pipeline.Improver) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		port:      port,
		router:    http.NewServeMux(),
		generator: generator,
		improver:  improver,
		cache:     cache.Disabled{},
		stats:     NewServerStats(),
		metrics:   NewMetrics(),
		cors:      DefaultCORSConfig(),
		limiter:   DefaultRateLimiter(),
	}

	s.setupRoutes()
	return s
}

// WithCache sets the generation cache.
func (s *Server) WithCache(store cache.Store) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = store
	return s
}

// WithCORS sets a custom CORS configuration.
func (s *Server) WithCORS(config *CORSConfig) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cors = config
	return s
}

// WithRateLimiter sets a custom rate limiter.
func (s *Server) WithRateLimiter(limiter *RateLimiter) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = limiter
	return s
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the fully assembled handler, middleware included.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(s.limiter),
		CORSMiddleware(s.cors),
	)(s.router)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /generate", s.handleGenerate)
	s.router.HandleFunc("POST /improve_prompt", s.handleImprovePrompt)
	s.router.HandleFunc("GET /instructions", s.handleInstructions)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)
	s.router.Handle("GET /metrics", s.metrics.Handler())
}

// ============================================================================
// REQUEST/RESPONSE TYPES
// ============================================================================

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the body of a successful POST /generate.
type GenerateResponse struct {
	Code string `json:"code"`
}

// ImproveRequest is the body of POST /improve_prompt.
type ImproveRequest struct {
	Prompt string `json:"prompt"`
}

// ImproveResponse is the body of a successful POST /improve_prompt.
type ImproveResponse struct {
	ImprovedPrompt string `json:"improved_prompt"`
}

// InstructionsResponse is the body of GET /instructions.
type InstructionsResponse struct {
	Instructions string `json:"instructions"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	TotalRequests  int64 `json:"total_requests"`
	Generations    int64 `json:"generations"`
	Improvements   int64 `json:"improvements"`
	CacheHits      int64 `json:"cache_hits"`
	FailedRequests int64 `json:"failed_requests"`
	UptimeSeconds  int64 `json:"uptime_seconds"`
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleGenerate handles POST /generate. It never fails with a 5xx: pipeline
// errors come back as a placeholder comment in the code body.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	start := time.Now()

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("GENERATE_BAD_REQUEST | error=%v", err)
		s.writeError(w, http.StatusBadRequest, "No JSON data received")
		return
	}
	if util.IsBlank(req.Prompt) {
		s.writeError(w, http.StatusBadRequest, "No prompt provided")
		return
	}

	s.mu.RLock()
	store := s.cache
	s.mu.RUnlock()

	if code, ok := store.Get(req.Prompt); ok {
		log.Printf("CACHE_HIT | prompt=%q latency=%dms",
			util.TruncateRunes(req.Prompt, 50), time.Since(start).Milliseconds())
		s.stats.RecordGeneration(true, false)
		s.metrics.ObserveGeneration(time.Since(start), "cache_hit")
		s.writeJSON(w, http.StatusOK, GenerateResponse{Code: code})
		return
	}

	code := s.generator.Generate(r.Context(), req.Prompt)
	failed := pipeline.IsErrorCode(code)

	if !failed {
		if err := store.Put(req.Prompt, code); err != nil {
			log.Printf("CACHE_STORE_FAILED | error=%v", err)
		}
	}

	outcome := "ok"
	if failed {
		outcome = "error"
	}
	s.stats.RecordGeneration(false, failed)
	s.metrics.ObserveGeneration(time.Since(start), outcome)

	log.Printf("GENERATE_COMPLETE | outcome=%s code_len=%d latency=%dms",
		outcome, len(code), time.Since(start).Milliseconds())
	s.writeJSON(w, http.StatusOK, GenerateResponse{Code: code})
}

// handleImprovePrompt handles POST /improve_prompt. Pipeline failures are not
// swallowed: they surface as a 500 with an error body.
func (s *Server) handleImprovePrompt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	start := time.Now()

	var req ImproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("IMPROVE_BAD_REQUEST | error=%v", err)
		s.writeError(w, http.StatusBadRequest, "No JSON data received")
		return
	}
	if util.IsBlank(req.Prompt) {
		s.writeError(w, http.StatusBadRequest, "No prompt provided")
		return
	}

	improved, err := s.improver.Improve(r.Context(), req.Prompt)
	if err != nil {
		log.Printf("IMPROVE_FAILED | error=%v latency=%dms", err, time.Since(start).Milliseconds())
		s.stats.RecordImprovement(true)
		s.metrics.ObserveImprovement(time.Since(start), "error")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.stats.RecordImprovement(false)
	s.metrics.ObserveImprovement(time.Since(start), "ok")

	log.Printf("IMPROVE_COMPLETE | improved_len=%d latency=%dms",
		len(improved), time.Since(start).Milliseconds())
	s.writeJSON(w, http.StatusOK, ImproveResponse{ImprovedPrompt: improved})
}

// handleInstructions handles GET /instructions.
func (s *Server) handleInstructions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, InstructionsResponse{Instructions: instructions.Text})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.stats.Snapshot()
	s.writeJSON(w, http.StatusOK, StatsResponse{
		TotalRequests:  stats.TotalRequests,
		Generations:    stats.Generations,
		Improvements:   stats.Improvements,
		CacheHits:      stats.CacheHits,
		FailedRequests: stats.FailedRequests,
		UptimeSeconds:  int64(s.stats.Uptime().Seconds()),
	})
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start begins serving and blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		// Model invocations can run up to the 180s pipeline timeout.
		WriteTimeout: 200 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("SERVER_START | addr=%s version=%s", addr, Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and closes the cache.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	log.Printf("SERVER_SHUTDOWN | starting graceful shutdown")

	s.mu.RLock()
	store := s.cache
	s.mu.RUnlock()
	if err := store.Close(); err != nil {
		log.Printf("CACHE_CLOSE_FAILED | error=%v", err)
	}

	return s.server.Shutdown(ctx)
}

// ============================================================================
// RESPONSE HELPERS
// ============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
