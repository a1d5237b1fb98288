// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// codeServer returns a generation service stub that always succeeds.
func codeServer(t *testing.T, code string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"code": code})
	}))
}

func failingServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestSend_UsesPrimaryWhenHealthy(t *testing.T) {
	var primaryHits, fallbackHits atomic.Int32
	primary := codeServer(t, "ok", &primaryHits)
	defer primary.Close()
	fallback := codeServer(t, "ok", &fallbackHits)
	defer fallback.Close()

	c := New(NewEndpoints(primary.URL, fallback.URL))

	if _, err := c.Generate(context.Background(), "draw"); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if primaryHits.Load() != 1 || fallbackHits.Load() != 0 {
		t.Errorf("hits primary=%d fallback=%d, want 1/0", primaryHits.Load(), fallbackHits.Load())
	}
	if c.Endpoints().OnFallback() {
		t.Error("session should stay on primary after success")
	}
}

func TestSend_FallbackRetryIsStickyForSession(t *testing.T) {
	var primaryHits, fallbackHits atomic.Int32
	primary := failingServer(t, http.StatusInternalServerError, "boom", &primaryHits)
	defer primary.Close()
	fallback := codeServer(t, "class Ball(Scene):", &fallbackHits)
	defer fallback.Close()

	c := New(NewEndpoints(primary.URL, fallback.URL))

	// First request: primary fails, exactly one retry against fallback.
	code, err := c.Generate(context.Background(), "draw")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if code != "class Ball(Scene):" {
		t.Errorf("code = %q", code)
	}
	if primaryHits.Load() != 1 || fallbackHits.Load() != 1 {
		t.Fatalf("hits primary=%d fallback=%d, want 1/1", primaryHits.Load(), fallbackHits.Load())
	}

	// Second request skips primary entirely.
	if _, err := c.Generate(context.Background(), "draw again"); err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}
	if primaryHits.Load() != 1 {
		t.Errorf("primary hit again after sticky switch: hits=%d", primaryHits.Load())
	}
	if fallbackHits.Load() != 2 {
		t.Errorf("fallback hits = %d, want 2", fallbackHits.Load())
	}
}

func TestSend_NetworkFailureTriggersFallback(t *testing.T) {
	fallback := codeServer(t, "ok", nil)
	defer fallback.Close()

	// A closed server produces a transport error.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	c := New(NewEndpoints(deadURL, fallback.URL))

	if _, err := c.Generate(context.Background(), "draw"); err != nil {
		t.Fatalf("Generate() should succeed via fallback: %v", err)
	}
	if !c.Endpoints().OnFallback() {
		t.Error("session should be sticky on fallback")
	}
}

func TestSend_BothEndpointsFailing(t *testing.T) {
	var primaryHits, fallbackHits atomic.Int32
	primary := failingServer(t, http.StatusInternalServerError, "primary down", &primaryHits)
	defer primary.Close()
	fallback := failingServer(t, http.StatusBadGateway, "fallback down", &fallbackHits)
	defer fallback.Close()

	c := New(NewEndpoints(primary.URL, fallback.URL))

	_, err := c.Generate(context.Background(), "draw")
	if err == nil {
		t.Fatal("expected error when both endpoints fail")
	}

	// The error names both failures and wraps the fallback's HTTPError.
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "502") {
		t.Errorf("error should include both statuses: %v", err)
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusBadGateway {
		t.Errorf("error should wrap the fallback HTTPError, got %v", err)
	}

	// Exactly one retry, no more.
	if primaryHits.Load() != 1 || fallbackHits.Load() != 1 {
		t.Errorf("hits primary=%d fallback=%d, want 1/1", primaryHits.Load(), fallbackHits.Load())
	}

	// Stickiness persists even though the request failed.
	if !c.Endpoints().OnFallback() {
		t.Error("failed fallback attempt should still leave the session sticky")
	}

	// A later request goes straight to fallback and fails terminally.
	if _, err := c.Generate(context.Background(), "again"); err == nil {
		t.Fatal("expected terminal failure on fallback")
	}
	if primaryHits.Load() != 1 {
		t.Errorf("primary retried after sticky switch: hits=%d", primaryHits.Load())
	}
	if fallbackHits.Load() != 2 {
		t.Errorf("fallback hits = %d, want 2 (one per request, no extra retries)", fallbackHits.Load())
	}
}

func TestSend_ConcurrentFirstFailures(t *testing.T) {
	var fallbackHits atomic.Int32
	primary := failingServer(t, http.StatusInternalServerError, "down", nil)
	defer primary.Close()
	fallback := codeServer(t, "ok", &fallbackHits)
	defer fallback.Close()

	c := New(NewEndpoints(primary.URL, fallback.URL))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Generate(context.Background(), "draw"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Generate() error: %v", err)
	}
	if !c.Endpoints().OnFallback() {
		t.Error("session should end on fallback")
	}
}

func TestImprovePrompt_DecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/improve_prompt" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"improved_prompt":"A circle expanding into a square, 2s duration, blue fill"}`))
	}))
	defer server.Close()

	c := New(NewEndpoints(server.URL, server.URL))
	improved, err := c.ImprovePrompt(context.Background(), "circle to square")
	if err != nil {
		t.Fatalf("ImprovePrompt() error: %v", err)
	}
	if improved != "A circle expanding into a square, 2s duration, blue fill" {
		t.Errorf("improved = %q", improved)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := New(NewEndpoints(server.URL, server.URL))
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}
}
