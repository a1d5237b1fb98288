// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// DefaultTimeout matches the generation service's model invocation budget.
const DefaultTimeout = 180 * time.Second

// maxBodySize bounds response bodies read from the service.
const maxBodySize = 10 * 1024 * 1024 // 10MB

// NetworkError is a transport-level failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response from the service.
type HTTPError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// Client talks to the generation service with sticky endpoint fallback.
type Client struct {
	endpoints  *Endpoints
	httpClient *http.Client
}

// New creates a client over the given endpoint set.
func New(endpoints *Endpoints) *Client {
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Endpoints exposes the session's endpoint state.
func (c *Client) Endpoints() *Endpoints {
	return c.endpoints
}

// Send issues a request to the current endpoint. On any failure it switches
// the session to the fallback and retries exactly once; if the attempt was
// already against the fallback, the failure propagates immediately. When both
// endpoints fail in the same call, the returned error names both failures and
// wraps the fallback's.
func (c *Client) Send(ctx context.Context, method, path string, body any) ([]byte, error) {
	base := c.endpoints.Current()

	data, err := c.do(ctx, method, base+path, body)
	if err == nil {
		return data, nil
	}

	if base == c.endpoints.Fallback() {
		return nil, err
	}

	log.Printf("ENDPOINT_FALLBACK | path=%s error=%v", path, err)
	c.endpoints.SwitchToFallback()

	data, ferr := c.do(ctx, method, c.endpoints.Fallback()+path, body)
	if ferr != nil {
		return nil, fmt.Errorf("primary failed (%v); fallback failed: %w", err, ferr)
	}
	return data, nil
}

// do performs a single HTTP exchange.
func (c *Client) do(ctx context.Context, method, url string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// ===== TYPED OPERATIONS =====

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Code string `json:"code"`
}

type improveRequest struct {
	Prompt string `json:"prompt"`
}

type improveResponse struct {
	ImprovedPrompt string `json:"improved_prompt"`
}

type instructionsResponse struct {
	Instructions string `json:"instructions"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Generate asks the service for animation code.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	data, err := c.Send(ctx, http.MethodPost, "/generate", generateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse generate response: %w", err)
	}
	return resp.Code, nil
}

// ImprovePrompt asks the service to rewrite a prompt into a detailed one.
func (c *Client) ImprovePrompt(ctx context.Context, prompt string) (string, error) {
	data, err := c.Send(ctx, http.MethodPost, "/improve_prompt", improveRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	var resp improveResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse improve response: %w", err)
	}
	return resp.ImprovedPrompt, nil
}

// Instructions fetches the "how to run" guide from the service.
func (c *Client) Instructions(ctx context.Context) (string, error) {
	data, err := c.Send(ctx, http.MethodGet, "/instructions", nil)
	if err != nil {
		return "", err
	}

	var resp instructionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse instructions response: %w", err)
	}
	return resp.Instructions, nil
}

// Health checks service liveness against the current endpoint.
func (c *Client) Health(ctx context.Context) error {
	data, err := c.Send(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}

	var resp healthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to parse health response: %w", err)
	}
	if resp.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", resp.Status)
	}
	return nil
}
