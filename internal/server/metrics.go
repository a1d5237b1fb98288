// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics exposed at GET /metrics. Each Metrics
// value carries its own registry so multiple servers can coexist in one
// process (tests rely on this).
type Metrics struct {
	registry *prometheus.Registry

	GenerationsTotal    *prometheus.CounterVec
	GenerationDuration  prometheus.Histogram
	ImprovementsTotal   *prometheus.CounterVec
	ImprovementDuration prometheus.Histogram
	UptimeSeconds       prometheus.Gauge

	startTime time.Time
}

// NewMetrics creates and registers the service metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry:  registry,
		startTime: time.Now(),
	}

	m.GenerationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sceneforge_generations_total",
			Help: "Total number of code generation requests",
		},
		[]string{"outcome"}, // ok, error, cache_hit
	)

	m.GenerationDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sceneforge_generation_duration_seconds",
			Help:    "Duration of code generation requests in seconds",
			Buckets: []float64{.05, .25, 1, 5, 15, 30, 60, 120, 180},
		},
	)

	m.ImprovementsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sceneforge_improvements_total",
			Help: "Total number of prompt improvement requests",
		},
		[]string{"outcome"}, // ok, error
	)

	m.ImprovementDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sceneforge_improvement_duration_seconds",
			Help:    "Duration of prompt improvement requests in seconds",
			Buckets: []float64{.05, .25, 1, 5, 15, 30, 60, 120, 180},
		},
	)

	m.UptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "sceneforge_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	go m.updateUptime()

	return m
}

// updateUptime periodically refreshes the uptime gauge.
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.UptimeSeconds.Set(time.Since(m.startTime).Seconds())
	}
}

// ObserveGeneration records one generation request.
func (m *Metrics) ObserveGeneration(duration time.Duration, outcome string) {
	m.GenerationsTotal.WithLabelValues(outcome).Inc()
	m.GenerationDuration.Observe(duration.Seconds())
}

// ObserveImprovement records one improvement request.
func (m *Metrics) ObserveImprovement(duration time.Duration, outcome string) {
	m.ImprovementsTotal.WithLabelValues(outcome).Inc()
	m.ImprovementDuration.Observe(duration.Seconds())
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
