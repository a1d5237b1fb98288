// sceneforged - the SceneForge generation service.
//
// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sceneforge/sceneforge/internal/cache"
	"github.com/sceneforge/sceneforge/internal/config"
	"github.com/sceneforge/sceneforge/internal/llm"
	"github.com/sceneforge/sceneforge/internal/pipeline"
	"github.com/sceneforge/sceneforge/internal/server"
)

func main() {
	var (
		flagConfig = flag.String("config", "", "path to config file")
		flagPort   = flag.Int("port", 0, "listen port (overrides config)")
	)
	flag.Parse()

	if err := run(*flagConfig, *flagPort); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Model.OpenRouterKey == "" {
		return errors.New("no OpenRouter API key configured (set SCENEFORGE_OPENROUTER_KEY or model.openrouter_key)")
	}

	model := llm.NewClient(cfg.Model.OpenRouterKey).
		WithBaseURL(cfg.Model.APIBase).
		WithModel(cfg.Model.Model).
		WithTimeout(time.Duration(cfg.Model.TimeoutSecs) * time.Second)

	port := cfg.Service.Port
	if portOverride != 0 {
		port = portOverride
	}

	srv := server.NewServer(port,
		pipeline.NewGenerator(model),
		pipeline.NewImprover(model))

	srv.WithCache(buildCache(cfg))

	if len(cfg.Service.AllowedOrigins) > 0 {
		cors := server.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Service.AllowedOrigins
		srv.WithCORS(cors)
	}
	if cfg.Service.RateLimitPerMinute > 0 {
		srv.WithRateLimiter(server.NewRateLimiter(cfg.Service.RateLimitPerMinute, time.Minute))
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("SHUTDOWN | signal=%s", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// loadConfig reads the config file and applies environment overrides.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildCache picks the cache backend from config: sqlite when a path is
// set, in-memory otherwise, disabled when caching is off.
func buildCache(cfg *config.Config) cache.Store {
	if !cfg.Cache.Enabled {
		return cache.Disabled{}
	}

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	if cfg.Cache.Path != "" {
		store, err := cache.NewSQLiteCache(cfg.Cache.Path, ttl, cfg.Cache.MaxSize)
		if err != nil {
			log.Printf("CACHE_FALLBACK | error=%v", err)
			return cache.NewMemoryCache(ttl, cfg.Cache.MaxSize)
		}
		return store
	}
	return cache.NewMemoryCache(ttl, cfg.Cache.MaxSize)
}
