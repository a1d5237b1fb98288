// SceneForge - natural language to Manim scene code.
//
// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sceneforge/sceneforge/internal/cli"
	"github.com/sceneforge/sceneforge/internal/client"
	"github.com/sceneforge/sceneforge/internal/config"
	"github.com/sceneforge/sceneforge/internal/ui/chat"
	"github.com/sceneforge/sceneforge/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	var (
		flagConfig   = flag.String("config", "", "path to config file")
		flagPrimary  = flag.String("primary", "", "primary service URL (overrides config)")
		flagFallback = flag.String("fallback", "", "fallback service URL (overrides config)")
		flagPlain    = flag.Bool("plain", false, "line-mode REPL instead of the full-screen TUI")
		flagAsk      = flag.String("ask", "", "one-shot: generate scene code for the prompt and exit")
		flagVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *flagVersion {
		fmt.Printf("sceneforge %s (%s)\n", Version, GitCommit)
		return
	}

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	primary := cfg.Client.PrimaryURL
	if *flagPrimary != "" {
		primary = *flagPrimary
	}
	fallback := cfg.Client.FallbackURL
	if *flagFallback != "" {
		fallback = *flagFallback
	}

	endpoints := client.NewEndpoints(primary, fallback)
	api := client.New(endpoints).
		WithTimeout(time.Duration(cfg.Client.TimeoutSecs) * time.Second)

	switch {
	case *flagAsk != "":
		if err := cli.RunAsk(context.Background(), api, *flagAsk); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case *flagPlain || !cli.IsTTY() || !cli.IsStdoutTTY():
		if err := cli.NewREPL(api).Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		runTUI(api)
	}
}

// loadConfig reads the config file (explicit path or the default location)
// and applies environment overrides.
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

// runTUI starts the full-screen Bubble Tea interface.
func runTUI(api *client.Client) {
	theme := styles.NewTheme()
	m := chat.New(theme, api, Version)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
