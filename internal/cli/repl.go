// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - line-mode chat for dumb terminals and remote shells.
//
// Interactive commands:
//   /improve        refine the current draft prompt
//   /code           reprint the last generated scene code
//   /guide          show the rendering guide
//   /new            start a new conversation
//   /help, /h       show available commands
//   /quit, /q       exit
//   Ctrl+C, Ctrl+D  exit

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/sceneforge/sceneforge/internal/client"
	"github.com/sceneforge/sceneforge/internal/config"
	"github.com/sceneforge/sceneforge/internal/pipeline"
	"github.com/sceneforge/sceneforge/internal/session"
	"github.com/sceneforge/sceneforge/internal/ui/components"
	"github.com/sceneforge/sceneforge/internal/ui/styles"
	"github.com/sceneforge/sceneforge/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader wraps liner with persistent input history.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(configDir, "history"),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *lineReader) read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// close saves history and releases the terminal.
func (r *lineReader) close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the line-mode chat session.
type REPL struct {
	api  *client.Client
	sess *session.Manager
	in   *lineReader
}

// NewREPL creates a line-mode session against the given service client.
func NewREPL(api *client.Client) *REPL {
	return &REPL{
		api:  api,
		sess: session.NewManager(),
		in:   newLineReader(),
	}
}

// Run executes the REPL loop until the user exits.
func (r *REPL) Run(ctx context.Context) error {
	defer r.in.close()

	fmt.Println(welcomeStyle.Render("SceneForge") + infoStyle.Render(" - describe an animation, get Manim scene code"))
	fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()

	for {
		input, err := r.in.read(promptStyle.Render("sceneforge> "))
		if err != nil {
			// Ctrl+C (ErrPromptAborted) and Ctrl+D (EOF) both exit.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !r.handleCommand(ctx, input) {
				return nil
			}
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		r.generate(ctx, input)
	}
}

// handleCommand dispatches a slash command. Returns false to exit.
func (r *REPL) handleCommand(ctx context.Context, input string) bool {
	cmd, rest, _ := strings.Cut(input, " ")

	switch strings.ToLower(cmd) {
	case "/quit", "/q", "/exit":
		return false

	case "/help", "/h":
		r.printHelp()

	case "/improve":
		prompt := strings.TrimSpace(rest)
		if prompt == "" {
			prompt = r.sess.DraftPrompt()
		}
		r.improve(ctx, prompt)

	case "/code":
		code := r.sess.LastGeneratedCode()
		if code == "" {
			fmt.Println(warningStyle.Render("No scene code generated yet."))
			break
		}
		r.printCode(code)

	case "/guide":
		r.guide(ctx)

	case "/new":
		if err := r.sess.Reset(); err != nil {
			fmt.Println(warningStyle.Render("An operation is still in flight."))
			break
		}
		fmt.Println(infoStyle.Render("Started a new conversation."))

	default:
		fmt.Println(warningStyle.Render("Unknown command: " + cmd))
	}
	return true
}

func (r *REPL) printHelp() {
	rows := []struct{ cmd, desc string }{
		{"/improve [text]", "refine the draft prompt (or the given text)"},
		{"/code", "reprint the last generated scene code"},
		{"/guide", "show the rendering guide"},
		{"/new", "start a new conversation"},
		{"/quit, /q", "exit"},
	}
	for _, row := range rows {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-16s", row.cmd)),
			infoStyle.Render(row.desc))
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

func (r *REPL) generate(ctx context.Context, prompt string) {
	token, err := r.sess.StartGeneration(prompt)
	if err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}

	fmt.Println(infoStyle.Render("Generating scene code..."))
	code, err := r.api.Generate(ctx, prompt)
	if err != nil {
		r.sess.FinishGeneration(token, pipeline.ErrorCode(err.Error()), true)
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]")+" "+err.Error())
		return
	}

	isError := pipeline.IsErrorCode(code)
	r.sess.FinishGeneration(token, code, isError)
	if isError {
		fmt.Println(errorStyle.Render(code))
		return
	}
	r.printCode(code)
}

func (r *REPL) improve(ctx context.Context, prompt string) {
	if util.IsBlank(prompt) {
		fmt.Println(warningStyle.Render("Nothing to improve. Usage: /improve <prompt>"))
		return
	}

	token, err := r.sess.StartImprovement(prompt)
	if err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}

	refined, err := r.api.ImprovePrompt(ctx, prompt)
	if err != nil {
		r.sess.FailImprovement(token)
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]")+" "+err.Error())
		return
	}

	r.sess.FinishImprovement(token, refined)
	fmt.Println(infoStyle.Render("Refined prompt:"))
	fmt.Println(refined)
	fmt.Println(infoStyle.Render("Submit it as-is or edit it further."))
}

func (r *REPL) guide(ctx context.Context) {
	token, err := r.sess.StartInstructions()
	if err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}

	md, err := r.api.Instructions(ctx)
	r.sess.FinishInstructions(token)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]")+" "+err.Error())
		return
	}

	fmt.Println(RenderMarkdown(md, GetTerminalWidth()))
}

// printCode prints scene code, syntax highlighted when stdout is a TTY.
func (r *REPL) printCode(code string) {
	if IsStdoutTTY() {
		fmt.Println(components.HighlightPython(code))
	} else {
		fmt.Println(code)
	}
}
