// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sceneforge/sceneforge/internal/client"
	"github.com/sceneforge/sceneforge/internal/pipeline"
	"github.com/sceneforge/sceneforge/internal/session"
	"github.com/sceneforge/sceneforge/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Conversation state machine
	sess *session.Manager

	// Endpoint fallback client
	api *client.Client

	// UI components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Rendering guide overlay. The guide is fetched once and cached;
	// reopening the overlay does not refetch.
	guide     string
	showGuide bool

	// Transient status note shown in the status bar
	note string

	// Version for the welcome screen
	version string
}

// New creates a new chat model wired to the given service client.
func New(theme *styles.Theme, api *client.Client, version string) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe the animation you want..."
	ta.CharLimit = pipeline.MaxPromptLength
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.FocusedStyle.Prompt = theme.InputPrompt
	ta.BlurredStyle.Prompt = theme.InputPrompt
	ta.Focus()
	// Enter submits; ctrl+j inserts a literal newline.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	return Model{
		theme:    theme,
		sess:     session.NewManager(),
		api:      api,
		viewport: vp,
		input:    ta,
		spinner:  sp,
		keyMap:   DefaultKeyMap(),
		version:  version,
	}
}

// Session exposes the conversation state machine, mainly for tests.
func (m Model) Session() *session.Manager {
	return m.sess
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case GenerateDoneMsg:
		return m.handleGenerateDone(msg)

	case ImproveDoneMsg:
		return m.handleImproveDone(msg)

	case InstructionsDoneMsg:
		return m.handleInstructionsDone(msg)

	case spinner.TickMsg:
		if m.sess.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}
