// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sceneforge/sceneforge/internal/model"
	"github.com/sceneforge/sceneforge/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single conversation message. User prompts get a
// right-aligned bubble, generated scene code gets a left-aligned code block,
// and failed generations get a rose-tinted error box.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
}

// NewMessageBubble creates a new MessageBubble.
func NewMessageBubble(msg *model.Message) *MessageBubble {
	if msg == nil {
		m := model.Message{Role: model.RoleAssistant}
		return &MessageBubble{Message: &m, Width: 80}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch {
	case b.Message.Role == model.RoleUser:
		return b.renderUserBubble()
	case b.Message.IsError:
		return b.renderErrorBubble()
	default:
		return b.renderCodeBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Render(wrappedContent)

	header := b.renderHeader("you")

	// Right-align the bubble with a left margin.
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble))
}

// ==========================================================================
// CODE BUBBLE - Generated scene code, left-aligned
// ==========================================================================

func (b *MessageBubble) renderCodeBubble() string {
	code := b.Message.Content
	if code == "" {
		code = "..."
	}

	cb := NewCodeBlock("python", code)
	cb.SetMaxWidth(b.Width - 4)

	header := b.renderHeader("scene")

	return lipgloss.JoinVertical(lipgloss.Left, header, cb.Render())
}

// ==========================================================================
// ERROR BUBBLE - Failed generation placeholder
// ==========================================================================

func (b *MessageBubble) renderErrorBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "generation failed"
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	bubble := lipgloss.NewStyle().
		Foreground(styles.ErrorBubbleFg).
		Background(styles.ErrorBubbleBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ErrorBubbleBorder).
		BorderLeft(true).
		PaddingLeft(2).
		Render(wrappedContent)

	header := b.renderHeader("error")

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// SHARED PIECES
// ==========================================================================

func (b *MessageBubble) renderHeader(role string) string {
	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	parts := []string{roleStyle.Render(role)}

	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		tsStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		parts = append(parts, tsStyle.Render(b.Message.Timestamp.Format("15:04")))
	}

	return strings.Join(parts, " ")
}
