package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#7C71F9")
	colorSuccess = lipgloss.Color("#34D399")
	colorError   = lipgloss.Color("#F87171")
	colorWarning = lipgloss.Color("#FBBF24")
	colorDim     = lipgloss.Color("#6B7280")
	colorAccent  = lipgloss.Color("#60A5FA")
)

var (
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)

	styleLabel = styleDim
	styleValue = lipgloss.NewStyle()

	styleAgentChunk  = lipgloss.NewStyle().Foreground(colorAccent)
	styleUserChunk   = lipgloss.NewStyle().Foreground(colorPrimary)
	styleThought     = lipgloss.NewStyle().Faint(true).Italic(true)
	styleToolTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	stylePermission  = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	styleServerName  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
)

var toolStatusStyles = map[string]lipgloss.Style{
	"pending":     styleDim,
	"in_progress": styleWarning,
	"completed":   styleSuccess,
	"failed":      styleError,
}

func toolStatusStyle(status string) lipgloss.Style {
	if s, ok := toolStatusStyles[status]; ok {
		return s
	}
	return styleDim
}

func kvLine(key, value string) string {
	return fmt.Sprintf("  %s %s", styleLabel.Render(key+":"), styleValue.Render(value))
}

func styledError(msg string, hints ...string) string {
	out := styleError.Render(msg)
	for _, h := range hints {
		out += "\n  " + styleDim.Render(h)
	}
	return out
}
