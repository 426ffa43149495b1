package main

import "github.com/charmbracelet/lipgloss"

const (
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
)

var (
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)
