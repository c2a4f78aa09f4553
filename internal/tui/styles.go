package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorAccent  = lipgloss.Color("#bb9af7")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorError   = lipgloss.Color("#f7768e")
	colorMuted   = lipgloss.Color("#565f89")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleItem     = lipgloss.NewStyle().Foreground(colorMuted)
	styleSelected = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	focusedBoxStyle = boxStyle.BorderForeground(colorPrimary)

	noticeStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	hintStyle   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	busyStyle   = lipgloss.NewStyle().Foreground(colorAccent)
)
