package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed    = lipgloss.Color("#FF5F5F")
	ColorGreen  = lipgloss.Color("#5FD75F")
	ColorYellow = lipgloss.Color("#FFD75F")
	ColorCyan   = lipgloss.Color("#5FD7FF")
	ColorGray   = lipgloss.Color("#666666")
	ColorWhite  = lipgloss.Color("#FFFFFF")
	ColorOrange = lipgloss.Color("#FFAF5F")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	InputStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	UserLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	AssistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorOrange)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	SpeakingBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	MutedBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)
)
