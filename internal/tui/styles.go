package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	brandStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	pathStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// Follow badge styles.
var (
	badgeFollowStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	badgePausedStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// Order status marks in the gutter.
var (
	markCompletedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	markPendingStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	markFailedStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

var errorBarStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)
