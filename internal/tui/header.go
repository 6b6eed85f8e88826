package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func renderHeader(path string, lineCount int, following bool, width int) string {
	left := fmt.Sprintf(" %s %s", brandStyle.Render("● t3rn executor"), pathStyle.Render(path))

	badge := badgePausedStyle.Render("PAUSED")
	if following {
		badge = badgeFollowStyle.Render("FOLLOW")
	}
	right := fmt.Sprintf("%s  %s ", hintStyle.Render(fmt.Sprintf("%d lines", lineCount)), badge)

	// Long paths give way to the badge.
	if room := width - lipgloss.Width(right) - 1; lipgloss.Width(left) > room && room > 0 {
		left = ansi.Truncate(left, room, "…")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
