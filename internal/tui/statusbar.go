package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(m *Model, width int) string {
	if m.err != nil {
		return statusBarStyle.Width(width).Render(" " + errorBarStyle.Render("Follow stopped: "+m.err.Error()))
	}

	bindings := shortHelp()
	if m.showHelp {
		bindings = fullHelp()
	}
	left := " " + renderHints(bindings)

	right := ""
	if m.wrap {
		right = hintStyle.Render("wrap") + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderHints(bindings []key.Binding) string {
	var parts []string
	seen := make(map[string]bool)
	for _, b := range bindings {
		h := b.Help()
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		parts = append(parts, keyStyle.Render(h.Key)+" "+hintStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
