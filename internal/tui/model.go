package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/t3rnops/t3rnctl/internal/logstats"
)

// maxLines caps how many log lines are kept in memory.
const maxLines = 5000

// Model is the root Bubbletea model for the log viewer.
type Model struct {
	path     string
	lines    []string
	partial  string // trailing bytes without a newline yet
	viewport viewport.Model

	following bool
	wrap      bool
	showHelp  bool
	err       error

	width  int
	height int
}

// NewModel creates a viewer showing initial lines of the log at path.
func NewModel(path string, initial []string) Model {
	m := Model{
		path:      path,
		lines:     append([]string(nil), initial...),
		viewport:  viewport.New(80, 22),
		following: true,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.refresh()
		return m, nil

	case LogDataMsg:
		m.appendData(msg.Data)
		m.refresh()
		return m, nil

	case FollowErrMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, viewerKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, viewerKeys.Follow):
		m.following = !m.following
		if m.following {
			m.viewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, viewerKeys.Top):
		m.following = false
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, viewerKeys.Bottom):
		m.following = true
		m.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, viewerKeys.Wrap):
		m.wrap = !m.wrap
		m.refresh()
		return m, nil
	case key.Matches(msg, viewerKeys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	// Scrolling away from the end pauses; returning to it resumes.
	m.following = m.viewport.AtBottom()
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = m.viewport.Width
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.path, len(m.lines), m.following, width),
		m.viewport.View(),
		renderStatusBar(&m, width),
	)
}

// appendData splits data into complete lines and keeps the remainder.
func (m *Model) appendData(data []byte) {
	text := m.partial + string(data)
	parts := strings.Split(text, "\n")
	m.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		m.lines = append(m.lines, strings.TrimSuffix(line, "\r"))
	}
	if over := len(m.lines) - maxLines; over > 0 {
		m.lines = append(m.lines[:0:0], m.lines[over:]...)
	}
}

func (m *Model) refresh() {
	width := m.viewport.Width
	rendered := make([]string, 0, len(m.lines))
	for _, line := range m.lines {
		line = mark(line) + line
		if m.wrap {
			rendered = append(rendered, ansi.Hardwrap(line, width, true))
		} else {
			rendered = append(rendered, ansi.Truncate(line, width, "…"))
		}
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	if m.following {
		m.viewport.GotoBottom()
	}
}

// mark returns a gutter marker for lines that report an order status.
func mark(line string) string {
	switch logstats.LineStatus(ansi.Strip(line)) {
	case logstats.StatusCompleted:
		return markCompletedStyle.Render("✓ ")
	case logstats.StatusFailed:
		return markFailedStyle.Render("✗ ")
	case logstats.StatusPending:
		return markPendingStyle.Render("… ")
	default:
		return "  "
	}
}
