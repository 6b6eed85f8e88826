package tui

import "github.com/charmbracelet/bubbles/key"

// ViewerKeys are the log viewer bindings.
type ViewerKeys struct {
	Quit     key.Binding
	Follow   key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Wrap     key.Binding
	Help     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var viewerKeys = ViewerKeys{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "back"),
	),
	Follow: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "follow"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Wrap: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "wrap"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "scroll"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "scroll"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("Ctrl+u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d", " "),
		key.WithHelp("Ctrl+d", "page down"),
	),
}

// shortHelp lists the bindings shown in the status bar.
func shortHelp() []key.Binding {
	k := viewerKeys
	return []key.Binding{k.Up, k.Follow, k.Top, k.Bottom, k.Help, k.Quit}
}

// fullHelp lists every binding for the help line.
func fullHelp() []key.Binding {
	k := viewerKeys
	return []key.Binding{k.Up, k.PageUp, k.PageDown, k.Top, k.Bottom, k.Follow, k.Wrap, k.Help, k.Quit}
}
