package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the TUI key bindings. Bindings are enabled per session
// state by setState so that the help footer only lists live actions.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Submit   key.Binding
	Download key.Binding
	Reset    key.Binding
	Quit     key.Binding
	Help     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "shift+tab"),
			key.WithHelp("↑", "previous format"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "tab"),
			key.WithHelp("↓", "next format"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "compress"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start over"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Submit, k.Download, k.Reset, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Submit},
		{k.Download, k.Reset},
		{k.Quit, k.Help},
	}
}

// setState enables the bindings that apply in the given phase. While
// selecting, printable keys belong to the path input, so q and ? only act
// from the result view and ctrl+c is the way out.
func (k *KeyMap) setState(selecting, resulted, canDownload bool) {
	k.Up.SetEnabled(selecting)
	k.Down.SetEnabled(selecting)
	k.Submit.SetEnabled(selecting)
	k.Download.SetEnabled(resulted && canDownload)
	k.Reset.SetEnabled(resulted)
	k.Help.SetEnabled(resulted)
	if selecting {
		k.Quit.SetHelp("ctrl+c", "quit")
	} else {
		k.Quit.SetHelp("q", "quit")
	}
}
