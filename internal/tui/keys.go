package tui

import (
	"charm.land/bubbles/v2/key"
	"github.com/mark3labs/stepr/internal/stepper"
)

// keyMap holds the application-level bindings. Header navigation itself is
// handled by the stepper's own key map.
type keyMap struct {
	Zone        key.Binding
	Submit      key.Binding
	Back        key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Orientation key.Binding
	Direction   key.Binding
	Reset       key.Binding
	Help        key.Binding
	Quit        key.Binding
	QuitHeaders key.Binding

	Headers stepper.KeyMap
}

func defaultKeyMap() keyMap {
	return keyMap{
		Zone:        key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "steps/content")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		ScrollUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Orientation: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "orientation")),
		Direction:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "ltr/rtl")),
		Reset:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		QuitHeaders: key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Headers:     stepper.DefaultKeyMap(),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Zone, k.Headers.Select, k.Submit, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	f := k.Headers.Focus
	return [][]key.Binding{
		{f.Left, f.Right, f.Up, f.Down, f.Home, f.End, k.Headers.Select},
		{k.Zone, k.Submit, k.Back, k.ScrollUp, k.ScrollDown},
		{k.Orientation, k.Direction, k.Reset, k.Help, k.Quit},
	}
}
