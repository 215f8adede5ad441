package focus

import (
	"strings"

	"charm.land/bubbles/v2/key"
)

// KeyEvent is a single key press as seen by the focus manager and the
// stepper. Key holds the base key name in bubbletea notation ("left",
// "enter", "space", "a"); modifiers are carried separately.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool

	defaultPrevented bool
}

// ParseKeyEvent builds a KeyEvent from a bubbletea keystroke string such as
// "ctrl+shift+left" or "enter". A literal space is normalized to "space".
func ParseKeyEvent(s string) *KeyEvent {
	ev := &KeyEvent{}
	if s == " " {
		ev.Key = "space"
		return ev
	}

	name := s
	mods := ""
	// "ctrl++" is ctrl with the plus key.
	if strings.HasSuffix(s, "++") {
		mods, name = s[:len(s)-2], "+"
	} else if i := strings.LastIndex(s, "+"); i > 0 {
		mods, name = s[:i], s[i+1:]
	}

	for _, m := range strings.Split(mods, "+") {
		switch m {
		case "ctrl":
			ev.Ctrl = true
		case "alt":
			ev.Alt = true
		case "shift":
			ev.Shift = true
		case "meta", "super":
			ev.Meta = true
		}
	}

	if name == " " {
		name = "space"
	}
	ev.Key = name
	return ev
}

// String returns the keystroke in bubbletea notation, modifiers first.
// It lets a KeyEvent be matched against key.Binding values.
func (e *KeyEvent) String() string {
	var b strings.Builder
	if e.Ctrl {
		b.WriteString("ctrl+")
	}
	if e.Alt {
		b.WriteString("alt+")
	}
	if e.Shift {
		b.WriteString("shift+")
	}
	if e.Meta {
		b.WriteString("meta+")
	}
	b.WriteString(e.Key)
	return b.String()
}

// HasModifier reports whether any of ctrl, alt, shift or meta is held.
func (e *KeyEvent) HasModifier() bool {
	return e.Ctrl || e.Alt || e.Shift || e.Meta
}

// PreventDefault marks the event as consumed.
func (e *KeyEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a handler consumed the event.
func (e *KeyEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// KeyMap holds the bindings the KeyManager reacts to.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	End   key.Binding
}

// DefaultKeyMap returns arrow, Home and End bindings without modifiers.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Home:  key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
		End:   key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
	}
}
