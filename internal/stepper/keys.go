package stepper

import (
	"charm.land/bubbles/v2/key"
	"github.com/mark3labs/stepr/internal/focus"
)

// KeyMap holds the header key bindings: Select activates the focused header,
// Focus moves between headers.
type KeyMap struct {
	Select key.Binding
	Focus  focus.KeyMap
}

// DefaultKeyMap binds Enter and Space to selection and the arrow, Home and
// End keys to header navigation.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter/space", "open step")),
		Focus:  focus.DefaultKeyMap(),
	}
}
