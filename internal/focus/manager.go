// Package focus tracks a logical keyboard cursor over an ordered list of
// focusable items, independent of any selection state.
package focus

import (
	"charm.land/bubbles/v2/key"
	"github.com/mark3labs/stepr/internal/event"
)

// Direction is the text direction used to map Left/Right keys.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Item is something the cursor can rest on. Focus asks the item to take
// real input focus; what that means is up to the item.
type Item interface {
	Focus()
}

// KeyManager is a logical cursor over a list of items with wrap-around,
// Home/End and orientation-aware arrow handling. Items must be comparable
// (pointers) so the cursor can follow an item across reorders.
type KeyManager struct {
	items      []Item
	active     int
	wrap       bool
	homeAndEnd bool
	vertical   bool
	horizontal Direction
	keys       KeyMap
	changes    event.Emitter[int]
	destroyed  bool
}

// NewKeyManager creates a manager over items, which the caller supplies in
// visual order. The cursor starts unset.
func NewKeyManager(items []Item) *KeyManager {
	m := &KeyManager{
		active: -1,
		keys:   DefaultKeyMap(),
	}
	m.items = append(m.items, items...)
	return m
}

// WithWrap makes next/previous wrap past the ends of the list.
func (m *KeyManager) WithWrap() *KeyManager {
	m.wrap = true
	return m
}

// WithHomeAndEnd enables Home and End to jump to the first and last item.
func (m *KeyManager) WithHomeAndEnd() *KeyManager {
	m.homeAndEnd = true
	return m
}

// WithVerticalOrientation enables or disables Up/Down navigation.
func (m *KeyManager) WithVerticalOrientation(enabled bool) *KeyManager {
	m.vertical = enabled
	return m
}

// WithHorizontalOrientation enables Left/Right navigation for the given text
// direction. An empty direction disables it.
func (m *KeyManager) WithHorizontalOrientation(dir Direction) *KeyManager {
	m.horizontal = dir
	return m
}

// WithKeyMap replaces the default bindings.
func (m *KeyManager) WithKeyMap(keys KeyMap) *KeyManager {
	m.keys = keys
	return m
}

// OnChange subscribes to cursor moves made through SetActiveItem and key
// handling. It returns an unsubscribe function.
func (m *KeyManager) OnChange(fn func(index int)) func() {
	if m.destroyed {
		return func() {}
	}
	return m.changes.Subscribe(fn)
}

// ActiveItemIndex returns the cursor position, or -1 when unset.
func (m *KeyManager) ActiveItemIndex() int {
	return m.active
}

// ActiveItem returns the item under the cursor, or nil.
func (m *KeyManager) ActiveItem() Item {
	if m.active < 0 || m.active >= len(m.items) {
		return nil
	}
	return m.items[m.active]
}

// Len returns the number of items.
func (m *KeyManager) Len() int {
	return len(m.items)
}

// SetActiveItem moves the cursor to index, clamped into range, and asks the
// item to take focus.
func (m *KeyManager) SetActiveItem(index int) {
	if m.destroyed {
		return
	}
	prev := m.active
	m.active = m.clamp(index)
	if item := m.ActiveItem(); item != nil {
		item.Focus()
	}
	if m.active != prev {
		m.changes.Emit(m.active)
	}
}

// UpdateActiveItem moves the cursor like SetActiveItem but never moves
// focus and never notifies.
func (m *KeyManager) UpdateActiveItem(index int) {
	if m.destroyed {
		return
	}
	m.active = m.clamp(index)
}

// SetFirstItemActive moves the cursor to the first item.
func (m *KeyManager) SetFirstItemActive() {
	m.SetActiveItem(0)
}

// SetLastItemActive moves the cursor to the last item.
func (m *KeyManager) SetLastItemActive() {
	m.SetActiveItem(len(m.items) - 1)
}

// SetNextItemActive moves the cursor one item forward.
func (m *KeyManager) SetNextItemActive() {
	m.moveBy(1)
}

// SetPreviousItemActive moves the cursor one item back.
func (m *KeyManager) SetPreviousItemActive() {
	m.moveBy(-1)
}

// SetItems replaces the item list. The cursor stays on the same item if it
// is still present, otherwise it is clamped into the new range.
func (m *KeyManager) SetItems(items []Item) {
	if m.destroyed {
		return
	}
	current := m.ActiveItem()
	m.items = append(m.items[:0:0], items...)

	if m.active < 0 {
		return
	}
	if current != nil {
		for i, it := range m.items {
			if it == current {
				m.active = i
				return
			}
		}
	}
	m.active = m.clamp(m.active)
}

// OnKeydown moves the cursor for navigation keys and marks the event as
// handled when it does. Keys pressed with modifiers are ignored.
func (m *KeyManager) OnKeydown(ev *KeyEvent) {
	if m.destroyed || ev == nil {
		return
	}

	switch {
	case m.vertical && key.Matches(ev, m.keys.Down):
		m.SetNextItemActive()
	case m.vertical && key.Matches(ev, m.keys.Up):
		m.SetPreviousItemActive()
	case m.horizontal != "" && key.Matches(ev, m.keys.Right):
		if m.horizontal == RTL {
			m.SetPreviousItemActive()
		} else {
			m.SetNextItemActive()
		}
	case m.horizontal != "" && key.Matches(ev, m.keys.Left):
		if m.horizontal == RTL {
			m.SetNextItemActive()
		} else {
			m.SetPreviousItemActive()
		}
	case m.homeAndEnd && key.Matches(ev, m.keys.Home):
		m.SetFirstItemActive()
	case m.homeAndEnd && key.Matches(ev, m.keys.End):
		m.SetLastItemActive()
	default:
		return
	}

	ev.PreventDefault()
}

// Destroy releases the items and listeners. Every later call is a no-op.
func (m *KeyManager) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.items = nil
	m.active = -1
	m.changes.Clear()
}

func (m *KeyManager) moveBy(delta int) {
	n := len(m.items)
	if m.destroyed || n == 0 {
		return
	}

	var next int
	switch {
	case m.active < 0 && delta > 0:
		next = 0
	case m.active < 0:
		next = n - 1
	case m.wrap:
		next = ((m.active+delta)%n + n) % n
	default:
		next = m.active + delta
		if next < 0 || next >= n {
			return
		}
	}
	m.SetActiveItem(next)
}

func (m *KeyManager) clamp(index int) int {
	n := len(m.items)
	switch {
	case n == 0:
		return -1
	case index < 0:
		return 0
	case index >= n:
		return n - 1
	}
	return index
}
