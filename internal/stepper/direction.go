package stepper

import (
	"github.com/mark3labs/stepr/internal/event"
	"github.com/mark3labs/stepr/internal/focus"
)

// Direction is the layout text direction.
type Direction = focus.Direction

const (
	LTR = focus.LTR
	RTL = focus.RTL
)

// Directionality provides the current text direction and notifies on change.
type Directionality interface {
	Value() Direction
	Subscribe(fn func(Direction)) (unsubscribe func())
}

// Bidi is a settable Directionality.
type Bidi struct {
	value   Direction
	changes event.Emitter[Direction]
}

// NewBidi returns a Bidi starting at dir.
func NewBidi(dir Direction) *Bidi {
	return &Bidi{value: dir}
}

// Value returns RTL when set to RTL and LTR for anything else.
func (b *Bidi) Value() Direction {
	if b.value == RTL {
		return RTL
	}
	return LTR
}

// Set changes the direction and notifies subscribers if it differs.
func (b *Bidi) Set(dir Direction) {
	prev := b.Value()
	b.value = dir
	if b.Value() != prev {
		b.changes.Emit(b.Value())
	}
}

// Toggle flips between LTR and RTL.
func (b *Bidi) Toggle() {
	if b.Value() == RTL {
		b.Set(LTR)
		return
	}
	b.Set(RTL)
}

// Subscribe registers fn for direction changes.
func (b *Bidi) Subscribe(fn func(Direction)) func() {
	return b.changes.Subscribe(fn)
}

// ParseDirection maps "rtl" to RTL and everything else to LTR.
func ParseDirection(s string) Direction {
	if Direction(s) == RTL {
		return RTL
	}
	return LTR
}
