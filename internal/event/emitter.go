// Package event provides synchronous, in-process notification channels.
package event

// Emitter delivers values to its subscribers synchronously, in subscription
// order, on the caller's goroutine. The zero value is ready to use.
type Emitter[T any] struct {
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is a no-op.
func (e *Emitter[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every subscriber with v. Subscribers added or removed while
// emitting take effect from the next Emit.
func (e *Emitter[T]) Emit(v T) {
	if len(e.subs) == 0 {
		return
	}
	subs := make([]subscriber[T], len(e.subs))
	copy(subs, e.subs)
	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of active subscribers.
func (e *Emitter[T]) Len() int {
	return len(e.subs)
}

// Clear removes every subscriber.
func (e *Emitter[T]) Clear() {
	e.subs = nil
}
