// Package session runs one live wizard: a stepper built from a definition
// together with its fields and, optionally, a journal recorder. A Session is
// safe for concurrent use; every call is serialized onto the stepper.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/stepr/internal/definition"
	"github.com/mark3labs/stepr/internal/form"
	"github.com/mark3labs/stepr/internal/journal"
	"github.com/mark3labs/stepr/internal/logger"
	"github.com/mark3labs/stepr/internal/stepper"
)

var (
	// ErrUnknownStep is returned for a step ID not in the wizard.
	ErrUnknownStep = errors.New("unknown step")
	// ErrNoField is returned when setting a value on a step without input.
	ErrNoField = errors.New("step has no field")
)

// Session is a running wizard.
type Session struct {
	mu       sync.Mutex
	built    *definition.Built
	recorder *journal.Recorder
}

// New builds and initializes a session for w.
func New(w *definition.Wizard, opts ...stepper.Option) (*Session, error) {
	b, err := w.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build wizard: %w", err)
	}
	b.Stepper.Init()
	return &Session{built: b}, nil
}

// Resume builds a session for w and restores a journal state into it:
// field values, interaction flags, then the selection. The restored
// selection is not gated; an index that no longer fits clamps to 0.
func Resume(ctx context.Context, w *definition.Wizard, state *journal.State, opts ...stepper.Option) (*Session, error) {
	opts = append(opts, stepper.WithSelectedIndex(state.SelectedIndex))
	b, err := w.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build wizard: %w", err)
	}

	for _, p := range b.Pages {
		id := p.Step.ID()
		if v, ok := state.Values[id]; ok && p.Field != nil {
			if check := p.Field.SetValue(v); check != nil {
				p.Field.Resolve(check.Run(ctx))
			}
		}
		if state.Interacted[id] {
			p.Step.MarkAsInteracted()
		}
	}
	b.Stepper.Init()

	logger.Info("Resumed wizard %s at step %d (%d events)", w.Slug(), b.Stepper.SelectedIndex(), state.Events)
	return &Session{built: b}, nil
}

// AttachRecorder journals every later change through r.
func (s *Session) AttachRecorder(r *journal.Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
	r.Attach(s.built.Stepper)
}

// Close flushes the recorder, if any.
func (s *Session) Close() error {
	s.mu.Lock()
	r := s.recorder
	s.recorder = nil
	s.mu.Unlock()

	if r == nil {
		return nil
	}
	return r.Close()
}

// Wizard returns the definition the session was built from.
func (s *Session) Wizard() *definition.Wizard { return s.built.Wizard }

// Stepper returns the underlying stepper. Callers that share the session
// between goroutines must go through Do instead.
func (s *Session) Stepper() *stepper.Stepper { return s.built.Stepper }

// Pages returns the wizard pages in order.
func (s *Session) Pages() []definition.Page { return s.built.Pages }

// Values returns the current field values keyed by step ID.
func (s *Session) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]string)
	for _, p := range s.built.Pages {
		if p.Field != nil {
			values[p.Step.ID()] = p.Field.Value()
		}
	}
	return values
}

// Do runs fn with exclusive access to the stepper.
func (s *Session) Do(fn func(*stepper.Stepper)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.built.Stepper)
}

// Next advances one step. It reports whether the selection moved.
func (s *Session) Next() (bool, error) {
	return s.move(func(st *stepper.Stepper) error { return st.Next() })
}

// Previous goes back one step. It reports whether the selection moved.
func (s *Session) Previous() (bool, error) {
	return s.move(func(st *stepper.Stepper) error { return st.Previous() })
}

// Select requests the step at index. It reports whether the selection moved.
func (s *Session) Select(index int) (bool, error) {
	return s.move(func(st *stepper.Stepper) error { return st.SetSelectedIndex(index) })
}

func (s *Session) move(fn func(*stepper.Stepper) error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.built.Stepper.SelectedIndex()
	if err := fn(s.built.Stepper); err != nil {
		return false, err
	}
	return s.built.Stepper.SelectedIndex() != before, nil
}

// SetValue sets the field of step id and runs its validation, including any
// async check, before returning. The async check runs without holding the
// session, so other callers are not stalled by a slow check.
func (s *Session) SetValue(ctx context.Context, id, value string) error {
	check, err := s.Submit(id, value)
	if err != nil || check == nil {
		return err
	}
	if s.Resolve(check.Run(ctx)) {
		s.RecordValue(id)
	}
	return nil
}

// Submit sets the field of step id without waiting for its async check.
// A non-nil check must be run by the caller and handed back to Resolve; the
// value is journaled right away only when there is nothing left to run.
func (s *Session) Submit(id, value string) (*form.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.built.Page(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	if p.Field == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoField, id)
	}

	check := p.Field.SetValue(value)
	if check == nil && s.recorder != nil {
		s.recorder.RecordValue(id, p.Field.Value())
	}
	return check, nil
}

// Finish marks the selected step interacted and reports the first step that
// is neither completed nor optional, or -1 when the wizard is complete.
func (s *Session) Finish() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.built.Stepper
	if cur := st.Selected(); cur != nil {
		cur.MarkAsInteracted()
	}
	for i, step := range st.Steps() {
		if !step.Completed() && !step.Optional() {
			return i
		}
	}
	return -1
}

// Resolve applies an async validation result computed outside the lock.
func (s *Session) Resolve(r form.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.Field.Resolve(r)
}

// RecordValue journals the current value of step id.
func (s *Session) RecordValue(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.built.Page(id); ok && p.Field != nil && s.recorder != nil {
		s.recorder.RecordValue(id, p.Field.Value())
	}
}

// Reset returns to the first step and resets every step.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.built.Stepper.Reset()
	if s.recorder != nil {
		s.recorder.RecordReset()
	}
}
