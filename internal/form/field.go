// Package form provides single-value input fields with synchronous and
// asynchronous validation. A Field is the validity object a wizard step
// gates on.
package form

import (
	"context"
	"strings"
)

// Field holds one text value and its validation state.
type Field struct {
	name       string
	initial    string
	value      string
	validators []Validator
	async      AsyncCheck

	err        error
	pending    bool
	generation uint64
}

// Option configures a Field.
type Option func(*Field)

// WithInitial sets the value the field starts with and returns to on Reset.
func WithInitial(value string) Option {
	return func(f *Field) { f.initial = value }
}

// WithValidators appends synchronous validators, run in order.
func WithValidators(v ...Validator) Option {
	return func(f *Field) { f.validators = append(f.validators, v...) }
}

// WithAsync sets a slow check run after the synchronous validators pass.
func WithAsync(check AsyncCheck) Option {
	return func(f *Field) { f.async = check }
}

// New creates a field. The initial value is validated synchronously; the
// async check first runs on SetValue.
func New(name string, opts ...Option) *Field {
	f := &Field{name: name}
	for _, opt := range opts {
		opt(f)
	}
	f.value = f.initial
	f.err = f.validate(f.value)
	return f
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Value returns the current value.
func (f *Field) Value() string { return f.value }

// Err returns the current validation error, or nil.
func (f *Field) Err() error { return f.err }

// Valid reports whether the value passed every check.
func (f *Field) Valid() bool { return !f.pending && f.err == nil }

// Invalid reports whether a check failed.
func (f *Field) Invalid() bool { return !f.pending && f.err != nil }

// Pending reports whether an async check is outstanding.
func (f *Field) Pending() bool { return f.pending }

// Check is an outstanding async validation for one value.
type Check struct {
	field      *Field
	generation uint64
	value      string
	fn         AsyncCheck
}

// Result is the outcome of a Check, to be passed to Field.Resolve.
type Result struct {
	Field      *Field
	Err        error
	generation uint64
}

// Run executes the check. It is safe to call from any goroutine; it does
// not touch the field.
func (c *Check) Run(ctx context.Context) Result {
	return Result{Field: c.field, Err: c.fn(ctx, c.value), generation: c.generation}
}

// SetValue stores value (trimmed) and runs the synchronous validators. When
// they pass and an async check is configured the field turns pending and the
// returned Check must be run and resolved; otherwise SetValue returns nil.
func (f *Field) SetValue(value string) *Check {
	f.generation++
	f.value = strings.TrimSpace(value)
	f.err = f.validate(f.value)
	f.pending = false

	if f.err != nil || f.async == nil {
		return nil
	}
	f.pending = true
	return &Check{field: f, generation: f.generation, value: f.value, fn: f.async}
}

// Resolve applies an async result. Results for a value that has since
// changed are dropped and Resolve returns false.
func (f *Field) Resolve(r Result) bool {
	if r.Field != f || r.generation != f.generation || !f.pending {
		return false
	}
	f.pending = false
	f.err = r.Err
	return true
}

// Reset restores the initial value and drops any outstanding check.
func (f *Field) Reset() {
	f.generation++
	f.value = f.initial
	f.pending = false
	f.err = f.validate(f.value)
}

func (f *Field) validate(value string) error {
	for _, v := range f.validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}
