package stepper

import "github.com/mark3labs/stepr/internal/focus"

// Orientation controls which arrow keys move between step headers.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// ParseOrientation maps "vertical" to Vertical and everything else to
// Horizontal.
func ParseOrientation(s string) Orientation {
	if Orientation(s) == Vertical {
		return Vertical
	}
	return Horizontal
}

// GlobalOptions are the display policies shared by every step of a stepper.
type GlobalOptions struct {
	// ShowError forces the error indicator policy on or off for all steps.
	// When nil, a step shows errors only if it carries an explicit error
	// override.
	ShowError *bool

	// DisplayDefaultIndicatorType selects the default indicator mode (true,
	// the default when nil) or the material-guideline mode (false).
	DisplayDefaultIndicatorType *bool
}

func (o GlobalOptions) displayDefaultIndicatorType() bool {
	return o.DisplayDefaultIndicatorType == nil || *o.DisplayDefaultIndicatorType
}

// FocusProbe reports whether input focus currently rests inside the
// stepper's region of the UI.
type FocusProbe interface {
	ContainsFocus() bool
}

// FocusProbeFunc adapts a function to FocusProbe.
type FocusProbeFunc func() bool

// ContainsFocus calls f.
func (f FocusProbeFunc) ContainsFocus() bool { return f() }

// HeaderSource returns the step headers in visual order.
type HeaderSource func() []focus.Item

// Option configures a Stepper.
type Option func(*Stepper)

// WithLinear enables validity gating.
func WithLinear(linear bool) Option {
	return func(s *Stepper) { s.linear = linear }
}

// WithOrientation sets the header orientation.
func WithOrientation(o Orientation) Option {
	return func(s *Stepper) { s.orientation = o }
}

// WithSelectedIndex sets the initial selection. Out-of-range values are
// clamped to 0 by Init.
func WithSelectedIndex(index int) Option {
	return func(s *Stepper) { s.selectedIndex = index }
}

// WithDirectionality sets the text direction provider.
func WithDirectionality(dir Directionality) Option {
	return func(s *Stepper) { s.dir = dir }
}

// WithFocusProbe sets the probe used to decide whether a selection change
// should move real focus to the new header.
func WithFocusProbe(p FocusProbe) Option {
	return func(s *Stepper) { s.probe = p }
}

// WithHeaderSource replaces the default header list (the steps themselves)
// with headers supplied by the caller, already in visual order.
func WithHeaderSource(src HeaderSource) Option {
	return func(s *Stepper) { s.headers = src }
}

// WithGlobalOptions sets the indicator display policies.
func WithGlobalOptions(o GlobalOptions) Option {
	return func(s *Stepper) { s.options = o }
}

// WithKeyMap replaces the header navigation bindings.
func WithKeyMap(km KeyMap) Option {
	return func(s *Stepper) { s.keys = km }
}
