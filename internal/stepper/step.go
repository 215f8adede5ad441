package stepper

import "github.com/mark3labs/stepr/internal/event"

// StepState is the symbolic display state of a step's indicator. Custom
// values are allowed as a step's configured default state.
type StepState string

const (
	StateNumber StepState = "number"
	StateEdit   StepState = "edit"
	StateDone   StepState = "done"
	StateError  StepState = "error"
)

// Control is the externally owned validity object attached to a step.
type Control interface {
	Valid() bool
	Invalid() bool
	Pending() bool
	Reset()
}

// FormResetter is implemented by child forms that can clear their own
// state. Child forms not implementing it are skipped on reset.
type FormResetter interface {
	ResetForm()
}

// Step is one page of the wizard. A step is bound to the stepper given at
// construction and reads its selection and linear mode; it never owns it.
type Step struct {
	stepper *Stepper

	id           string
	label        string
	errorMessage string
	state        StepState

	optional   bool
	editable   bool
	interacted bool

	completedOverride *bool
	errorOverride     *bool

	control    Control
	childForms []any

	index        int
	interactions event.Emitter[*Step]
}

// StepOption configures a Step.
type StepOption func(*Step)

// WithID sets a stable identifier for the step.
func WithID(id string) StepOption {
	return func(st *Step) { st.id = id }
}

// WithLabel sets the display label.
func WithLabel(label string) StepOption {
	return func(st *Step) { st.label = label }
}

// WithErrorMessage sets the message shown while the step has an error.
func WithErrorMessage(msg string) StepOption {
	return func(st *Step) { st.errorMessage = msg }
}

// WithOptional marks the step as skippable in linear mode.
func WithOptional(optional bool) StepOption {
	return func(st *Step) { st.optional = optional }
}

// WithEditable controls whether the step can be returned to.
func WithEditable(editable bool) StepOption {
	return func(st *Step) { st.editable = editable }
}

// WithCompleted sets an explicit completion override.
func WithCompleted(completed bool) StepOption {
	return func(st *Step) { st.completedOverride = &completed }
}

// WithHasError sets an explicit error override.
func WithHasError(hasError bool) StepOption {
	return func(st *Step) { st.errorOverride = &hasError }
}

// WithControl attaches the validity object.
func WithControl(c Control) StepOption {
	return func(st *Step) { st.control = c }
}

// WithChildForms attaches forms reset before the control on Reset.
func WithChildForms(forms ...any) StepOption {
	return func(st *Step) { st.childForms = append(st.childForms, forms...) }
}

// WithState sets the configured default indicator state.
func WithState(state StepState) StepOption {
	return func(st *Step) { st.state = state }
}

// NewStep creates a step owned by s. The step is not part of the collection
// until it is passed to SetSteps, InsertStep or AppendStep.
func NewStep(s *Stepper, opts ...StepOption) *Step {
	st := &Step{
		stepper:  s,
		editable: true,
		index:    -1,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Stepper returns the owning stepper.
func (st *Step) Stepper() *Stepper { return st.stepper }

// ID returns the step identifier.
func (st *Step) ID() string { return st.id }

// Label returns the display label.
func (st *Step) Label() string { return st.label }

// ErrorMessage returns the configured error message.
func (st *Step) ErrorMessage() string { return st.errorMessage }

// Index returns the position in the owning collection, or -1 when the step
// is not part of it.
func (st *Step) Index() int { return st.index }

// Optional reports whether linear mode may skip this step.
func (st *Step) Optional() bool { return st.optional }

// Editable reports whether the step may be returned to.
func (st *Step) Editable() bool { return st.editable }

// Interacted reports whether the user has tried to leave the step.
func (st *Step) Interacted() bool { return st.interacted }

// Control returns the attached validity object, or nil.
func (st *Step) Control() Control { return st.control }

// State returns the configured default indicator state.
func (st *Step) State() StepState {
	if st.state == "" {
		return StateNumber
	}
	return st.state
}

// CompletedOverride returns the explicit completion override, if set.
func (st *Step) CompletedOverride() (completed, ok bool) {
	if st.completedOverride == nil {
		return false, false
	}
	return *st.completedOverride, true
}

// Completed is the override when set, otherwise interacted and either no
// control or a valid one.
func (st *Step) Completed() bool {
	if st.completedOverride != nil {
		return *st.completedOverride
	}
	return st.interacted && (st.control == nil || st.control.Valid())
}

// HasError is the override when set, otherwise interacted with an invalid
// control.
func (st *Step) HasError() bool {
	if st.errorOverride != nil {
		return *st.errorOverride
	}
	return st.interacted && st.control != nil && st.control.Invalid()
}

// IsSelected reports whether this step is the owning stepper's selection.
func (st *Step) IsSelected() bool {
	return st.index >= 0 && st.stepper != nil && st.index == st.stepper.SelectedIndex()
}

// IsNavigable reports whether the header may be activated.
func (st *Step) IsNavigable() bool {
	return st.Completed() || st.IsSelected() || st.stepper == nil || !st.stepper.Linear()
}

// ShowError resolves the error display policy for this step.
func (st *Step) ShowError() bool {
	if st.stepper != nil && st.stepper.options.ShowError != nil {
		return *st.stepper.options.ShowError
	}
	return st.errorOverride != nil
}

// IndicatorType derives the indicator shown on the step's header.
func (st *Step) IndicatorType() StepState {
	selected := st.IsSelected()
	completed := st.Completed()
	defaultState := st.State()

	if st.ShowError() && st.HasError() && !selected {
		return StateError
	}

	if st.stepper == nil || st.stepper.options.displayDefaultIndicatorType() {
		if !completed || selected {
			return StateNumber
		}
		if st.editable {
			return StateEdit
		}
		return StateDone
	}

	switch {
	case completed && !selected:
		return StateDone
	case completed && selected:
		return defaultState
	case st.editable && selected:
		return StateEdit
	}
	return defaultState
}

// Select asks the owning stepper to select this step.
func (st *Step) Select() error {
	if st.stepper == nil {
		return ErrUnknownStep
	}
	return st.stepper.SetSelected(st)
}

// Focus asks the UI to move focus to this step's header. It is what the key
// manager calls when the step serves as its own header.
func (st *Step) Focus() {
	if st.stepper != nil {
		st.stepper.headerFocus.Emit(st)
	}
}

// Reset clears interaction, turns set overrides into an explicit false and
// resets child forms and the control.
func (st *Step) Reset() {
	st.interacted = false

	if st.completedOverride != nil {
		f := false
		st.completedOverride = &f
	}
	if st.errorOverride != nil {
		f := false
		st.errorOverride = &f
	}

	if st.control != nil {
		for _, form := range st.childForms {
			if r, ok := form.(FormResetter); ok {
				r.ResetForm()
			}
		}
		st.control.Reset()
	}
}

// MarkAsInteracted records that the user tried to leave the step. Only the
// first call notifies.
func (st *Step) MarkAsInteracted() {
	if st.interacted {
		return
	}
	st.interacted = true
	st.interactions.Emit(st)
}

// OnInteracted subscribes to the step's first interaction after creation or
// reset.
func (st *Step) OnInteracted(fn func(*Step)) func() {
	return st.interactions.Subscribe(fn)
}

// SetLabel changes the display label.
func (st *Step) SetLabel(label string) {
	st.label = label
	st.changed()
}

// SetOptional changes optionality.
func (st *Step) SetOptional(optional bool) {
	st.optional = optional
	st.changed()
}

// SetEditable changes editability.
func (st *Step) SetEditable(editable bool) {
	st.editable = editable
	st.changed()
}

// SetCompleted sets the completion override.
func (st *Step) SetCompleted(completed bool) {
	st.completedOverride = &completed
	st.changed()
}

// ClearCompleted removes the completion override.
func (st *Step) ClearCompleted() {
	st.completedOverride = nil
	st.changed()
}

// SetHasError sets the error override.
func (st *Step) SetHasError(hasError bool) {
	st.errorOverride = &hasError
	st.changed()
}

// ClearHasError removes the error override.
func (st *Step) ClearHasError() {
	st.errorOverride = nil
	st.changed()
}

// SetControl attaches or replaces the validity object.
func (st *Step) SetControl(c Control) {
	st.control = c
	st.changed()
}

// AddChildForm attaches a form reset before the control on Reset.
func (st *Step) AddChildForm(form any) {
	st.childForms = append(st.childForms, form)
}

// SetState changes the configured default indicator state.
func (st *Step) SetState(state StepState) {
	st.state = state
	st.changed()
}

// SetErrorMessage changes the error message.
func (st *Step) SetErrorMessage(msg string) {
	st.errorMessage = msg
	st.changed()
}

func (st *Step) changed() {
	if st.stepper != nil {
		st.stepper.stateChanged()
	}
}
