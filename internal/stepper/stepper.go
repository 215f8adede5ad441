package stepper

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	"github.com/mark3labs/stepr/internal/event"
	"github.com/mark3labs/stepr/internal/focus"
	"github.com/mark3labs/stepr/internal/logger"
)

// SelectionEvent describes a committed selection change.
type SelectionEvent struct {
	SelectedIndex           int
	PreviouslySelectedIndex int
	SelectedStep            *Step
	PreviouslySelectedStep  *Step
}

// StepContentPosition is where a step's content sits relative to the
// selected step, used to pick an animation.
type StepContentPosition string

const (
	PositionPrevious StepContentPosition = "previous"
	PositionCurrent  StepContentPosition = "current"
	PositionNext     StepContentPosition = "next"
)

// Stepper owns an ordered collection of steps and the selection state.
type Stepper struct {
	steps         []*Step
	selectedIndex int
	linear        bool
	orientation   Orientation
	options       GlobalOptions

	dir     Directionality
	probe   FocusProbe
	headers HeaderSource
	keys    KeyMap

	keyManager  *focus.KeyManager
	unsubDir    func()
	initialized bool
	destroyed   bool

	selectionChange event.Emitter[SelectionEvent]
	indexChange     event.Emitter[int]
	stateChange     event.Emitter[struct{}]
	headerFocus     event.Emitter[*Step]
}

// New creates an empty stepper. Steps are attached with SetSteps and
// friends; Init materializes the stepper once the initial steps are known.
func New(opts ...Option) *Stepper {
	s := &Stepper{
		orientation: Horizontal,
		keys:        DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init validates the initial selection against the known steps and creates
// the header key manager. An out-of-range initial index is clamped to 0. In
// linear mode every step before a non-zero initial index is marked
// interacted. Calling Init again is a no-op.
func (s *Stepper) Init() {
	if s.initialized || s.destroyed {
		return
	}
	s.initialized = true
	s.reindex()

	n := len(s.steps)
	switch {
	case n == 0:
		s.selectedIndex = -1
	case s.selectedIndex < 0 || s.selectedIndex >= n:
		logger.Debug("stepper: initial index %d out of range for %d steps, using 0", s.selectedIndex, n)
		s.selectedIndex = 0
	}

	if s.linear && s.selectedIndex > 0 {
		for _, st := range s.steps[:s.selectedIndex] {
			st.MarkAsInteracted()
		}
	}

	s.keyManager = focus.NewKeyManager(s.headerItems()).
		WithWrap().
		WithHomeAndEnd().
		WithVerticalOrientation(s.orientation == Vertical).
		WithHorizontalOrientation(s.Direction()).
		WithKeyMap(s.keys.Focus)
	s.keyManager.UpdateActiveItem(s.selectedIndex)

	if s.dir != nil {
		s.unsubDir = s.dir.Subscribe(func(d Direction) {
			if s.keyManager != nil {
				s.keyManager.WithHorizontalOrientation(d)
			}
			s.stateChanged()
		})
	}
}

// Initialized reports whether Init has run.
func (s *Stepper) Initialized() bool { return s.initialized }

// Destroy releases the key manager, the direction subscription, every
// listener and the step collection. Calling it again is a no-op.
func (s *Stepper) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	if s.keyManager != nil {
		s.keyManager.Destroy()
		s.keyManager = nil
	}
	if s.unsubDir != nil {
		s.unsubDir()
		s.unsubDir = nil
	}
	for _, st := range s.steps {
		st.index = -1
	}
	s.steps = nil
	s.selectedIndex = -1

	s.selectionChange.Clear()
	s.indexChange.Clear()
	s.stateChange.Clear()
	s.headerFocus.Clear()
}

// Steps returns the steps in navigation order. The slice is a copy.
func (s *Stepper) Steps() []*Step {
	return append([]*Step(nil), s.steps...)
}

// Len returns the number of steps.
func (s *Stepper) Len() int { return len(s.steps) }

// Step returns the step at i, or nil.
func (s *Stepper) Step(i int) *Step {
	if i < 0 || i >= len(s.steps) {
		return nil
	}
	return s.steps[i]
}

// SetSteps replaces the collection. Nil steps, duplicates and steps owned by
// another stepper are dropped.
func (s *Stepper) SetSteps(steps ...*Step) {
	if s.destroyed {
		return
	}
	prev := s.Selected()

	next := make([]*Step, 0, len(steps))
	seen := make(map[*Step]struct{}, len(steps))
	for _, st := range steps {
		if st == nil || st.stepper != s {
			continue
		}
		if _, dup := seen[st]; dup {
			continue
		}
		seen[st] = struct{}{}
		next = append(next, st)
	}

	for _, st := range s.steps {
		st.index = -1
	}
	s.steps = next
	s.stepsChanged(prev)
}

// InsertStep inserts st at position i.
func (s *Stepper) InsertStep(i int, st *Step) error {
	if s.destroyed {
		return nil
	}
	switch {
	case st == nil || st.stepper != s:
		return ErrForeignStep
	case s.indexOf(st) >= 0:
		return ErrDuplicateStep
	case i < 0 || i > len(s.steps):
		return fmt.Errorf("%w: %d", ErrIndexOutOfBounds, i)
	}

	prev := s.Selected()
	s.steps = append(s.steps, nil)
	copy(s.steps[i+1:], s.steps[i:])
	s.steps[i] = st
	s.stepsChanged(prev)
	return nil
}

// AppendStep adds st at the end of the collection.
func (s *Stepper) AppendStep(st *Step) error {
	return s.InsertStep(len(s.steps), st)
}

// RemoveStep detaches st from the collection.
func (s *Stepper) RemoveStep(st *Step) error {
	if s.destroyed {
		return nil
	}
	i := s.indexOf(st)
	if i < 0 {
		return ErrUnknownStep
	}

	prev := s.Selected()
	s.steps = append(s.steps[:i], s.steps[i+1:]...)
	st.index = -1
	s.stepsChanged(prev)
	return nil
}

// MoveStep moves st to position to.
func (s *Stepper) MoveStep(st *Step, to int) error {
	if s.destroyed {
		return nil
	}
	from := s.indexOf(st)
	if from < 0 {
		return ErrUnknownStep
	}
	if to < 0 || to >= len(s.steps) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfBounds, to)
	}
	if from == to {
		return nil
	}

	prev := s.Selected()
	s.steps = append(s.steps[:from], s.steps[from+1:]...)
	s.steps = append(s.steps, nil)
	copy(s.steps[to+1:], s.steps[to:])
	s.steps[to] = st
	s.stepsChanged(prev)
	return nil
}

// stepsChanged recomputes indices and, once initialized, repairs the
// selection: it follows prev when prev is still present and otherwise falls
// back to the step before the old position.
func (s *Stepper) stepsChanged(prev *Step) {
	s.reindex()
	if !s.initialized {
		return
	}

	if s.keyManager != nil {
		s.keyManager.SetItems(s.headerItems())
	}

	old := s.selectedIndex
	n := len(s.steps)
	switch {
	case prev != nil && prev.index >= 0:
		s.selectedIndex = prev.index
	case n == 0:
		s.selectedIndex = -1
	default:
		s.selectedIndex = min(max(old-1, 0), n-1)
	}

	if s.selectedIndex != old {
		logger.Debug("stepper: collection changed, selection %d -> %d", old, s.selectedIndex)
		if s.keyManager != nil && (prev == nil || prev.index < 0) {
			s.keyManager.UpdateActiveItem(s.selectedIndex)
		}
		s.indexChange.Emit(s.selectedIndex)
	}
	s.stateChanged()
}

func (s *Stepper) reindex() {
	for i, st := range s.steps {
		st.index = i
	}
}

func (s *Stepper) indexOf(st *Step) int {
	if st == nil {
		return -1
	}
	for i, x := range s.steps {
		if x == st {
			return i
		}
	}
	return -1
}

func (s *Stepper) headerItems() []focus.Item {
	if s.headers != nil {
		return s.headers()
	}
	items := make([]focus.Item, len(s.steps))
	for i, st := range s.steps {
		items[i] = st
	}
	return items
}

// SelectedIndex returns the selected position, or -1 when there are no
// steps.
func (s *Stepper) SelectedIndex() int { return s.selectedIndex }

// Selected returns the selected step, or nil.
func (s *Stepper) Selected() *Step {
	return s.Step(s.selectedIndex)
}

// SetSelectedIndex requests a selection change. An index outside the
// collection returns ErrIndexOutOfBounds. Moves blocked by linear mode or by
// a non-editable target are silently ignored and return nil. Before Init the
// index is only stored.
func (s *Stepper) SetSelectedIndex(index int) error {
	if s.destroyed {
		return nil
	}
	if !s.initialized {
		s.selectedIndex = index
		return nil
	}
	if len(s.steps) == 0 {
		return nil
	}
	if index < 0 || index >= len(s.steps) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfBounds, index)
	}
	if index == s.selectedIndex {
		return nil
	}

	if cur := s.Selected(); cur != nil {
		cur.MarkAsInteracted()
	}

	switch {
	case s.anyControlsInvalidOrPending(index):
		logger.Debug("stepper: move %d -> %d blocked by an incomplete step", s.selectedIndex, index)
	case index < s.selectedIndex && !s.steps[index].editable:
		logger.Debug("stepper: move %d -> %d blocked, step is not editable", s.selectedIndex, index)
	default:
		s.updateSelectedIndex(index)
		return nil
	}

	if s.keyManager != nil {
		s.keyManager.UpdateActiveItem(s.selectedIndex)
	}
	s.stateChanged()
	return nil
}

// SetSelected requests selection of st.
func (s *Stepper) SetSelected(st *Step) error {
	if s.destroyed {
		return nil
	}
	i := s.indexOf(st)
	if i < 0 {
		if st == nil {
			return ErrUnknownStep
		}
		return fmt.Errorf("%w: %q", ErrUnknownStep, st.label)
	}
	return s.SetSelectedIndex(i)
}

// Next requests the following step.
func (s *Stepper) Next() error {
	if len(s.steps) == 0 {
		return nil
	}
	return s.SetSelectedIndex(min(s.selectedIndex+1, len(s.steps)-1))
}

// Previous requests the preceding step.
func (s *Stepper) Previous() error {
	if len(s.steps) == 0 {
		return nil
	}
	return s.SetSelectedIndex(max(s.selectedIndex-1, 0))
}

// Reset selects the first step without gating and then resets every step
// in order.
func (s *Stepper) Reset() {
	if s.destroyed {
		return
	}
	if len(s.steps) > 0 {
		if s.initialized {
			s.updateSelectedIndex(0)
		} else {
			s.selectedIndex = 0
		}
	}
	for _, st := range s.steps {
		st.Reset()
	}
	s.stateChanged()
}

func (s *Stepper) updateSelectedIndex(index int) {
	ev := SelectionEvent{
		SelectedIndex:           index,
		PreviouslySelectedIndex: s.selectedIndex,
		SelectedStep:            s.Step(index),
		PreviouslySelectedStep:  s.Selected(),
	}
	s.selectionChange.Emit(ev)

	if s.keyManager != nil {
		if s.containsFocus() {
			s.keyManager.SetActiveItem(index)
		} else {
			s.keyManager.UpdateActiveItem(index)
		}
	}

	s.selectedIndex = index
	s.indexChange.Emit(index)
	s.stateChanged()
}

func (s *Stepper) anyControlsInvalidOrPending(index int) bool {
	if !s.linear || index < 0 {
		return false
	}
	for _, st := range s.steps[:min(index, len(s.steps))] {
		var incomplete bool
		if st.control != nil {
			incomplete = st.control.Invalid() || st.control.Pending() || !st.interacted
		} else {
			incomplete = !st.Completed()
		}
		override := st.completedOverride != nil && *st.completedOverride
		if incomplete && !st.optional && !override {
			return true
		}
	}
	return false
}

func (s *Stepper) containsFocus() bool {
	return s.probe != nil && s.probe.ContainsFocus()
}

// OnKeydown handles a key pressed while a step header has focus. Enter or
// Space without modifiers selects the focused step; anything else goes to
// the header key manager.
func (s *Stepper) OnKeydown(ev *focus.KeyEvent) error {
	if s.destroyed || ev == nil || s.keyManager == nil {
		return nil
	}

	active := s.keyManager.ActiveItemIndex()
	if active >= 0 && !ev.HasModifier() && key.Matches(ev, s.keys.Select) {
		ev.PreventDefault()
		return s.SetSelectedIndex(active)
	}

	s.keyManager.OnKeydown(ev)
	return nil
}

// FocusIndex returns the header cursor, falling back to the selection
// before Init.
func (s *Stepper) FocusIndex() int {
	if s.keyManager != nil {
		return s.keyManager.ActiveItemIndex()
	}
	return s.selectedIndex
}

// FocusHeader moves the header cursor to i and focuses that header.
func (s *Stepper) FocusHeader(i int) {
	if s.keyManager != nil {
		s.keyManager.SetActiveItem(i)
	}
}

// Linear reports whether validity gating is on.
func (s *Stepper) Linear() bool { return s.linear }

// SetLinear toggles validity gating.
func (s *Stepper) SetLinear(linear bool) {
	s.linear = linear
	s.stateChanged()
}

// Orientation returns the header orientation.
func (s *Stepper) Orientation() Orientation { return s.orientation }

// SetOrientation changes the header orientation; arrow key handling
// follows on the next key.
func (s *Stepper) SetOrientation(o Orientation) {
	s.orientation = o
	if s.keyManager != nil {
		s.keyManager.WithVerticalOrientation(o == Vertical)
	}
	s.stateChanged()
}

// Options returns the indicator display policies.
func (s *Stepper) Options() GlobalOptions { return s.options }

// SetGlobalOptions replaces the indicator display policies.
func (s *Stepper) SetGlobalOptions(o GlobalOptions) {
	s.options = o
	s.stateChanged()
}

// SetFocusProbe replaces the focus probe.
func (s *Stepper) SetFocusProbe(p FocusProbe) {
	s.probe = p
}

// Direction returns the current text direction.
func (s *Stepper) Direction() Direction {
	if s.dir == nil {
		return LTR
	}
	return s.dir.Value()
}

// AnimationDirection returns where step i sits relative to the selection.
func (s *Stepper) AnimationDirection(i int) StepContentPosition {
	delta := i - s.selectedIndex
	switch {
	case delta == 0:
		return PositionCurrent
	case (delta < 0) != (s.Direction() == RTL):
		return PositionPrevious
	}
	return PositionNext
}

// OnSelectionChange subscribes to committed selection changes.
func (s *Stepper) OnSelectionChange(fn func(SelectionEvent)) func() {
	return s.selectionChange.Subscribe(fn)
}

// OnSelectedIndexChange subscribes to the committed selected index.
func (s *Stepper) OnSelectedIndexChange(fn func(int)) func() {
	return s.indexChange.Subscribe(fn)
}

// OnStateChange subscribes to any change that may alter rendering.
func (s *Stepper) OnStateChange(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return s.stateChange.Subscribe(func(struct{}) { fn() })
}

// OnHeaderFocus subscribes to requests to move input focus to a step's
// header.
func (s *Stepper) OnHeaderFocus(fn func(*Step)) func() {
	return s.headerFocus.Subscribe(fn)
}

func (s *Stepper) stateChanged() {
	if s.destroyed {
		return
	}
	s.stateChange.Emit(struct{}{})
}
