package stepper

import (
	"testing"

	"github.com/mark3labs/stepr/internal/focus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeControl struct {
	valid   bool
	pending bool
	resets  int
}

func (c *fakeControl) Valid() bool   { return c.valid && !c.pending }
func (c *fakeControl) Invalid() bool { return !c.valid && !c.pending }
func (c *fakeControl) Pending() bool { return c.pending }
func (c *fakeControl) Reset()        { c.resets++; c.valid = false }

type fakeForm struct{ resets int }

func (f *fakeForm) ResetForm() { f.resets++ }

// newStepper builds an initialized stepper with n plain steps.
func newStepper(t *testing.T, n int, opts ...Option) (*Stepper, []*Step) {
	t.Helper()
	s := New(opts...)
	steps := make([]*Step, n)
	for i := range steps {
		steps[i] = NewStep(s, WithLabel(string(rune('A'+i))))
	}
	s.SetSteps(steps...)
	s.Init()
	return s, steps
}

func keydown(t *testing.T, s *Stepper, keystroke string) *focus.KeyEvent {
	t.Helper()
	ev := focus.ParseKeyEvent(keystroke)
	require.NoError(t, s.OnKeydown(ev))
	return ev
}

func requireIndexConsistency(t *testing.T, s *Stepper) {
	t.Helper()
	for i, st := range s.Steps() {
		require.Equal(t, i, st.Index())
	}
	require.GreaterOrEqual(t, s.SelectedIndex(), -1)
	require.Less(t, s.SelectedIndex(), max(s.Len(), 1))
}

func TestStepper_OutOfBoundsIsError(t *testing.T) {
	t.Parallel()

	s, _ := newStepper(t, 3)

	for _, idx := range []int{-1, 3, 10} {
		err := s.SetSelectedIndex(idx)
		require.ErrorIs(t, err, ErrIndexOutOfBounds)
	}
	require.Equal(t, 0, s.SelectedIndex())
}

func TestStepper_ReselectIsNoop(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3)
	var events int
	s.OnSelectionChange(func(SelectionEvent) { events++ })

	require.NoError(t, s.SetSelectedIndex(0))
	require.Zero(t, events)
	require.False(t, steps[0].Interacted())
}

func TestStepper_SelectionEvent(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3)

	var got []SelectionEvent
	var indexes []int
	s.OnSelectionChange(func(ev SelectionEvent) {
		// The event fires before the commit.
		assert.Equal(t, 0, s.SelectedIndex())
		got = append(got, ev)
	})
	s.OnSelectedIndexChange(func(i int) {
		assert.Equal(t, i, s.SelectedIndex())
		indexes = append(indexes, i)
	})

	require.NoError(t, s.SetSelectedIndex(2))

	require.Equal(t, []SelectionEvent{{
		SelectedIndex:           2,
		PreviouslySelectedIndex: 0,
		SelectedStep:            steps[2],
		PreviouslySelectedStep:  steps[0],
	}}, got)
	require.Equal(t, []int{2}, indexes)
	require.True(t, steps[0].Interacted())
	require.True(t, steps[2].IsSelected())
}

func TestStepper_LinearGate(t *testing.T) {
	t.Parallel()

	// Every step before the target is gated. B is complete unless a case
	// sets it up itself, so A's state alone decides the outcome.
	tests := []struct {
		name     string
		setup    func(a *Step)
		middle   func(b *Step)
		expected int
	}{
		{name: "incomplete blocks", setup: func(a *Step) {}, expected: 0},
		{name: "optional bypasses", setup: func(a *Step) { a.SetOptional(true) }, expected: 2},
		{name: "completed override bypasses", setup: func(a *Step) { a.SetCompleted(true) }, expected: 2},
		{name: "false override blocks", setup: func(a *Step) { a.SetCompleted(false) }, expected: 0},
		{name: "valid control passes", setup: func(a *Step) { a.SetControl(&fakeControl{valid: true}) }, expected: 2},
		{name: "pending control blocks", setup: func(a *Step) { a.SetControl(&fakeControl{valid: true, pending: true}) }, expected: 0},
		{
			name:     "incomplete middle step blocks",
			setup:    func(a *Step) { a.SetOptional(true) },
			middle:   func(b *Step) {},
			expected: 0,
		},
		{
			name:     "optional middle step bypasses",
			setup:    func(a *Step) { a.SetOptional(true) },
			middle:   func(b *Step) { b.SetOptional(true) },
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, steps := newStepper(t, 3, WithLinear(true))
			steps[0].SetControl(&fakeControl{})
			tt.setup(steps[0])
			if tt.middle != nil {
				tt.middle(steps[1])
			} else {
				steps[1].SetCompleted(true)
			}

			var events int
			s.OnSelectionChange(func(SelectionEvent) { events++ })

			require.NoError(t, s.SetSelectedIndex(2))
			require.Equal(t, tt.expected, s.SelectedIndex())
			require.Equal(t, tt.expected != 0, events == 1)
			// Leaving was attempted either way.
			require.True(t, steps[0].Interacted())
		})
	}
}

func TestStepper_LinearGateWithoutControl(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3, WithLinear(true))

	// A step without a control completes once interacted, which the
	// attempt to leave it does.
	require.NoError(t, s.Next())
	require.Equal(t, 1, s.SelectedIndex())
	require.True(t, steps[0].Completed())
}

func TestStepper_EditableLaw(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3, WithSelectedIndex(1))
	steps[0].SetEditable(false)

	require.NoError(t, s.SetSelectedIndex(0))
	require.Equal(t, 1, s.SelectedIndex())

	steps[0].SetEditable(true)
	require.NoError(t, s.SetSelectedIndex(0))
	require.Equal(t, 0, s.SelectedIndex())
}

func TestStepper_NonEditableForwardAllowed(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3)
	steps[2].SetEditable(false)

	require.NoError(t, s.SetSelectedIndex(2))
	require.Equal(t, 2, s.SelectedIndex())
}

func TestStepper_ResetLaw(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3)
	ctrl := &fakeControl{valid: true}
	form := &fakeForm{}
	steps[1].SetControl(ctrl)
	steps[1].AddChildForm(form)
	steps[2].SetCompleted(true)

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.Equal(t, 2, s.SelectedIndex())

	var events []SelectionEvent
	s.OnSelectionChange(func(ev SelectionEvent) { events = append(events, ev) })

	s.Reset()

	require.Equal(t, 0, s.SelectedIndex())
	require.Len(t, events, 1)
	for _, st := range steps {
		require.False(t, st.Interacted())
		require.False(t, st.Completed())
	}
	completed, ok := steps[2].CompletedOverride()
	require.True(t, ok)
	require.False(t, completed)
	require.Equal(t, 1, ctrl.resets)
	require.Equal(t, 1, form.resets)
}

func TestStepper_ResetBypassesGate(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3, WithLinear(true), WithSelectedIndex(2))
	steps[1].SetEditable(false)

	s.Reset()
	require.Equal(t, 0, s.SelectedIndex())
}

func TestStepper_ResetAlwaysEmits(t *testing.T) {
	t.Parallel()

	s, _ := newStepper(t, 2)
	var events int
	s.OnSelectionChange(func(SelectionEvent) { events++ })

	s.Reset()
	require.Equal(t, 1, events)
}

func TestStepper_EndToEnd(t *testing.T) {
	t.Parallel()

	s := New(WithLinear(true))
	controls := make([]*fakeControl, 4)
	steps := make([]*Step, 4)
	for i := range steps {
		controls[i] = &fakeControl{}
		steps[i] = NewStep(s, WithControl(controls[i]))
	}
	s.SetSteps(steps...)
	s.Init()
	require.Equal(t, 0, s.SelectedIndex())

	controls[0].valid = true
	require.NoError(t, s.Next())
	require.Equal(t, 1, s.SelectedIndex())

	require.NoError(t, s.Next())
	require.Equal(t, 1, s.SelectedIndex())

	steps[1].SetOptional(true)
	require.NoError(t, s.Next())
	require.Equal(t, 2, s.SelectedIndex())
}

func TestStepper_NextPreviousClamp(t *testing.T) {
	t.Parallel()

	s, _ := newStepper(t, 2)

	require.NoError(t, s.Previous())
	require.Equal(t, 0, s.SelectedIndex())

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.Equal(t, 1, s.SelectedIndex())
}

func TestStepper_InitClampsInitialIndex(t *testing.T) {
	t.Parallel()

	for _, idx := range []int{-3, 3, 99} {
		s, _ := newStepper(t, 3, WithSelectedIndex(idx))
		require.Equal(t, 0, s.SelectedIndex())
		require.Equal(t, 0, s.FocusIndex())
	}

	empty, _ := newStepper(t, 0, WithSelectedIndex(2))
	require.Equal(t, -1, empty.SelectedIndex())
	require.Equal(t, -1, empty.FocusIndex())
}

func TestStepper_InitLinearMarksEarlierSteps(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 4, WithLinear(true), WithSelectedIndex(2))
	require.Equal(t, 2, s.SelectedIndex())
	require.True(t, steps[0].Interacted())
	require.True(t, steps[1].Interacted())
	require.False(t, steps[2].Interacted())
	require.False(t, steps[3].Interacted())

	plain, plainSteps := newStepper(t, 3, WithSelectedIndex(2))
	require.Equal(t, 2, plain.SelectedIndex())
	require.False(t, plainSteps[0].Interacted())
}

func TestStepper_BeforeInitStoresIndex(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.SetSelectedIndex(5))
	require.Equal(t, 5, s.SelectedIndex())
	require.Equal(t, 5, s.FocusIndex())

	s.SetSteps(NewStep(s), NewStep(s))
	s.Init()
	require.Equal(t, 0, s.SelectedIndex())
}

func TestStepper_RemovalFallsBack(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 4, WithSelectedIndex(2))
	var indexes []int
	s.OnSelectedIndexChange(func(i int) { indexes = append(indexes, i) })

	require.NoError(t, s.RemoveStep(steps[2]))
	requireIndexConsistency(t, s)
	require.Equal(t, 1, s.SelectedIndex())
	require.Equal(t, -1, steps[2].Index())
	require.Equal(t, []int{1}, indexes)

	require.NoError(t, s.RemoveStep(steps[0]))
	requireIndexConsistency(t, s)
	// The selected step survived; selection follows it.
	require.Same(t, steps[1], s.Selected())
	require.Equal(t, 0, s.SelectedIndex())

	s.SetSteps()
	require.Equal(t, -1, s.SelectedIndex())
	require.Equal(t, -1, steps[1].Index())

	require.NoError(t, s.AppendStep(steps[3]))
	require.Equal(t, 0, s.SelectedIndex())
}

func TestStepper_RemoveFirstSelected(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3)
	require.NoError(t, s.RemoveStep(steps[0]))
	require.Equal(t, 0, s.SelectedIndex())
	require.Same(t, steps[1], s.Selected())
}

func TestStepper_InsertAndMoveKeepIndices(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3, WithSelectedIndex(1))

	extra := NewStep(s, WithLabel("X"))
	require.NoError(t, s.InsertStep(0, extra))
	requireIndexConsistency(t, s)
	require.Same(t, steps[1], s.Selected())
	require.Equal(t, 2, s.SelectedIndex())

	require.NoError(t, s.MoveStep(extra, 3))
	requireIndexConsistency(t, s)
	require.Equal(t, []*Step{steps[0], steps[1], steps[2], extra}, s.Steps())
	require.Same(t, steps[1], s.Selected())

	require.ErrorIs(t, s.InsertStep(0, extra), ErrDuplicateStep)
	require.ErrorIs(t, s.InsertStep(9, NewStep(s)), ErrIndexOutOfBounds)
	require.ErrorIs(t, s.MoveStep(NewStep(s), 0), ErrUnknownStep)
	require.ErrorIs(t, s.RemoveStep(NewStep(s)), ErrUnknownStep)
}

func TestStepper_ForeignStepsFiltered(t *testing.T) {
	t.Parallel()

	outer := New()
	inner := New()
	a := NewStep(outer)
	nested := NewStep(inner)
	b := NewStep(outer)

	outer.SetSteps(a, nested, b, a, nil)
	outer.Init()

	require.Equal(t, []*Step{a, b}, outer.Steps())
	require.Equal(t, -1, nested.Index())
	require.ErrorIs(t, outer.AppendStep(nested), ErrForeignStep)
}

func TestStepper_SelectStep(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3)

	require.NoError(t, steps[2].Select())
	require.Same(t, steps[2], s.Selected())

	require.ErrorIs(t, NewStep(s).Select(), ErrUnknownStep)
	require.ErrorIs(t, NewStep(nil).Select(), ErrUnknownStep)
}

func TestStepper_KeyboardWrap(t *testing.T) {
	t.Parallel()

	s, _ := newStepper(t, 3)
	s.FocusHeader(2)

	ev := keydown(t, s, "right")
	require.True(t, ev.DefaultPrevented())
	require.Equal(t, 0, s.FocusIndex())
	require.Equal(t, 0, s.SelectedIndex())

	keydown(t, s, "left")
	require.Equal(t, 2, s.FocusIndex())

	keydown(t, s, "home")
	require.Equal(t, 0, s.FocusIndex())
	keydown(t, s, "end")
	require.Equal(t, 2, s.FocusIndex())
}

func TestStepper_RTLInversion(t *testing.T) {
	t.Parallel()

	dir := NewBidi(RTL)
	s, _ := newStepper(t, 3, WithDirectionality(dir))

	keydown(t, s, "left")
	require.Equal(t, 1, s.FocusIndex())

	dir.Set(LTR)
	keydown(t, s, "left")
	require.Equal(t, 0, s.FocusIndex())
}

func TestStepper_VerticalOrientation(t *testing.T) {
	t.Parallel()

	s, _ := newStepper(t, 3)

	keydown(t, s, "down")
	require.Equal(t, 0, s.FocusIndex())

	s.SetOrientation(Vertical)
	keydown(t, s, "down")
	require.Equal(t, 1, s.FocusIndex())
	keydown(t, s, "up")
	require.Equal(t, 0, s.FocusIndex())
	// Left/Right keep working in vertical mode.
	keydown(t, s, "right")
	require.Equal(t, 1, s.FocusIndex())
}

func TestStepper_EnterAndSpaceSelect(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"enter", " ", "space"} {
		s, _ := newStepper(t, 3)
		s.FocusHeader(2)

		ev := keydown(t, s, k)
		require.True(t, ev.DefaultPrevented(), k)
		require.Equal(t, 2, s.SelectedIndex(), k)
	}
}

func TestStepper_ModifiedEnterIgnored(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"ctrl+enter", "alt+enter", "shift+space", "meta+enter"} {
		s, _ := newStepper(t, 3)
		s.FocusHeader(2)

		ev := keydown(t, s, k)
		require.False(t, ev.DefaultPrevented(), k)
		require.Equal(t, 0, s.SelectedIndex(), k)
		require.Equal(t, 2, s.FocusIndex(), k)
	}
}

func TestStepper_RejectedKeySelectionResyncsCursor(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 3, WithLinear(true))
	steps[0].SetControl(&fakeControl{})
	s.FocusHeader(2)

	keydown(t, s, "enter")
	require.Equal(t, 0, s.SelectedIndex())
	require.Equal(t, 0, s.FocusIndex())
}

func TestStepper_FocusSync(t *testing.T) {
	t.Parallel()

	inside := false
	s, _ := newStepper(t, 3, WithFocusProbe(FocusProbeFunc(func() bool { return inside })))

	var focused []*Step
	s.OnHeaderFocus(func(st *Step) { focused = append(focused, st) })

	require.NoError(t, s.SetSelectedIndex(1))
	require.Empty(t, focused)
	require.Equal(t, 1, s.FocusIndex())

	inside = true
	require.NoError(t, s.SetSelectedIndex(2))
	require.Equal(t, []*Step{s.Step(2)}, focused)
	require.Equal(t, 2, s.FocusIndex())
}

type fakeHeader struct{ focused int }

func (h *fakeHeader) Focus() { h.focused++ }

func TestStepper_HeaderSource(t *testing.T) {
	t.Parallel()

	ha, hb := &fakeHeader{}, &fakeHeader{}
	s := New(
		WithHeaderSource(func() []focus.Item { return []focus.Item{ha, hb} }),
		WithFocusProbe(FocusProbeFunc(func() bool { return true })),
	)
	s.SetSteps(NewStep(s), NewStep(s))
	s.Init()

	require.NoError(t, s.SetSelectedIndex(1))
	require.Equal(t, 1, hb.focused)
	require.Zero(t, ha.focused)
}

func TestStepper_AnimationDirection(t *testing.T) {
	t.Parallel()

	dir := NewBidi(LTR)
	s, _ := newStepper(t, 3, WithSelectedIndex(1), WithDirectionality(dir))

	require.Equal(t, PositionPrevious, s.AnimationDirection(0))
	require.Equal(t, PositionCurrent, s.AnimationDirection(1))
	require.Equal(t, PositionNext, s.AnimationDirection(2))

	dir.Toggle()
	require.Equal(t, PositionNext, s.AnimationDirection(0))
	require.Equal(t, PositionCurrent, s.AnimationDirection(1))
	require.Equal(t, PositionPrevious, s.AnimationDirection(2))
}

func TestStepper_DestroyTwice(t *testing.T) {
	t.Parallel()

	dir := NewBidi(LTR)
	s, steps := newStepper(t, 3, WithDirectionality(dir))

	require.NotPanics(t, func() {
		s.Destroy()
		s.Destroy()
	})
	require.Empty(t, s.Steps())
	require.Equal(t, -1, steps[0].Index())

	require.NotPanics(t, func() {
		dir.Toggle()
		require.NoError(t, s.Next())
		require.NoError(t, s.OnKeydown(focus.ParseKeyEvent("right")))
		s.Reset()
		s.SetSteps(steps...)
	})
	require.Empty(t, s.Steps())
}

func TestStepper_StateChangeNotifications(t *testing.T) {
	t.Parallel()

	s, steps := newStepper(t, 2)
	var changes int
	unsub := s.OnStateChange(func() { changes++ })

	steps[0].SetLabel("renamed")
	steps[1].SetHasError(true)
	s.SetLinear(true)
	require.Equal(t, 3, changes)

	unsub()
	s.SetLinear(false)
	require.Equal(t, 3, changes)
}
