// Package stepper implements the behavioral core of a multi-step wizard:
// step selection, linear-mode gating, per-step completion and error state,
// keyboard navigation over step headers and the derived indicator of every
// step.
//
// The core is single-threaded. Every operation runs synchronously on the
// caller's goroutine and notifies subscribers before returning; callers that
// share a Stepper between goroutines must serialize access themselves.
//
// Typical use:
//
//	s := stepper.New(stepper.WithLinear(true))
//	a := stepper.NewStep(s, stepper.WithLabel("Name"), stepper.WithControl(field))
//	b := stepper.NewStep(s, stepper.WithLabel("Confirm"))
//	s.SetSteps(a, b)
//	s.Init()
//
//	s.OnSelectionChange(func(ev stepper.SelectionEvent) { ... })
//	_ = s.Next()
package stepper
