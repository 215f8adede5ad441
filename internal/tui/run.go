package tui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/stepr/internal/session"
	"github.com/mark3labs/stepr/internal/stepper"
)

// Result is the outcome of a wizard run.
type Result struct {
	// Finished is true when the user completed the last step, false when
	// they quit early.
	Finished bool
	Status   session.Status
}

// Run starts the wizard UI and blocks until the user finishes or quits.
// Changes made to the session from other goroutines are picked up live.
func Run(ctx context.Context, sess *session.Session, opts Options, progOpts ...tea.ProgramOption) (*Result, error) {
	app := NewApp(ctx, sess, opts)
	p := tea.NewProgram(app, append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)...)

	var unsubscribe func()
	sess.Do(func(s *stepper.Stepper) {
		unsubscribe = s.OnStateChange(func() {
			// Notifications fire under the session lock, possibly from
			// inside Update; Send must not block on the event loop here.
			go p.Send(stateChangedMsg{})
		})
	})
	defer sess.Do(func(*stepper.Stepper) { unsubscribe() })

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard UI failed: %w", err)
	}

	final, ok := finalModel.(*App)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	return &Result{Finished: final.Finished(), Status: sess.Status()}, nil
}
