package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/stepr/internal/definition"
	"github.com/mark3labs/stepr/internal/focus"
	"github.com/mark3labs/stepr/internal/form"
	"github.com/mark3labs/stepr/internal/logger"
	"github.com/mark3labs/stepr/internal/session"
	"github.com/mark3labs/stepr/internal/state"
	"github.com/mark3labs/stepr/internal/stepper"
	"github.com/mark3labs/stepr/internal/tui/theme"
)

const blockedNotice = "Complete the current step first"

// stateChangedMsg is sent when the stepper changes outside of Update, for
// example through the MCP server.
type stateChangedMsg struct{}

// checkDoneMsg carries the result of an async field check.
type checkDoneMsg struct {
	stepID string
	result form.Result
}

// Options configures the wizard UI.
type Options struct {
	// DataDir is where UI preferences persist. Empty disables persistence.
	DataDir string
	// Bidi is the direction source the stepper was built with. Nil disables
	// the direction toggle.
	Bidi *stepper.Bidi
}

// App is the main Bubbletea model for a running wizard.
type App struct {
	ctx     context.Context
	sess    *session.Session
	keys    keyMap
	help    help.Model
	body    viewport.Model
	inputs  map[string]*textinput.Model
	bidi    *stepper.Bidi
	dataDir string
	ui      *state.UIState

	headersFocused atomic.Bool

	width, height int
	current       string // ID of the step the content panel shows
	bodyKey       string // step ID and width the viewport content was rendered for
	notice        string
	finished      bool
	quitting      bool
}

// inputForm lets a step reset clear its text input.
type inputForm struct{ input *textinput.Model }

func (f inputForm) ResetForm() { f.input.Reset() }

// NewApp creates the wizard UI for sess and applies persisted preferences.
func NewApp(ctx context.Context, sess *session.Session, opts Options) *App {
	a := &App{
		ctx:     ctx,
		sess:    sess,
		keys:    defaultKeyMap(),
		help:    help.New(),
		body:    viewport.New(),
		inputs:  make(map[string]*textinput.Model),
		bidi:    opts.Bidi,
		dataDir: opts.DataDir,
		ui:      state.DefaultUIState(),
	}
	if a.dataDir != "" {
		a.ui = state.Load(a.dataDir)
	}
	a.help.ShowAll = a.ui.Help.Expanded

	sess.Do(func(s *stepper.Stepper) {
		if o := a.ui.Layout.Orientation; o != "" {
			s.SetOrientation(stepper.ParseOrientation(o))
		}
		if d := a.ui.Layout.Direction; d != "" && a.bidi != nil {
			a.bidi.Set(stepper.ParseDirection(d))
		}
		s.SetFocusProbe(stepper.FocusProbeFunc(a.headersFocused.Load))

		for _, p := range sess.Pages() {
			if p.Field == nil {
				continue
			}
			ti := textinput.New()
			ti.Prompt = "› "
			ti.Placeholder = p.Field.Name()
			ti.SetValue(p.Field.Value())
			a.inputs[p.Step.ID()] = &ti
			p.Step.AddChildForm(inputForm{input: &ti})
		}
	})
	return a
}

// Finished reports whether the user completed the wizard.
func (a *App) Finished() bool { return a.finished }

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.syncSelection()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.SetWidth(msg.Width)
		return a, nil

	case stateChangedMsg:
		a.syncInputs(false)
		return a, a.syncSelection()

	case checkDoneMsg:
		if !a.sess.Resolve(msg.result) {
			return a, nil
		}
		a.sess.RecordValue(msg.stepID)
		if msg.stepID != a.selectedID() {
			return a, nil
		}
		if err := msg.result.Err; err != nil {
			a.notice = err.Error()
			return a, nil
		}
		return a, a.advance()

	case tea.KeyPressMsg:
		return a, a.handleKey(msg)
	}

	if input := a.currentInput(); input != nil && !a.headersFocused.Load() {
		updated, cmd := input.Update(msg)
		*input = updated
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit
	case key.Matches(msg, a.keys.Zone):
		return a.toggleZone()
	case key.Matches(msg, a.keys.Orientation):
		a.toggleOrientation()
		return nil
	case key.Matches(msg, a.keys.Direction):
		a.toggleDirection()
		return nil
	case key.Matches(msg, a.keys.Reset):
		a.sess.Reset()
		a.syncInputs(true)
		a.notice = "Wizard reset"
		return a.syncSelection()
	}

	if a.headersFocused.Load() {
		return a.handleHeaderKey(msg)
	}
	return a.handleContentKey(msg)
}

func (a *App) handleHeaderKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.ui.Help.Expanded = a.help.ShowAll
		a.saveUI()
		return nil
	case key.Matches(msg, a.keys.QuitHeaders):
		a.quitting = true
		return tea.Quit
	}

	ev := focus.ParseKeyEvent(msg.String())
	selecting := key.Matches(msg, a.keys.Headers.Select)
	var (
		err     error
		blocked bool
	)
	a.sess.Do(func(s *stepper.Stepper) {
		before, target := s.SelectedIndex(), s.FocusIndex()
		err = s.OnKeydown(ev)
		// Only a selection request that left the selection in place was
		// refused; arrow keys never select.
		blocked = selecting && ev.DefaultPrevented() && target != before && s.SelectedIndex() == before
	})
	switch {
	case err != nil:
		a.notice = err.Error()
	case blocked:
		a.notice = blockedNotice
	case ev.DefaultPrevented():
		a.notice = ""
	}
	return a.syncSelection()
}

func (a *App) handleContentKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Submit):
		return a.submit()
	case key.Matches(msg, a.keys.Back):
		a.notice = ""
		moved, err := a.sess.Previous()
		if err != nil {
			a.notice = err.Error()
		} else if !moved {
			return a.toggleZone()
		}
		return a.syncSelection()
	case key.Matches(msg, a.keys.ScrollUp):
		a.body.PageUp()
		return nil
	case key.Matches(msg, a.keys.ScrollDown):
		a.body.PageDown()
		return nil
	}

	if input := a.currentInput(); input != nil {
		updated, cmd := input.Update(msg)
		*input = updated
		return cmd
	}
	return nil
}

// submit commits the current field, if any, and moves on. Async checks run
// as a command and continue in checkDoneMsg.
func (a *App) submit() tea.Cmd {
	a.notice = ""
	id := a.selectedID()
	if input, ok := a.inputs[id]; ok {
		check, err := a.sess.Submit(id, input.Value())
		if err != nil {
			a.notice = err.Error()
			return nil
		}
		if check != nil {
			ctx := a.ctx
			return func() tea.Msg {
				return checkDoneMsg{stepID: id, result: check.Run(ctx)}
			}
		}
	}
	return a.advance()
}

// advance moves to the next step, or finishes the wizard on the last one.
func (a *App) advance() tea.Cmd {
	st := a.sess.Status()
	if st.SelectedIndex == len(st.Steps)-1 {
		if i := a.sess.Finish(); i >= 0 {
			a.notice = fmt.Sprintf("Step %d (%s) is not complete", i+1, st.Steps[i].Label)
			return nil
		}
		a.finished = true
		return tea.Quit
	}

	moved, err := a.sess.Next()
	switch {
	case err != nil:
		a.notice = err.Error()
	case !moved:
		a.notice = blockedNotice
	}
	return a.syncSelection()
}

func (a *App) toggleZone() tea.Cmd {
	if a.headersFocused.Load() {
		a.headersFocused.Store(false)
		return a.focusInput()
	}
	a.headersFocused.Store(true)
	a.blurInputs()
	a.sess.Do(func(s *stepper.Stepper) { s.FocusHeader(s.SelectedIndex()) })
	return nil
}

func (a *App) toggleOrientation() {
	var o stepper.Orientation
	a.sess.Do(func(s *stepper.Stepper) {
		o = stepper.Vertical
		if s.Orientation() == stepper.Vertical {
			o = stepper.Horizontal
		}
		s.SetOrientation(o)
	})
	a.ui.Layout.Orientation = string(o)
	a.saveUI()
}

func (a *App) toggleDirection() {
	if a.bidi == nil {
		a.notice = "Text direction is fixed"
		return
	}
	a.sess.Do(func(*stepper.Stepper) { a.bidi.Toggle() })
	a.ui.Layout.Direction = string(a.bidi.Value())
	a.saveUI()
}

func (a *App) saveUI() {
	if a.dataDir == "" {
		return
	}
	if err := state.Save(a.dataDir, a.ui); err != nil {
		logger.Warn("Failed to save UI state: %v", err)
	}
}

// syncSelection follows the stepper's selection: the content panel switches
// to the selected step and its input takes focus.
func (a *App) syncSelection() tea.Cmd {
	id := a.selectedID()
	if id == a.current {
		return nil
	}
	a.current = id
	a.body.GotoTop()
	if a.headersFocused.Load() {
		return nil
	}
	return a.focusInput()
}

// syncInputs copies field values back into the text inputs. The focused
// input keeps what the user is typing unless all is set.
func (a *App) syncInputs(all bool) {
	for id, value := range a.sess.Values() {
		input, ok := a.inputs[id]
		if !ok || (input.Focused() && !all) {
			continue
		}
		input.SetValue(value)
	}
}

func (a *App) focusInput() tea.Cmd {
	a.blurInputs()
	if input := a.currentInput(); input != nil {
		return input.Focus()
	}
	return nil
}

func (a *App) blurInputs() {
	for _, input := range a.inputs {
		input.Blur()
	}
}

func (a *App) currentInput() *textinput.Model {
	return a.inputs[a.selectedID()]
}

func (a *App) selectedID() string {
	var id string
	a.sess.Do(func(s *stepper.Stepper) {
		if st := s.Selected(); st != nil {
			id = st.ID()
		}
	})
	return id
}

func (a *App) page(id string) (definition.Page, bool) {
	for _, p := range a.sess.Pages() {
		if p.Step.ID() == id {
			return p, true
		}
	}
	return definition.Page{}, false
}

// View implements tea.Model.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	if a.quitting || a.width <= 0 || a.height <= 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	view.WindowTitle = a.sess.Wizard().Name
	return view
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) {
	st := a.sess.Status()
	footer := a.footer(st)
	layout := CalculateLayout(area.Dx(), area.Dy(),
		stepper.Orientation(st.Orientation), stepper.Direction(st.Direction), lipgloss.Height(footer)+1)

	a.drawTitle(scr, layout.Title, st)
	drawHeaders(scr, layout.Headers, st, a.headersFocused.Load())
	a.drawContent(scr, layout.Content, st)

	noticeRow, hintArea := uv.SplitVertical(layout.Footer, uv.Fixed(1))
	if a.notice != "" {
		DrawText(scr, noticeRow, theme.Current().S().FieldError.Render(a.notice))
	}
	DrawText(scr, hintArea, footer)
}

func (a *App) drawTitle(scr uv.Screen, area uv.Rectangle, st session.Status) {
	s := theme.Current().S()
	meta := []string{fmt.Sprintf("step %d/%d", st.SelectedIndex+1, len(st.Steps))}
	if st.Linear {
		meta = append(meta, "linear")
	}
	meta = append(meta, st.Orientation, st.Direction)
	DrawText(scr, area, s.HeaderTitle.Render(st.Wizard)+"  "+s.HeaderMeta.Render(strings.Join(meta, " · ")))
}

func (a *App) drawContent(scr uv.Screen, area uv.Rectangle, st session.Status) {
	if st.SelectedIndex < 0 || st.SelectedIndex >= len(st.Steps) {
		DrawPanel(scr, area, "No steps", false)
		return
	}
	ss := st.Steps[st.SelectedIndex]
	title := fmt.Sprintf("%d. %s", st.SelectedIndex+1, ss.Label)
	inner := DrawPanel(scr, area, title, !a.headersFocused.Load())

	s := theme.Current().S()
	bodyArea := inner
	if input, ok := a.inputs[ss.ID]; ok {
		var fieldArea uv.Rectangle
		bodyArea, fieldArea = uv.SplitVertical(inner, uv.Fixed(max(inner.Dy()-3, 0)))
		labelRow, rest := uv.SplitVertical(fieldArea, uv.Fixed(1))
		inputRow, errRow := uv.SplitVertical(rest, uv.Fixed(1))

		DrawText(scr, labelRow, s.FieldLabel.Render(ss.Field))
		input.SetWidth(max(inputRow.Dx()-lipgloss.Width(input.Prompt)-1, 1))
		DrawText(scr, inputRow, input.View())
		switch {
		case ss.Pending:
			DrawText(scr, errRow, s.FieldHint.Render("checking…"))
		case ss.Error != "":
			DrawText(scr, errRow, s.FieldError.Render(ss.Error))
		}
	} else if ss.Error != "" {
		var errRow uv.Rectangle
		bodyArea, errRow = uv.SplitVertical(inner, uv.Fixed(max(inner.Dy()-1, 0)))
		DrawText(scr, errRow, s.FieldError.Render(ss.Error))
	}

	a.body.SetWidth(bodyArea.Dx())
	a.body.SetHeight(bodyArea.Dy())
	if k := fmt.Sprintf("%s/%d", ss.ID, bodyArea.Dx()); k != a.bodyKey {
		a.bodyKey = k
		body := ""
		if p, ok := a.page(ss.ID); ok {
			body = renderMarkdown(p.Body, bodyArea.Dx())
		}
		a.body.SetContent(body)
	}
	DrawText(scr, bodyArea, a.body.View())
}

// footer renders the hint bar, or the full key help when expanded.
func (a *App) footer(st session.Status) string {
	if a.help.ShowAll {
		return a.help.View(a.keys)
	}
	if a.headersFocused.Load() {
		arrows := KeyArrows
		if stepper.Orientation(st.Orientation) == stepper.Vertical {
			arrows = KeyUpDown
		}
		return HintHeaders(arrows)
	}
	return HintContent(st.SelectedIndex == len(st.Steps)-1)
}
