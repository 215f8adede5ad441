package tui

import (
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/stepr/internal/session"
	"github.com/mark3labs/stepr/internal/stepper"
	"github.com/mark3labs/stepr/internal/tui/theme"
)

// indicatorGlyph returns the symbol shown in a step header for an indicator.
func indicatorGlyph(kind string, index int) string {
	switch stepper.StepState(kind) {
	case stepper.StateEdit:
		return "✎"
	case stepper.StateDone:
		return "✓"
	case stepper.StateError:
		return "!"
	}
	return strconv.Itoa(index + 1)
}

// renderHeader renders one step header: indicator, label and optional tag.
// cursor marks the header the keyboard cursor rests on.
func renderHeader(ss session.StepStatus, cursor bool) string {
	s := theme.Current().S()

	glyph := " " + indicatorGlyph(ss.Indicator, ss.Index) + " "
	var indicator string
	switch {
	case ss.Selected:
		indicator = s.IndicatorSelected.Render(glyph)
	case ss.Indicator == string(stepper.StateError):
		indicator = s.IndicatorError.Render(glyph)
	case ss.Indicator == string(stepper.StateDone):
		indicator = s.IndicatorDone.Render(glyph)
	case ss.Indicator == string(stepper.StateEdit):
		indicator = s.IndicatorEdit.Render(glyph)
	default:
		indicator = s.IndicatorNumber.Render(glyph)
	}

	labelStyle := s.StepLabel
	switch {
	case ss.Selected:
		labelStyle = s.StepLabelSelected
	case !ss.Navigable:
		labelStyle = s.StepLabelDisabled
	}
	if cursor {
		labelStyle = labelStyle.Inherit(s.StepCursor)
	}

	out := indicator + " " + labelStyle.Render(ss.Label)
	if ss.Optional {
		out += " " + s.StepOptional.Render("(optional)")
	}
	return out
}

// renderHeaders lays out all step headers. Horizontal headers are joined by
// connectors in a single row, reversed for RTL. Vertical headers stack one
// per line, right-aligned for RTL. cursor is the header under the keyboard
// cursor, or -1 to hide it.
func renderHeaders(st session.Status, cursor, width int) string {
	s := theme.Current().S()
	rtl := stepper.Direction(st.Direction) == stepper.RTL

	headers := make([]string, len(st.Steps))
	for i, ss := range st.Steps {
		headers[i] = renderHeader(ss, i == cursor)
	}

	if stepper.Orientation(st.Orientation) == stepper.Vertical {
		if rtl {
			for i, h := range headers {
				headers[i] = lipgloss.PlaceHorizontal(width, lipgloss.Right, h)
			}
		}
		return strings.Join(headers, "\n")
	}

	if rtl {
		slices.Reverse(headers)
	}
	return strings.Join(headers, s.StepConnector.Render(" ── "))
}

// drawHeaders draws the header panel into area.
func drawHeaders(scr uv.Screen, area uv.Rectangle, st session.Status, focused bool) {
	inner := DrawPanel(scr, area, "Steps", focused)
	cursor := -1
	if focused {
		cursor = st.FocusIndex
	}
	DrawText(scr, inner, renderHeaders(st, cursor, inner.Dx()))
}
