package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/stepr/internal/tui/theme"
)

// DrawText renders plain text at a position
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawStyled renders lipgloss-styled content at a position
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// DrawPanel renders a panel with a title header and returns the inner content area.
// The header shows "Title ────────" with a trailing rule line.
// Focus is indicated by the header color.
func DrawPanel(scr uv.Screen, area uv.Rectangle, title string, focused bool) uv.Rectangle {
	if area.Dy() <= 0 || area.Dx() <= 0 {
		return area
	}

	s := theme.Current().S()
	titleStyle, ruleStyle := s.PanelTitle, s.PanelRule
	if focused {
		titleStyle, ruleStyle = s.PanelTitleFocused, s.PanelRuleFocused
	}

	styledTitle := titleStyle.Render(title)
	ruleWidth := max(area.Dx()-lipgloss.Width(styledTitle)-1, 0)
	header := styledTitle + " " + ruleStyle.Render(strings.Repeat("─", ruleWidth))

	titleArea, inner := uv.SplitVertical(area, uv.Fixed(1))
	uv.NewStyledString(header).Draw(scr, titleArea)
	return inner
}

// DrawHorizontalDivider renders a horizontal dividing line
func DrawHorizontalDivider(scr uv.Screen, area uv.Rectangle, style lipgloss.Style) {
	divider := style.Render(strings.Repeat("─", max(area.Dx(), 0)))
	uv.NewStyledString(divider).Draw(scr, area)
}
