package tui

import (
	"strings"

	"github.com/mark3labs/stepr/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
const (
	KeyArrows = "←/→"
	KeyUpDown = "↑/↓"
	KeyEnter  = "enter"
	KeyEsc    = "esc"
	KeyTab    = "tab"
	KeyHelp   = "?"
	KeyCtrlC  = "ctrl+c"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Pairs are separated by " . ".
// Example: RenderHintBar("tab", "steps", "esc", "back")
// Returns: "tab steps . esc back"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render(".") + " ")
		}
		b.WriteString(RenderHint(pairs[i], pairs[i+1]))
	}
	return b.String()
}

// HintHeaders returns hints for the step header row.
func HintHeaders(arrows string) string {
	return RenderHintBar(arrows, "move", KeyEnter, "open step", KeyTab, "edit", KeyHelp, "help", KeyEsc, "quit")
}

// HintContent returns hints for the step content panel.
// "enter continue . esc back . tab steps . ctrl+c quit"
func HintContent(last bool) string {
	next := "continue"
	if last {
		next = "finish"
	}
	return RenderHintBar(KeyEnter, next, KeyEsc, "back", KeyTab, "steps", KeyCtrlC, "quit")
}
