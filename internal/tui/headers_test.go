package tui

import (
	"bytes"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/stepr/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strip(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	w := &colorprofile.Writer{Forward: &buf, Profile: colorprofile.NoTTY}
	_, err := w.WriteString(s)
	require.NoError(t, err)
	return buf.String()
}

func TestIndicatorGlyph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind  string
		index int
		want  string
	}{
		{"number", 0, "1"},
		{"number", 9, "10"},
		{"edit", 2, "✎"},
		{"done", 2, "✓"},
		{"error", 2, "!"},
		{"custom", 4, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, indicatorGlyph(tt.kind, tt.index))
		})
	}
}

func testStatus(orientation, direction string) session.Status {
	return session.Status{
		Orientation: orientation,
		Direction:   direction,
		Steps: []session.StepStatus{
			{Index: 0, Label: "Alpha", Indicator: "edit", Navigable: true},
			{Index: 1, Label: "Beta", Indicator: "number", Selected: true, Navigable: true},
			{Index: 2, Label: "Gamma", Indicator: "number", Optional: true},
		},
	}
}

func TestRenderHeaders_Horizontal(t *testing.T) {
	t.Parallel()

	ltr := strip(t, renderHeaders(testStatus("horizontal", "ltr"), -1, 80))
	assert.Less(t, strings.Index(ltr, "Alpha"), strings.Index(ltr, "Gamma"))
	assert.Contains(t, ltr, "✎ ")
	assert.Contains(t, ltr, "(optional)")
	assert.Equal(t, 1, strings.Count(ltr, "\n")+1, "single row")

	rtl := strip(t, renderHeaders(testStatus("horizontal", "rtl"), -1, 80))
	assert.Greater(t, strings.Index(rtl, "Alpha"), strings.Index(rtl, "Gamma"))
}

func TestRenderHeaders_Vertical(t *testing.T) {
	t.Parallel()

	out := strip(t, renderHeaders(testStatus("vertical", "ltr"), 0, 30))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Alpha")
	assert.Contains(t, lines[2], "Gamma")

	rtl := strip(t, renderHeaders(testStatus("vertical", "rtl"), -1, 30))
	for _, line := range strings.Split(rtl, "\n") {
		assert.Equal(t, 30, lipgloss.Width(line), "right-aligned: %q", line)
	}
	assert.True(t, strings.HasSuffix(rtl, "(optional)"))
}
