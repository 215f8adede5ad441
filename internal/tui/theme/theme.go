package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgBase     string
	BgMantle   string
	BgGutter   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Border colors
	BorderMuted   string
	BorderDefault string
	BorderFocused string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() *Theme{
		"catppuccin-mocha": NewCatppuccinMocha,
	}
	current = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return current
}

// SetCurrent switches the active theme by name. Unknown names are ignored
// and reported as false.
func SetCurrent(name string) bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	ctor, ok := registry[name]
	if !ok {
		return false
	}
	current = ctor()
	return true
}

// HexToColor converts a "#rrggbb" string to a color.Color.
func HexToColor(hex string) color.Color {
	return lipgloss.Color(hex)
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}
