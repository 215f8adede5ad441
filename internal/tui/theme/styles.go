package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// Step header indicators, one per indicator kind.
	IndicatorNumber   lipgloss.Style
	IndicatorEdit     lipgloss.Style
	IndicatorDone     lipgloss.Style
	IndicatorError    lipgloss.Style
	IndicatorSelected lipgloss.Style

	StepLabel         lipgloss.Style
	StepLabelSelected lipgloss.Style
	StepLabelDisabled lipgloss.Style
	StepOptional      lipgloss.Style
	StepCursor        lipgloss.Style
	StepConnector     lipgloss.Style

	FieldLabel lipgloss.Style
	FieldError lipgloss.Style
	FieldHint  lipgloss.Style

	PanelTitle        lipgloss.Style
	PanelTitleFocused lipgloss.Style
	PanelRule         lipgloss.Style
	PanelRuleFocused  lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := HexToColor
	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		HeaderMeta: lipgloss.NewStyle().Foreground(c(t.FgMuted)),

		IndicatorNumber:   lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		IndicatorEdit:     lipgloss.NewStyle().Foreground(c(t.Secondary)),
		IndicatorDone:     lipgloss.NewStyle().Foreground(c(t.Success)),
		IndicatorError:    lipgloss.NewStyle().Foreground(c(t.Error)).Bold(true),
		IndicatorSelected: lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Primary)).Bold(true),

		StepLabel:         lipgloss.NewStyle().Foreground(c(t.FgBase)),
		StepLabelSelected: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		StepLabelDisabled: lipgloss.NewStyle().Foreground(c(t.BgOverlay)),
		StepOptional:      lipgloss.NewStyle().Foreground(c(t.FgMuted)).Italic(true),
		StepCursor:        lipgloss.NewStyle().Foreground(c(t.Tertiary)).Underline(true),
		StepConnector:     lipgloss.NewStyle().Foreground(c(t.BorderDefault)),

		FieldLabel: lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		FieldError: lipgloss.NewStyle().Foreground(c(t.Error)),
		FieldHint:  lipgloss.NewStyle().Foreground(c(t.FgMuted)),

		PanelTitle:        lipgloss.NewStyle().Foreground(c(t.FgMuted)).Bold(true),
		PanelTitleFocused: lipgloss.NewStyle().Foreground(c(t.BorderFocused)).Bold(true),
		PanelRule:         lipgloss.NewStyle().Foreground(c(t.BorderMuted)),
		PanelRuleFocused:  lipgloss.NewStyle().Foreground(c(t.BorderFocused)),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface2)),
	}
}
