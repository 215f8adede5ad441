package main

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/stepr/internal/definition"
	"github.com/mark3labs/stepr/internal/tui/theme"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <wizard.yml>",
	Short: "Check a wizard definition and list its steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := definition.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStepTable(w))
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// renderStepTable renders the steps of a definition as a table.
func renderStepTable(w *definition.Wizard) string {
	th := theme.Current()
	s := th.S()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.HexToColor(th.BorderDefault))).
		Headers("#", "ID", "Label", "Field", "Optional", "Editable")
	for i, st := range w.Steps {
		field := ""
		if st.Field != nil {
			field = st.Field.Name
		}
		editable := st.Editable == nil || *st.Editable
		t.Row(strconv.Itoa(i+1), st.ID, st.Label, field, yesNo(st.Optional), yesNo(editable))
	}

	mode := "free"
	if w.IsLinear() {
		mode = "linear"
	}
	title := s.HeaderTitle.Render(w.Name) + "  " + s.HeaderMeta.Render(fmt.Sprintf("%d steps · %s", len(w.Steps), mode))
	return title + "\n" + t.String()
}
