package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// StepRow is one unique step of a feature as shown by `stepgen show`.
type StepRow struct {
	Method   string
	Step     string
	Scenario string
	Defined  bool
}

func ShowFeature(w io.Writer, name, stepsPath string) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Feature:"), name)
	fmt.Fprintf(w, "steps: %s\n", stepsPath)
}

func StepTable(w io.Writer, rows []StepRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Method", "Step", "Scenario", "State"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	pending := 0
	for _, r := range rows {
		state := "defined"
		if !r.Defined {
			state = pendingStyle.Render("pending")
			pending++
		}
		table.Append([]string{r.Method, r.Step, r.Scenario, state})
	}
	table.SetFooter([]string{fmt.Sprintf("%d steps", len(rows)), "", "", fmt.Sprintf("%d pending", pending)})
	table.Render()
}

// ArtifactLine lists one expected artifact of a feature.
func ArtifactLine(w io.Writer, path string, exists, tracked bool) {
	switch {
	case !exists:
		fmt.Fprintf(w, "  %s %s\n", path, pendingStyle.Render("(missing)"))
	case !tracked:
		fmt.Fprintf(w, "  %s %s\n", path, okStyle.Render("(untracked)"))
	default:
		fmt.Fprintf(w, "  %s\n", path)
	}
}
