package ui

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/chriserin/stepgen/internal/db"
	"github.com/chriserin/stepgen/internal/generate"
)

// ArtifactTable renders manifest entries with a total footer.
func ArtifactTable(w io.Writer, artifacts []db.Artifact) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Path", "Role", "Updated"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, a := range artifacts {
		table.Append([]string{a.Path, string(a.Role), a.UpdatedAt})
	}
	table.SetFooter([]string{fmt.Sprintf("Total %d", len(artifacts)), "", ""})
	table.Render()
}

// RoleTable renders artifact counts per role, sorted by role.
func RoleTable(w io.Writer, counts map[generate.Role]int) {
	roles := make([]string, 0, len(counts))
	total := 0
	for role, n := range counts {
		roles = append(roles, string(role))
		total += n
	}
	sort.Strings(roles)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Role", "Artifacts"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, role := range roles {
		table.Append([]string{role, fmt.Sprintf("%d", counts[generate.Role(role)])})
	}
	table.SetFooter([]string{"Total", fmt.Sprintf("%d", total)})
	table.Render()
}
