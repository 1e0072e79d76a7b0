package ui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/stepgen/internal/merge"
)

var (
	newStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	updStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	appStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle  = lipgloss.NewStyle().Faint(true)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func UpdLine(w io.Writer, path string) {
	fmt.Fprintln(w, updStyle.Render("upd")+"  "+path)
}

func AppLine(w io.Writer, path string, added int) {
	fmt.Fprintf(w, "%s  %s (+%d %s)\n", appStyle.Render("app"), path, added, plural(added, "step", "steps"))
}

func OkLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("ok")+"   "+path)
}

func ErrLine(w io.Writer, err error) {
	fmt.Fprintln(w, errStyle.Render("error")+"  "+err.Error())
}

func SummaryLine(w io.Writer, s merge.Summary) {
	fmt.Fprintf(w, "%d %s, %d %s: %d created, %d updated, %d appended (+%d %s), %d unchanged\n",
		s.Sources, plural(s.Sources, "file", "files"),
		s.Features, plural(s.Features, "feature", "features"),
		s.Created, s.Replaced, s.Appended,
		s.StepsAdded, plural(s.StepsAdded, "step", "steps"),
		s.Unchanged)
}

// Reporter prints one line per artifact, relative to Root when possible.
type Reporter struct {
	w    io.Writer
	root string
}

func NewReporter(w io.Writer, root string) *Reporter {
	return &Reporter{w: w, root: root}
}

func (r *Reporter) Artifact(path string, outcome merge.Outcome, added int) {
	path = r.rel(path)
	switch outcome {
	case merge.Created:
		NewLine(r.w, path)
	case merge.Replaced:
		UpdLine(r.w, path)
	case merge.Appended:
		AppLine(r.w, path, added)
	default:
		OkLine(r.w, path)
	}
}

func (r *Reporter) rel(path string) string {
	if r.root == "" || !filepath.IsAbs(path) {
		return path
	}
	if rel, err := filepath.Rel(r.root, path); err == nil {
		return rel
	}
	return path
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
