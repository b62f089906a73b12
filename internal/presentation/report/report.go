// Package report formats snapshot summaries and diagnostic reports.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/dustin/go-humanize"
)

// Summary returns the one-row Markdown table describing a snapshot.
func Summary(s *domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("| Applications | Nodes | Iterative (ms) |\n")
	sb.WriteString("|--------------|-------|----------------|\n")
	fmt.Fprintf(&sb, "| %-12d | %-5d | %-14d |\n", s.Applications, s.Nodes, s.Elapsed.Milliseconds())
	return sb.String()
}

// Footprint is the humanized estimate of the memory a full child list would
// take (binary units).
func Footprint(d *domain.Diagnostic) string {
	return humanize.IBytes(d.EstimatedFootprint())
}

// WriteDiagnostic prints the report as plain text.
func WriteDiagnostic(w io.Writer, d *domain.Diagnostic) error {
	_, err := fmt.Fprintf(w,
		"Inspecting object with high child count\n"+
			"Object: name: %q, role: %q, description: %q\n"+
			"Interfaces: %s\n"+
			"child_count: %s, reference size: %d B, collection size: %s\n"+
			"Application: name: %s, role: %s\n",
		d.Name, d.Role.String(), d.Description,
		d.Capabilities,
		humanize.Comma(int64(d.ChildCount)), d.RefSize, Footprint(d),
		d.ApplicationName, d.ApplicationRole,
	)
	return err
}

// DiagnosticMarkdown renders the report as a Markdown document, for glamour.
func DiagnosticMarkdown(d *domain.Diagnostic) string {
	var sb strings.Builder
	sb.WriteString("# Child count too high\n\n")
	fmt.Fprintf(&sb, "`%s` reports **%s** children; the tree was not built.\n\n", d.Ref, humanize.Comma(int64(d.ChildCount)))
	sb.WriteString("| Field | Value |\n|-------|-------|\n")
	rows := [][2]string{
		{"Name", d.Name},
		{"Role", d.Role.String()},
		{"Description", d.Description},
		{"Interfaces", d.Capabilities.String()},
		{"Reference size", fmt.Sprintf("%d B", d.RefSize)},
		{"Estimated footprint", Footprint(d)},
		{"Application", fmt.Sprintf("%s (%s)", d.ApplicationName, d.ApplicationRole)},
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %s | %s |\n", r[0], escapeCell(r[1]))
	}
	return sb.String()
}

func escapeCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
