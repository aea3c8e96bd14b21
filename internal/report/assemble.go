// Package report assembles the final diagnosis document and renders it to
// its output forms: plain text, markdown, and a paginated A4 PDF.
package report

import (
	"fmt"
	"strings"

	"github.com/clinsight/diagteam/internal/record"
)

const (
	// MissingValue substitutes for any header field absent from the record.
	MissingValue = "N/A"

	SectionTitle = "Final Diagnosis Report"
)

// HeaderFields are the five fixed record fields, in render order.
var HeaderFields = []string{"Name", "Patient ID", "Age", "Gender", "Date of Report"}

// The text rendering labels the first field "Patient Name"; the other labels
// match the field names.
func headerLabel(field string) string {
	if field == "Name" {
		return "Patient Name"
	}
	return field
}

// BuildText produces the plain-text report: five header lines, the fixed
// section title, then the synthesis narrative.
func BuildText(rec *record.Record, synthesis string) string {
	var b strings.Builder
	for _, field := range HeaderFields {
		fmt.Fprintf(&b, "%s: %s\n", headerLabel(field), rec.GetOr(field, MissingValue))
	}
	fmt.Fprintf(&b, "\n\n### %s\n\n%s", SectionTitle, synthesis)
	return b.String()
}

// BuildMarkdown produces the markdown fed to the paginated renderer: a title
// block, one line per header field, then one paragraph per non-blank
// synthesis line. Blank lines are dropped, not rendered as empty paragraphs.
func BuildMarkdown(rec *record.Record, synthesis string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", SectionTitle)
	for _, field := range HeaderFields {
		fmt.Fprintf(&b, "%s: %s  \n", field, rec.GetOr(field, MissingValue))
	}
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimSpace(synthesis), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
