package output

import (
	"fmt"
	"io"
	"strings"

	"idxlint/internal/analyzer"
)

// TextRenderer produces Lip Gloss styled terminal output.
type TextRenderer struct {
	w io.Writer
}

func (r *TextRenderer) Render(report *Report) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, TitleStyle.Render("idxlint — query analysis"))
	fmt.Fprintln(r.w)

	for i, q := range report.Queries {
		fmt.Fprintf(r.w, "%s %s\n", LabelStyle.Render(fmt.Sprintf("Query #%d:", i+1)), CodeStyle.Render(q.Query))
		if q.Error != "" {
			fmt.Fprintf(r.w, "%s %s\n\n", LabelStyle.Render("Skipped:"), MutedText.Render(q.Error))
			continue
		}
		if q.WhereClause != "" {
			fmt.Fprintf(r.w, "%s %s\n", LabelStyle.Render("WHERE:"), q.WhereClause)
		}
		for _, c := range q.Conditions {
			fmt.Fprintf(r.w, "%s %s.%s %s  [%s]\n",
				LabelStyle.Render(""), c.TableName, c.ColumnName, c.Operator, c.Cardinality)
		}
		if q.Issue != nil {
			fmt.Fprintf(r.w, "%s %s %s\n",
				LabelStyle.Render("Issue:"),
				severityText(q.Issue.Severity),
				q.Issue.Description)
			if q.Issue.Advice != "" {
				fmt.Fprintf(r.w, "%s %s\n", LabelStyle.Render("Advice:"), MutedText.Render(q.Issue.Advice))
			}
		} else {
			fmt.Fprintf(r.w, "%s %s\n", LabelStyle.Render("Order:"), SafeText.Render("optimal"))
		}
		fmt.Fprintln(r.w)
	}

	r.renderSuggestions(report)

	if report.Changelog != "" {
		fmt.Fprintln(r.w, TitleStyle.Render("Migration changesets"))
		fmt.Fprintln(r.w, CodeStyle.Render(report.Changelog))
	}
}

func (r *TextRenderer) renderSuggestions(report *Report) {
	if len(report.SingleColumn) == 0 && len(report.MultiColumn) == 0 {
		fmt.Fprintln(r.w, SafeText.Render("No index suggestions."))
		fmt.Fprintln(r.w)
		return
	}

	fmt.Fprintln(r.w, TitleStyle.Render("Index suggestions"))
	for _, s := range report.SingleColumn {
		fmt.Fprintf(r.w, "  %s (%s)\n", s.Table, strings.Join(s.Columns, ", "))
	}
	for _, s := range report.MultiColumn {
		fmt.Fprintf(r.w, "  %s (%s)\n", s.Table, strings.Join(s.Columns, ", "))
	}
	if len(report.Removed) > 0 {
		fmt.Fprintf(r.w, "%s %s\n",
			MutedText.Render("Removed as redundant:"),
			MutedText.Render(strings.Join(report.Removed, ", ")))
	}
	fmt.Fprintln(r.w)
}

func severityText(s analyzer.Severity) string {
	switch s {
	case analyzer.SeverityHigh:
		return DangerText.Render(string(s))
	case analyzer.SeverityMedium:
		return WarningText.Render(string(s))
	default:
		return MutedText.Render(string(s))
	}
}
