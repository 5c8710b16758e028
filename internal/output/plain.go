package output

import (
	"fmt"
	"io"
	"strings"
)

// PlainRenderer produces unstyled output for pipes and CI logs.
type PlainRenderer struct {
	w io.Writer
}

func (r *PlainRenderer) Render(report *Report) {
	for i, q := range report.Queries {
		fmt.Fprintf(r.w, "query %d: %s\n", i+1, q.Query)
		if q.Error != "" {
			fmt.Fprintf(r.w, "  skipped: %s\n", q.Error)
			continue
		}
		for _, c := range q.Conditions {
			fmt.Fprintf(r.w, "  condition: %s.%s %s [%s]\n", c.TableName, c.ColumnName, c.Operator, c.Cardinality)
		}
		if q.Issue != nil {
			fmt.Fprintf(r.w, "  issue (%s): %s\n", q.Issue.Severity, q.Issue.Description)
		} else {
			fmt.Fprintln(r.w, "  order: optimal")
		}
	}

	for _, s := range report.SingleColumn {
		fmt.Fprintf(r.w, "suggest index: %s (%s)\n", s.Table, strings.Join(s.Columns, ", "))
	}
	for _, s := range report.MultiColumn {
		fmt.Fprintf(r.w, "suggest index: %s (%s)\n", s.Table, strings.Join(s.Columns, ", "))
	}
	for _, key := range report.Removed {
		fmt.Fprintf(r.w, "removed redundant: %s\n", key)
	}
	if report.Changelog != "" {
		fmt.Fprintln(r.w, report.Changelog)
	}
}
