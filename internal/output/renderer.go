package output

import (
	"io"

	"idxlint/internal/advisor"
	"idxlint/internal/analyzer"
	"idxlint/internal/extractor"
)

// QueryReport holds one analyzed query's findings.
type QueryReport struct {
	Query       string                       `json:"query"`
	WhereClause string                       `json:"whereClause,omitempty"`
	Conditions  []extractor.WhereCondition   `json:"conditions,omitempty"`
	Joins       []extractor.JoinCondition    `json:"joins,omitempty"`
	Issue       *analyzer.OptimizationIssue  `json:"issue,omitempty"`
	Error       string                       `json:"error,omitempty"`
}

// Report is the full output of one analysis run.
type Report struct {
	Queries      []QueryReport        `json:"queries"`
	SingleColumn []advisor.Suggestion `json:"singleColumnSuggestions"`
	MultiColumn  []advisor.Suggestion `json:"multiColumnSuggestions"`
	Removed      []string             `json:"removedRedundant,omitempty"`
	Changelog    string               `json:"changelog,omitempty"`
}

// Renderer defines the output interface.
type Renderer interface {
	Render(report *Report)
}

// NewRenderer creates a renderer for the given format.
func NewRenderer(format string, w io.Writer) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{w: w}
	case "plain":
		return &PlainRenderer{w: w}
	default:
		return &TextRenderer{w: w}
	}
}
