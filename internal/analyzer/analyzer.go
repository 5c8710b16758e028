// Package analyzer decides whether a query's WHERE predicates are ordered by
// descending selectivity and, when they are not, emits an issue carrying the
// recommended order.
package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"idxlint/internal/cardinality"
	"idxlint/internal/extractor"
)

// Severity classifies how much a reordering is expected to matter.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// OptimizationIssue reports a suboptimal predicate order for one query.
type OptimizationIssue struct {
	Query                  string
	CurrentFirstColumn     string
	RecommendedFirstColumn string
	RecommendedColumnOrder []string
	Severity               Severity
	Description            string
	// Advice is an optional free-text explanation from an external
	// recommender. It is never required and never replaces Description.
	Advice string
}

// Input holds one query's classified conditions.
type Input struct {
	Query      string
	Conditions []extractor.WhereCondition
	// HasOr is true when any top-level conditions are OR-connected; the
	// analyzer then declines to recommend reordering.
	HasOr bool
}

// ClassifyConditions fills in the Cardinality of each condition from the
// classifier. Conditions without a resolved table fall back to fallbackTable.
func ClassifyConditions(conds []extractor.WhereCondition, cls *cardinality.Classifier, fallbackTable string) {
	for i := range conds {
		if conds[i].TableName == "" {
			conds[i].TableName = fallbackTable
		}
		conds[i].Cardinality = cls.Classify(conds[i].TableName, conds[i].ColumnName)
	}
}

// Analyze returns an issue when the query's first predicate is not the most
// selective one, or nil when the order is already optimal, the chain is
// OR-connected, or there is nothing to reorder.
func Analyze(input Input) *OptimizationIssue {
	conds := input.Conditions
	if len(conds) < 2 || input.HasOr {
		return nil
	}

	// Target order: descending cardinality, original position breaking ties
	// so equal-cardinality columns keep their declared order.
	target := make([]extractor.WhereCondition, len(conds))
	copy(target, conds)
	sort.SliceStable(target, func(i, j int) bool {
		if target[i].Cardinality != target[j].Cardinality {
			return target[i].Cardinality < target[j].Cardinality
		}
		return target[i].Position < target[j].Position
	})

	current, recommended := conds[0], target[0]
	if sameColumn(current, recommended) {
		return nil
	}

	severity := SeverityLow
	if recommended.Cardinality < current.Cardinality {
		if current.Cardinality == cardinality.Low && recommended.Cardinality == cardinality.High {
			severity = SeverityHigh
		} else {
			severity = SeverityMedium
		}
	}

	order := make([]string, len(target))
	for i, c := range target {
		order[i] = c.ColumnName
	}

	return &OptimizationIssue{
		Query:                  input.Query,
		CurrentFirstColumn:     current.ColumnName,
		RecommendedFirstColumn: recommended.ColumnName,
		RecommendedColumnOrder: order,
		Severity:               severity,
		Description: fmt.Sprintf(
			"First predicate filters on '%s' (%s cardinality) while '%s' (%s cardinality) is available. Reorder to: %s.",
			current.ColumnName, current.Cardinality,
			recommended.ColumnName, recommended.Cardinality,
			strings.Join(order, ", "),
		),
	}
}

func sameColumn(a, b extractor.WhereCondition) bool {
	return strings.EqualFold(a.TableName, b.TableName) &&
		strings.EqualFold(a.ColumnName, b.ColumnName)
}

// Recommender supplies an optional free-text explanation for an issue. Any
// implementation is expected to be I/O bound; errors and timeouts are the
// caller's concern and never change the deterministic recommendation.
type Recommender interface {
	Explain(ctx context.Context, issue OptimizationIssue) (string, error)
}

// Annotate asks the recommender for advice and attaches it to the issue.
// Failures leave the issue untouched. Advice text may tie-break a MEDIUM
// severity, never override HIGH or LOW from the cardinality rule.
func Annotate(ctx context.Context, rec Recommender, issue *OptimizationIssue) {
	if rec == nil || issue == nil {
		return
	}
	advice, err := rec.Explain(ctx, *issue)
	if err != nil || advice == "" {
		return
	}
	issue.Advice = advice
	if issue.Severity == SeverityMedium {
		lower := strings.ToLower(advice)
		if strings.Contains(lower, "high priority") {
			issue.Severity = SeverityHigh
		} else if strings.Contains(lower, "low priority") {
			issue.Severity = SeverityLow
		}
	}
}
