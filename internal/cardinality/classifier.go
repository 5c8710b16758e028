// Package cardinality infers a column's selectivity class from schema index
// metadata and naming heuristics. No live statistics are consulted: a
// PRIMARY KEY or unique index is the strongest selectivity evidence the
// schema can give, boolean-named columns are the weakest.
package cardinality

import (
	"strings"

	"idxlint/internal/schema"
)

// Level is an inferred selectivity class. Lower value = more selective.
type Level int

const (
	High   Level = iota // unique-ish: PK or unique index/constraint
	Medium              // indexed or unknown
	Low                 // boolean-named columns
)

func (l Level) String() string {
	switch l {
	case High:
		return "HIGH"
	case Low:
		return "LOW"
	default:
		return "MEDIUM"
	}
}

// booleanPrefixes and booleanSuffixes drive the boolean-naming heuristic.
var (
	booleanPrefixes = []string{"is_", "has_", "can_", "should_"}
	booleanSuffixes = []string{"_flag", "_enabled"}
	booleanNames    = map[string]bool{
		"active":  true,
		"enabled": true,
		"deleted": true,
		"visible": true,
	}
)

// Classifier maps (table, column) pairs to cardinality levels. Overrides let
// the caller pin specific columns regardless of metadata.
type Classifier struct {
	snapshot      *schema.Snapshot
	highOverrides map[string]bool // lowercased column names
	lowOverrides  map[string]bool
}

// NewClassifier builds a classifier over a schema snapshot. A nil snapshot
// is valid and classifies everything by heuristics alone.
func NewClassifier(snapshot *schema.Snapshot) *Classifier {
	if snapshot == nil {
		snapshot = schema.NewSnapshot()
	}
	return &Classifier{
		snapshot:      snapshot,
		highOverrides: make(map[string]bool),
		lowOverrides:  make(map[string]bool),
	}
}

// OverrideHigh pins columns (by name, any table) to HIGH cardinality.
func (c *Classifier) OverrideHigh(columns []string) {
	for _, col := range columns {
		if col != "" {
			c.highOverrides[strings.ToLower(col)] = true
		}
	}
}

// OverrideLow pins columns (by name, any table) to LOW cardinality.
func (c *Classifier) OverrideLow(columns []string) {
	for _, col := range columns {
		if col != "" {
			c.lowOverrides[strings.ToLower(col)] = true
		}
	}
}

// Classify returns the cardinality level for a column. Lookups are
// case-insensitive. Empty table or column classifies as Medium: absence of
// evidence is not evidence of low selectivity.
func (c *Classifier) Classify(table, column string) Level {
	if table == "" || column == "" {
		return Medium
	}

	if c.highOverrides[strings.ToLower(column)] {
		return High
	}
	if c.lowOverrides[strings.ToLower(column)] {
		return Low
	}

	if c.IsPrimaryKey(table, column) {
		return High
	}
	if c.HasUniqueConstraint(table, column) {
		return High
	}
	// Boolean naming outranks a plain secondary index: a regular index on a
	// boolean-named column doesn't make it selective.
	if c.IsBooleanColumn(column) {
		return Low
	}
	// Secondary-indexed and unindexed columns both land here: a plain index
	// says nothing about selectivity.
	return Medium
}

// IsPrimaryKey reports whether the column participates in the table's
// PRIMARY KEY index.
func (c *Classifier) IsPrimaryKey(table, column string) bool {
	for _, idx := range c.snapshot.Indexes(table) {
		if idx.Kind == schema.PrimaryKey && idx.Covers(column) {
			return true
		}
	}
	return false
}

// HasUniqueConstraint reports whether the column is covered by a unique
// constraint or unique index, as sole column or as a member of a composite.
func (c *Classifier) HasUniqueConstraint(table, column string) bool {
	for _, idx := range c.snapshot.Indexes(table) {
		if idx.Kind != schema.UniqueConstraint && idx.Kind != schema.UniqueIndex {
			continue
		}
		if idx.Covers(column) {
			return true
		}
	}
	return false
}

// IsBooleanColumn reports whether the column name matches the boolean-naming
// heuristic (is_*, has_*, can_*, should_*, *_flag, *_enabled, and a few
// well-known bare names).
func (c *Classifier) IsBooleanColumn(column string) bool {
	name := strings.ToLower(column)
	for _, prefix := range booleanPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	for _, suffix := range booleanSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return booleanNames[name]
}
