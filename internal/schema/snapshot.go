package schema

import "strings"

// IndexKind classifies an index declared in the schema.
type IndexKind string

const (
	PrimaryKey       IndexKind = "PRIMARY_KEY"
	UniqueConstraint IndexKind = "UNIQUE_CONSTRAINT"
	UniqueIndex      IndexKind = "UNIQUE_INDEX"
	SecondaryIndex   IndexKind = "INDEX"
)

// IndexInfo describes a single index on a table.
type IndexInfo struct {
	Kind    IndexKind
	Name    string
	Columns []string
}

// Covers reports whether the index contains the column at any position.
func (i IndexInfo) Covers(column string) bool {
	for _, c := range i.Columns {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

// Snapshot is an in-memory view of the schema's index metadata, keyed per
// lowercased table name. It is built once by a loader (changelog file or
// live information_schema) and read by the classifier.
type Snapshot struct {
	tables map[string][]IndexInfo
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{tables: make(map[string][]IndexInfo)}
}

// Add appends an index to a table's set. Empty table names and indexes
// without columns are ignored.
func (s *Snapshot) Add(table string, idx IndexInfo) {
	if table == "" || len(idx.Columns) == 0 {
		return
	}
	key := strings.ToLower(table)
	s.tables[key] = append(s.tables[key], idx)
}

// Indexes returns the index set for a table (case-insensitive), or nil.
func (s *Snapshot) Indexes(table string) []IndexInfo {
	return s.tables[strings.ToLower(table)]
}

// Tables returns the number of tables with at least one index.
func (s *Snapshot) Tables() int {
	return len(s.tables)
}

// Merge copies every entry of other into s.
func (s *Snapshot) Merge(other *Snapshot) {
	if other == nil {
		return
	}
	for table, indexes := range other.tables {
		s.tables[table] = append(s.tables[table], indexes...)
	}
}
