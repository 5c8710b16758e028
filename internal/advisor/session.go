// Package advisor accumulates index suggestions across an analysis run and
// removes suggestions made redundant by other suggestions. One Session per
// run; nothing is shared process-wide, so unrelated batches never leak into
// each other.
package advisor

import (
	"sort"
	"strings"

	"idxlint/internal/cardinality"
	"idxlint/internal/extractor"
)

// KeySet is an insertion-ordered set of suggestion keys. Identity is
// case-insensitive; the first-seen casing is what Keys returns.
type KeySet struct {
	keys  []string
	index map[string]int // lowercased key -> position in keys
}

// NewKeySet returns an empty set.
func NewKeySet() *KeySet {
	return &KeySet{index: make(map[string]int)}
}

// Add inserts a key, reporting whether it was new.
func (k *KeySet) Add(key string) bool {
	lower := strings.ToLower(key)
	if _, ok := k.index[lower]; ok {
		return false
	}
	k.index[lower] = len(k.keys)
	k.keys = append(k.keys, key)
	return true
}

// Contains reports case-insensitive membership.
func (k *KeySet) Contains(key string) bool {
	_, ok := k.index[strings.ToLower(key)]
	return ok
}

// Keys returns the members in insertion order.
func (k *KeySet) Keys() []string {
	out := make([]string, len(k.keys))
	copy(out, k.keys)
	return out
}

// Len returns the number of members.
func (k *KeySet) Len() int {
	return len(k.keys)
}

// Session accumulates per-table index suggestions for one analysis run.
type Session struct {
	classifier *cardinality.Classifier
	single     *KeySet // table|column
	multi      *KeySet // table|col1,col2,...  (descending-cardinality order)
}

// NewSession builds a session over the run's classifier.
func NewSession(cls *cardinality.Classifier) *Session {
	return &Session{
		classifier: cls,
		single:     NewKeySet(),
		multi:      NewKeySet(),
	}
}

// Reset discards all accumulated suggestions. Independent runs sharing a
// Session value must call it between batches.
func (s *Session) Reset() {
	s.single = NewKeySet()
	s.multi = NewKeySet()
}

// SingleColumnSuggestions returns the single-column keys in insertion order.
func (s *Session) SingleColumnSuggestions() []string {
	return s.single.Keys()
}

// MultiColumnSuggestions returns the multi-column keys in insertion order.
func (s *Session) MultiColumnSuggestions() []string {
	return s.multi.Keys()
}

// Collect folds one query's classified conditions into the suggestion sets.
// Every condition is filtered first: columns served by a primary key or
// unique constraint are skipped, as is any column that already leads a
// suggested composite for its table. The survivors are grouped strictly per
// table (a JOIN query never produces a cross-table composite); within a
// table's group, columns follow the recommended descending-cardinality order.
func (s *Session) Collect(conds []extractor.WhereCondition) {
	groups := make(map[string][]extractor.WhereCondition)
	var tableOrder []string

	for _, cond := range conds {
		if cond.TableName == "" || cond.ColumnName == "" {
			continue
		}
		if cond.Cardinality != cardinality.Medium && cond.Cardinality != cardinality.Low {
			continue
		}
		if s.classifier.IsPrimaryKey(cond.TableName, cond.ColumnName) ||
			s.classifier.HasUniqueConstraint(cond.TableName, cond.ColumnName) {
			continue
		}
		if s.IsCoveredByComposite(cond.TableName, cond.ColumnName) {
			continue
		}
		key := strings.ToLower(cond.TableName)
		if _, seen := groups[key]; !seen {
			tableOrder = append(tableOrder, key)
		}
		if containsColumn(groups[key], cond.ColumnName) {
			continue
		}
		groups[key] = append(groups[key], cond)
	}

	for _, table := range tableOrder {
		group := groups[table]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Cardinality != group[j].Cardinality {
				return group[i].Cardinality < group[j].Cardinality
			}
			return group[i].Position < group[j].Position
		})

		display := group[0].TableName
		if len(group) == 1 {
			s.single.Add(display + "|" + group[0].ColumnName)
			continue
		}

		cols := make([]string, len(group))
		for i, cond := range group {
			cols[i] = cond.ColumnName
		}
		s.multi.Add(display + "|" + strings.Join(cols, ","))
	}
}

// IsCoveredByComposite reports whether any multi-column suggestion for the
// table has the column as its first listed column. Non-leading membership
// does not count: a composite index can't serve a seek on a trailing column.
func (s *Session) IsCoveredByComposite(table, column string) bool {
	for _, key := range s.multi.Keys() {
		keyTable, cols, ok := parseKey(key)
		if !ok {
			continue
		}
		if strings.EqualFold(keyTable, table) && strings.EqualFold(cols[0], column) {
			return true
		}
	}
	return false
}

// RemoveRedundantMultiColumnIndexes marks multi-column keys whose column list
// is a strict order-preserving prefix of another key for the same table.
// A full pairwise scan marks every prefix in a chain (both A and A,B are
// compared against A,B,C), so one pass collapses chains. Malformed keys are
// skipped.
func (s *Session) RemoveRedundantMultiColumnIndexes(toRemove *KeySet) {
	keys := s.multi.Keys()
	for i, shorter := range keys {
		sTable, sCols, ok := parseKey(shorter)
		if !ok {
			continue
		}
		for j, longer := range keys {
			if i == j {
				continue
			}
			lTable, lCols, ok := parseKey(longer)
			if !ok {
				continue
			}
			if !strings.EqualFold(sTable, lTable) {
				continue
			}
			if len(sCols) < len(lCols) && isColumnPrefix(sCols, lCols) {
				toRemove.Add(shorter)
				break
			}
		}
	}
}

// RemoveRedundantSingleColumnIndexes marks single-column keys whose column
// leads a multi-column suggestion for the same table.
func (s *Session) RemoveRedundantSingleColumnIndexes(toRemove *KeySet) {
	for _, key := range s.single.Keys() {
		table, cols, ok := parseKey(key)
		if !ok {
			continue
		}
		if s.IsCoveredByComposite(table, cols[0]) {
			toRemove.Add(key)
		}
	}
}

// Suggestion is one surviving index proposal.
type Suggestion struct {
	Table   string
	Columns []string
	Key     string
}

// Results runs both redundancy passes and returns the surviving suggestions
// in insertion order, plus the keys that were removed.
func (s *Session) Results() (singles, multis []Suggestion, removed []string) {
	toRemove := NewKeySet()
	s.RemoveRedundantMultiColumnIndexes(toRemove)
	s.RemoveRedundantSingleColumnIndexes(toRemove)

	for _, key := range s.single.Keys() {
		if toRemove.Contains(key) {
			continue
		}
		if sug, ok := suggestionFromKey(key); ok {
			singles = append(singles, sug)
		}
	}
	for _, key := range s.multi.Keys() {
		if toRemove.Contains(key) {
			continue
		}
		if sug, ok := suggestionFromKey(key); ok {
			multis = append(multis, sug)
		}
	}
	return singles, multis, toRemove.Keys()
}

func suggestionFromKey(key string) (Suggestion, bool) {
	table, cols, ok := parseKey(key)
	if !ok {
		return Suggestion{}, false
	}
	return Suggestion{Table: table, Columns: cols, Key: key}, true
}

// parseKey splits "table|col1,col2". Keys without a separator, with an empty
// table, or with any empty column segment are malformed.
func parseKey(key string) (string, []string, bool) {
	table, colPart, found := strings.Cut(key, "|")
	if !found || table == "" || colPart == "" {
		return "", nil, false
	}
	cols := strings.Split(colPart, ",")
	for _, col := range cols {
		if strings.TrimSpace(col) == "" {
			return "", nil, false
		}
	}
	return table, cols, true
}

func isColumnPrefix(shorter, longer []string) bool {
	for i, col := range shorter {
		if !strings.EqualFold(col, longer[i]) {
			return false
		}
	}
	return true
}

func containsColumn(conds []extractor.WhereCondition, column string) bool {
	for _, c := range conds {
		if strings.EqualFold(c.ColumnName, column) {
			return true
		}
	}
	return false
}
