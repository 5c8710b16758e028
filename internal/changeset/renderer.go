// Package changeset renders index create/drop actions as Liquibase changeSet
// fragments. Rendering is mechanical: each action gets an idempotency
// precondition, per-dialect non-locking statements, and a rollback that is
// the semantic inverse of the action. Fragments are concatenated into a
// migration file by the caller.
package changeset

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder tokens substituted for blank inputs so incomplete suggestions
// remain visible in generated output for manual completion. Downstream
// tooling matches on these literal strings.
const (
	TablePlaceholder  = "<TABLE_NAME>"
	ColumnPlaceholder = "<COLUMN_NAME>"
	IndexPlaceholder  = "<INDEX_NAME>"
)

// Renderer produces changeSet fragments with unique identifiers. Identifiers
// derive from a nanosecond timestamp plus a per-renderer sequence so repeated
// runs never collide.
type Renderer struct {
	Author string
	now    func() time.Time
	seq    int
}

// NewRenderer returns a renderer attributing changesets to author.
func NewRenderer(author string) *Renderer {
	if author == "" {
		author = "idxlint"
	}
	return &Renderer{Author: author, now: time.Now}
}

func (r *Renderer) nextID() string {
	r.seq++
	return fmt.Sprintf("%d-%d", r.now().UnixNano(), r.seq)
}

// IndexName builds the deterministic index name idx_<table>_<col1>_<col2>...
// with all parts sanitized.
func IndexName(table string, columns []string) string {
	parts := []string{"idx", sanitize(table)}
	for _, col := range columns {
		parts = append(parts, sanitize(col))
	}
	return collapse(strings.Join(parts, "_"))
}

// sanitize lowercases and maps every byte outside [a-z0-9_] to '_'.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// collapse squeezes runs of underscores and trims them from both ends.
func collapse(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// RenderCreate renders one changeSet that creates an index over the columns.
// Blank table or column names render as placeholder tokens instead of
// failing.
func (r *Renderer) RenderCreate(table string, columns []string) string {
	displayTable := table
	if strings.TrimSpace(displayTable) == "" {
		displayTable = TablePlaceholder
	}
	displayCols := make([]string, 0, len(columns))
	for _, col := range columns {
		if strings.TrimSpace(col) == "" {
			col = ColumnPlaceholder
		}
		displayCols = append(displayCols, col)
	}
	if len(displayCols) == 0 {
		displayCols = []string{ColumnPlaceholder}
	}

	// Name from the display list so a blank column shows up in the index
	// name too, keeping incomplete definitions visible.
	indexName := IndexName(displayTable, displayCols)
	if table == "" || len(columns) == 0 {
		indexName = IndexPlaceholder
	}
	colList := strings.Join(displayCols, ", ")

	var b strings.Builder
	fmt.Fprintf(&b, "    <changeSet id=%q author=%q>\n", r.nextID(), r.Author)
	b.WriteString("        <preConditions onFail=\"MARK_RAN\">\n")
	b.WriteString("            <not>\n")
	fmt.Fprintf(&b, "                <indexExists tableName=%q indexName=%q/>\n", displayTable, indexName)
	b.WriteString("            </not>\n")
	b.WriteString("        </preConditions>\n")
	fmt.Fprintf(&b, "        <sql dbms=\"postgresql\">CREATE INDEX CONCURRENTLY %s ON %s (%s);</sql>\n",
		indexName, displayTable, colList)
	fmt.Fprintf(&b, "        <sql dbms=\"oracle\">CREATE INDEX %s ON %s (%s) ONLINE;</sql>\n",
		indexName, displayTable, colList)
	fmt.Fprintf(&b, "        <sql dbms=\"mysql\">CREATE INDEX %s ON %s (%s) ALGORITHM=INPLACE LOCK=NONE;</sql>\n",
		indexName, displayTable, colList)
	b.WriteString("        <rollback>\n")
	fmt.Fprintf(&b, "            <dropIndex tableName=%q indexName=%q/>\n", displayTable, indexName)
	b.WriteString("        </rollback>\n")
	b.WriteString("    </changeSet>\n")
	return b.String()
}

// RenderDrop renders one changeSet that drops an index by name. The rollback
// recreates the index with placeholder table/columns since the original
// definition is not tracked here.
func (r *Renderer) RenderDrop(indexName string) string {
	if strings.TrimSpace(indexName) == "" {
		indexName = IndexPlaceholder
	}

	var b strings.Builder
	fmt.Fprintf(&b, "    <changeSet id=%q author=%q>\n", r.nextID(), r.Author)
	b.WriteString("        <preConditions onFail=\"MARK_RAN\">\n")
	fmt.Fprintf(&b, "            <indexExists indexName=%q/>\n", indexName)
	b.WriteString("        </preConditions>\n")
	fmt.Fprintf(&b, "        <dropIndex indexName=%q/>\n", indexName)
	b.WriteString("        <rollback>\n")
	fmt.Fprintf(&b, "            <createIndex tableName=%q indexName=%q>\n", TablePlaceholder, indexName)
	fmt.Fprintf(&b, "                <column name=%q/>\n", ColumnPlaceholder)
	b.WriteString("            </createIndex>\n")
	b.WriteString("        </rollback>\n")
	b.WriteString("    </changeSet>\n")
	return b.String()
}

// WrapChangelog wraps concatenated fragments in a databaseChangeLog envelope.
func WrapChangelog(fragments []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<databaseChangeLog xmlns="http://www.liquibase.org/xml/ns/dbchangelog">` + "\n")
	for _, f := range fragments {
		b.WriteString(f)
	}
	b.WriteString("</databaseChangeLog>\n")
	return b.String()
}
