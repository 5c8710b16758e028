package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"idxlint/internal/schema"
)

// LoadIndexes reads every index of a database from
// information_schema.STATISTICS into a schema snapshot. PRIMARY indexes map
// to PRIMARY_KEY; other unique indexes map to UNIQUE_INDEX
// (information_schema does not distinguish a unique constraint from a unique
// index, and the classifier treats both the same); the rest are plain
// indexes.
func LoadIndexes(db *sql.DB, database string) (*schema.Snapshot, error) {
	rows, err := db.Query(`
		SELECT
			TABLE_NAME,
			INDEX_NAME,
			COLUMN_NAME,
			NON_UNIQUE
		FROM information_schema.STATISTICS
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME, INDEX_NAME, SEQ_IN_INDEX
	`, database)
	if err != nil {
		return nil, fmt.Errorf("querying index statistics: %w", err)
	}
	defer rows.Close()

	type indexKey struct {
		table string
		index string
	}
	indexMap := make(map[indexKey]*schema.IndexInfo)
	tableOf := make(map[indexKey]string)
	var order []indexKey

	for rows.Next() {
		var table, name, col string
		var nonUnique bool
		if err := rows.Scan(&table, &name, &col, &nonUnique); err != nil {
			return nil, fmt.Errorf("scanning index row: %w", err)
		}

		key := indexKey{strings.ToLower(table), strings.ToLower(name)}
		if _, exists := indexMap[key]; !exists {
			kind := schema.SecondaryIndex
			switch {
			case strings.EqualFold(name, "PRIMARY"):
				kind = schema.PrimaryKey
			case !nonUnique:
				kind = schema.UniqueIndex
			}
			indexMap[key] = &schema.IndexInfo{Kind: kind, Name: name}
			tableOf[key] = table
			order = append(order, key)
		}
		indexMap[key].Columns = append(indexMap[key].Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading index rows: %w", err)
	}

	snap := schema.NewSnapshot()
	for _, key := range order {
		snap.Add(tableOf[key], *indexMap[key])
	}
	return snap, nil
}
