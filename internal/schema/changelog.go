package schema

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Liquibase-style changelog elements we extract index metadata from.
// Anything else in the changelog (data changes, SQL blocks, rollbacks) is
// irrelevant to cardinality classification and is skipped.
type changelogColumn struct {
	Name        string `xml:"name,attr"`
	Constraints *struct {
		PrimaryKey     string `xml:"primaryKey,attr"`
		Unique         string `xml:"unique,attr"`
		PrimaryKeyName string `xml:"primaryKeyName,attr"`
		UniqueName     string `xml:"uniqueConstraintName,attr"`
	} `xml:"constraints"`
}

type createTableElem struct {
	TableName string            `xml:"tableName,attr"`
	Columns   []changelogColumn `xml:"column"`
}

type createIndexElem struct {
	TableName string            `xml:"tableName,attr"`
	IndexName string            `xml:"indexName,attr"`
	Unique    string            `xml:"unique,attr"`
	Columns   []changelogColumn `xml:"column"`
}

type addPrimaryKeyElem struct {
	TableName      string `xml:"tableName,attr"`
	ColumnNames    string `xml:"columnNames,attr"`
	ConstraintName string `xml:"constraintName,attr"`
}

type addUniqueConstraintElem struct {
	TableName      string `xml:"tableName,attr"`
	ColumnNames    string `xml:"columnNames,attr"`
	ConstraintName string `xml:"constraintName,attr"`
}

type dropIndexElem struct {
	TableName string `xml:"tableName,attr"`
	IndexName string `xml:"indexName,attr"`
}

// LoadChangelog reads a Liquibase XML changelog and builds a Snapshot of the
// index metadata it declares.
func LoadChangelog(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog: %w", err)
	}
	defer f.Close()
	return ParseChangelog(f)
}

// ParseChangelog decodes changelog XML from r. Elements are matched by local
// name so the Liquibase namespace (or its absence) doesn't matter.
func ParseChangelog(r io.Reader) (*Snapshot, error) {
	snap := NewSnapshot()
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding changelog: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "createTable":
			var ct createTableElem
			if err := dec.DecodeElement(&ct, &start); err != nil {
				return nil, fmt.Errorf("decoding createTable: %w", err)
			}
			applyCreateTable(snap, ct)

		case "createIndex":
			var ci createIndexElem
			if err := dec.DecodeElement(&ci, &start); err != nil {
				return nil, fmt.Errorf("decoding createIndex: %w", err)
			}
			applyCreateIndex(snap, ci)

		case "addPrimaryKey":
			var pk addPrimaryKeyElem
			if err := dec.DecodeElement(&pk, &start); err != nil {
				return nil, fmt.Errorf("decoding addPrimaryKey: %w", err)
			}
			snap.Add(pk.TableName, IndexInfo{
				Kind:    PrimaryKey,
				Name:    defaultName(pk.ConstraintName, "PRIMARY"),
				Columns: splitColumnNames(pk.ColumnNames),
			})

		case "addUniqueConstraint":
			var uq addUniqueConstraintElem
			if err := dec.DecodeElement(&uq, &start); err != nil {
				return nil, fmt.Errorf("decoding addUniqueConstraint: %w", err)
			}
			snap.Add(uq.TableName, IndexInfo{
				Kind:    UniqueConstraint,
				Name:    uq.ConstraintName,
				Columns: splitColumnNames(uq.ColumnNames),
			})

		case "dropIndex":
			var di dropIndexElem
			if err := dec.DecodeElement(&di, &start); err != nil {
				return nil, fmt.Errorf("decoding dropIndex: %w", err)
			}
			applyDropIndex(snap, di)
		}
	}

	return snap, nil
}

func applyCreateTable(snap *Snapshot, ct createTableElem) {
	for _, col := range ct.Columns {
		if col.Constraints == nil || col.Name == "" {
			continue
		}
		if isTrue(col.Constraints.PrimaryKey) {
			snap.Add(ct.TableName, IndexInfo{
				Kind:    PrimaryKey,
				Name:    defaultName(col.Constraints.PrimaryKeyName, "PRIMARY"),
				Columns: []string{col.Name},
			})
		}
		if isTrue(col.Constraints.Unique) {
			snap.Add(ct.TableName, IndexInfo{
				Kind:    UniqueConstraint,
				Name:    col.Constraints.UniqueName,
				Columns: []string{col.Name},
			})
		}
	}
}

func applyCreateIndex(snap *Snapshot, ci createIndexElem) {
	var cols []string
	for _, col := range ci.Columns {
		if col.Name != "" {
			cols = append(cols, col.Name)
		}
	}
	kind := SecondaryIndex
	if isTrue(ci.Unique) {
		kind = UniqueIndex
	}
	snap.Add(ci.TableName, IndexInfo{Kind: kind, Name: ci.IndexName, Columns: cols})
}

func applyDropIndex(snap *Snapshot, di dropIndexElem) {
	if di.TableName == "" || di.IndexName == "" {
		return
	}
	key := strings.ToLower(di.TableName)
	kept := snap.tables[key][:0]
	for _, idx := range snap.tables[key] {
		if !strings.EqualFold(idx.Name, di.IndexName) {
			kept = append(kept, idx)
		}
	}
	snap.tables[key] = kept
}

// splitColumnNames splits a Liquibase columnNames attribute ("a, b,c").
func splitColumnNames(names string) []string {
	var cols []string
	for _, part := range strings.Split(names, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cols = append(cols, trimmed)
		}
	}
	return cols
}

func isTrue(attr string) bool {
	return strings.EqualFold(attr, "true")
}

func defaultName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
