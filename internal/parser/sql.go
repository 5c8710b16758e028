package parser

import (
	"fmt"
	"strings"
	"sync"

	"vitess.io/vitess/go/vt/sqlparser"
)

// StatementType classifies the SQL statement for analysis purposes.
type StatementType string

const (
	Select  StatementType = "SELECT"
	Update  StatementType = "UPDATE"
	Delete  StatementType = "DELETE"
	Unknown StatementType = "UNKNOWN"
)

var (
	parserOnce      sync.Once
	globalParser    *sqlparser.Parser
	globalParserErr error
)

func getParser() (*sqlparser.Parser, error) {
	parserOnce.Do(func() {
		globalParser, globalParserErr = sqlparser.New(sqlparser.Options{})
	})
	return globalParser, globalParserErr
}

// Parse parses a single SQL statement into the vitess AST.
func Parse(sql string) (sqlparser.Statement, error) {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimRight(sql, ";")

	p, err := getParser()
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}

	stmt, err := p.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parsing SQL: %w", err)
	}
	return stmt, nil
}

// SplitStatements splits a blob of semicolon-separated SQL into individual
// statements, respecting quoting.
func SplitStatements(blob string) ([]string, error) {
	p, err := getParser()
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}
	pieces, err := p.SplitStatementToPieces(blob)
	if err != nil {
		return nil, fmt.Errorf("splitting statements: %w", err)
	}
	var out []string
	for _, piece := range pieces {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// TypeOf classifies a parsed statement. Anything that is not a SELECT
// (including unions of selects), UPDATE, or DELETE is Unknown.
func TypeOf(stmt sqlparser.Statement) StatementType {
	switch stmt.(type) {
	case *sqlparser.Select, *sqlparser.Union:
		return Select
	case *sqlparser.Update:
		return Update
	case *sqlparser.Delete:
		return Delete
	default:
		return Unknown
	}
}

// repositorySuffixes are type-name suffixes stripped when deriving a table
// name from a repository-like class name.
var repositorySuffixes = []string{"Repository", "Repo", "Dao", "DAO", "Mapper", "Store"}

// TableNameFromRepository derives a table name from a repository-like type
// name when a statement's table reference cannot be resolved: strip a known
// suffix, then convert CamelCase to snake_case. "UserAccountRepository"
// becomes "user_account". Never fails; returns "" only for empty input.
func TableNameFromRepository(typeName string) string {
	name := typeName
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	for _, suffix := range repositorySuffixes {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	return camelToSnake(name)
}

func camelToSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			// Start a new word at an upper rune unless it continues an
			// acronym run (previous rune is also upper and the next one,
			// if any, is upper too).
			if i > 0 {
				prevUpper := runes[i-1] >= 'A' && runes[i-1] <= 'Z'
				nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				if !prevUpper || nextLower {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
