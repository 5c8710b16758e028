package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idxlint/internal/advisor"
	"idxlint/internal/analyzer"
	"idxlint/internal/cardinality"
	"idxlint/internal/schema"
)

func TestGatherStatements_Args(t *testing.T) {
	statements, err := gatherStatements(analyzeCmd, []string{
		"SELECT 1; SELECT 2",
		"UPDATE t SET a = 1 WHERE id = 2",
	})
	if err != nil {
		t.Fatalf("gatherStatements: %v", err)
	}
	if len(statements) != 3 {
		t.Errorf("got %d statements, want 3: %v", len(statements), statements)
	}
}

func TestGatherStatements_File(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "queries.sql")
	content := "SELECT * FROM users WHERE id = 1;\nDELETE FROM sessions WHERE expired = 1;\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing SQL file: %v", err)
	}

	if err := analyzeCmd.Flags().Set("file", path); err != nil {
		t.Fatal(err)
	}
	defer analyzeCmd.Flags().Set("file", "")

	statements, err := gatherStatements(analyzeCmd, nil)
	if err != nil {
		t.Fatalf("gatherStatements: %v", err)
	}
	if len(statements) != 2 {
		t.Errorf("got %d statements, want 2: %v", len(statements), statements)
	}
}

func TestGatherStatements_MissingFile(t *testing.T) {
	if err := analyzeCmd.Flags().Set("file", "/nonexistent/queries.sql"); err != nil {
		t.Fatal(err)
	}
	defer analyzeCmd.Flags().Set("file", "")

	if _, err := gatherStatements(analyzeCmd, nil); err == nil {
		t.Error("expected error for missing SQL file, got nil")
	}
}

func TestAnalyzeStatement(t *testing.T) {
	snap := schema.NewSnapshot()
	snap.Add("users", schema.IndexInfo{Kind: schema.PrimaryKey, Name: "PRIMARY", Columns: []string{"user_id"}})
	classifier := cardinality.NewClassifier(snap)
	session := advisor.NewSession(classifier)

	qr := analyzeStatement("SELECT * FROM users WHERE is_active = 1 AND user_id = 5", classifier, session, "")

	if qr.Error != "" {
		t.Fatalf("unexpected error: %s", qr.Error)
	}
	if len(qr.Conditions) != 2 {
		t.Fatalf("conditions = %d, want 2", len(qr.Conditions))
	}
	if qr.Issue == nil {
		t.Fatal("expected an ordering issue for a low-cardinality-first query")
	}
	if qr.Issue.RecommendedFirstColumn != "user_id" {
		t.Errorf("RecommendedFirstColumn = %q, want user_id", qr.Issue.RecommendedFirstColumn)
	}
}

func TestAnalyzeStatement_ParenthesizedOrStillAnalyzed(t *testing.T) {
	snap := schema.NewSnapshot()
	snap.Add("users", schema.IndexInfo{Kind: schema.PrimaryKey, Name: "PRIMARY", Columns: []string{"user_id"}})
	classifier := cardinality.NewClassifier(snap)
	session := advisor.NewSession(classifier)

	// The OR lives inside one parenthesized conjunct; the top-level chain is
	// all AND-connected, so reordering analysis still applies.
	sql := "SELECT * FROM users WHERE is_active = 1 AND (status = 'a' OR status = 'b') AND user_id = 5"
	qr := analyzeStatement(sql, classifier, session, "")

	if qr.Issue == nil {
		t.Fatal("expected an ordering issue despite the parenthesized OR")
	}
	if qr.Issue.Severity != analyzer.SeverityHigh {
		t.Errorf("Severity = %s, want HIGH", qr.Issue.Severity)
	}
	if qr.Issue.RecommendedFirstColumn != "user_id" {
		t.Errorf("RecommendedFirstColumn = %q, want user_id", qr.Issue.RecommendedFirstColumn)
	}
}

func TestAnalyzeStatement_ParseFailure(t *testing.T) {
	classifier := cardinality.NewClassifier(schema.NewSnapshot())
	session := advisor.NewSession(classifier)

	qr := analyzeStatement("SELEC broken", classifier, session, "")
	if qr.Error == "" {
		t.Error("expected parse error to be recorded on the query report")
	}
}

func TestAnalyzeStatement_UnsupportedType(t *testing.T) {
	classifier := cardinality.NewClassifier(schema.NewSnapshot())
	session := advisor.NewSession(classifier)

	qr := analyzeStatement("INSERT INTO users (id) VALUES (1)", classifier, session, "")
	if !strings.Contains(qr.Error, "unsupported statement type") {
		t.Errorf("error = %q, want unsupported-statement message", qr.Error)
	}
}

func TestAnalyzeStatement_RepositoryFallback(t *testing.T) {
	classifier := cardinality.NewClassifier(schema.NewSnapshot())
	session := advisor.NewSession(classifier)

	// Ambiguous unqualified column in a two-table query resolves to the
	// repository-derived fallback table.
	sql := "SELECT * FROM orders o JOIN users u ON o.user_id = u.id WHERE status = 'open'"
	qr := analyzeStatement(sql, classifier, session, "order")
	if len(qr.Conditions) != 1 {
		t.Fatalf("conditions = %d, want 1", len(qr.Conditions))
	}
	if qr.Conditions[0].TableName != "order" {
		t.Errorf("TableName = %q, want fallback 'order'", qr.Conditions[0].TableName)
	}
}

func TestLoadSnapshot_ChangelogOnly(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "changelog.xml")
	changelog := `<databaseChangeLog>
        <createIndex tableName="users" indexName="idx_users_status"><column name="status"/></createIndex>
    </databaseChangeLog>`
	if err := os.WriteFile(path, []byte(changelog), 0644); err != nil {
		t.Fatal(err)
	}

	if err := analyzeCmd.Flags().Set("changelog", path); err != nil {
		t.Fatal(err)
	}
	defer analyzeCmd.Flags().Set("changelog", "")

	snap, err := loadSnapshot(analyzeCmd)
	if err != nil {
		t.Fatalf("loadSnapshot: %v", err)
	}
	if len(snap.Indexes("users")) != 1 {
		t.Errorf("users indexes = %d, want 1", len(snap.Indexes("users")))
	}
}

func TestAnalyzeCommand_Structure(t *testing.T) {
	if analyzeCmd == nil {
		t.Fatal("analyzeCmd is nil")
	}
	for _, flag := range []string{"file", "changelog", "repository", "low-cardinality", "high-cardinality", "out", "author"} {
		if analyzeCmd.Flags().Lookup(flag) == nil {
			t.Errorf("missing flag %q", flag)
		}
	}
}
