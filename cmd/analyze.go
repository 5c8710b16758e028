package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"idxlint/internal/advisor"
	"idxlint/internal/analyzer"
	"idxlint/internal/cardinality"
	"idxlint/internal/changeset"
	"idxlint/internal/extractor"
	"idxlint/internal/mysql"
	"idxlint/internal/output"
	"idxlint/internal/parser"
	"idxlint/internal/schema"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [SQL statement ...]",
	Short: "Analyze queries for predicate order and missing indexes",
	Long: `Analyze one or more SELECT/UPDATE/DELETE statements and report:
  - WHERE predicates with their inferred cardinality (HIGH/MEDIUM/LOW)
  - whether the predicate order leads with the most selective column
  - a deduplicated set of index suggestions across all analyzed queries
  - Liquibase changesets for the surviving suggestions

Schema index metadata comes from --changelog (a Liquibase XML file) and/or a
live MySQL connection (-H/-d flags). With neither, classification falls back
to naming heuristics alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		statements, err := gatherStatements(cmd, args)
		if err != nil {
			return err
		}
		if len(statements) == 0 {
			return fmt.Errorf("no SQL to analyze: pass statements as arguments or via --file")
		}

		snapshot, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}

		classifier := cardinality.NewClassifier(snapshot)
		lowCols, _ := cmd.Flags().GetStringSlice("low-cardinality")
		highCols, _ := cmd.Flags().GetStringSlice("high-cardinality")
		classifier.OverrideLow(lowCols)
		classifier.OverrideHigh(highCols)

		repoName, _ := cmd.Flags().GetString("repository")
		fallbackTable := parser.TableNameFromRepository(repoName)

		session := advisor.NewSession(classifier)
		report := &output.Report{}

		for _, sqlText := range statements {
			report.Queries = append(report.Queries,
				analyzeStatement(sqlText, classifier, session, fallbackTable))
		}

		singles, multis, removed := session.Results()
		report.SingleColumn = singles
		report.MultiColumn = multis
		report.Removed = removed

		author, _ := cmd.Flags().GetString("author")
		renderer := changeset.NewRenderer(author)
		var fragments []string
		for _, s := range append(append([]advisor.Suggestion{}, singles...), multis...) {
			fragments = append(fragments, renderer.RenderCreate(s.Table, s.Columns))
		}
		if len(fragments) > 0 {
			report.Changelog = changeset.WrapChangelog(fragments)
		}

		if outPath, _ := cmd.Flags().GetString("out"); outPath != "" && report.Changelog != "" {
			if err := os.WriteFile(outPath, []byte(report.Changelog), 0o644); err != nil {
				return fmt.Errorf("writing migration file: %w", err)
			}
			logrus.Infof("migration changesets written to %s", outPath)
			report.Changelog = ""
		}

		output.NewRenderer(viper.GetString("format"), os.Stdout).Render(report)
		return nil
	},
}

// analyzeStatement runs the per-query pipeline. A parse failure skips the
// statement; it never aborts the batch.
func analyzeStatement(sqlText string, classifier *cardinality.Classifier, session *advisor.Session, fallbackTable string) output.QueryReport {
	qr := output.QueryReport{Query: sqlText}

	stmt, err := parser.Parse(sqlText)
	if err != nil {
		logrus.Warnf("skipping unparseable statement: %v", err)
		qr.Error = err.Error()
		return qr
	}
	if parser.TypeOf(stmt) == parser.Unknown {
		qr.Error = "unsupported statement type (only SELECT, UPDATE, DELETE are analyzed)"
		return qr
	}

	conds := extractor.ExtractWhereConditions(stmt)
	analyzer.ClassifyConditions(conds, classifier, fallbackTable)

	qr.WhereClause = extractor.ExtractWhereClauseText(stmt)
	qr.Conditions = conds
	qr.Joins = extractor.ExtractJoinConditions(stmt)
	qr.Issue = analyzer.Analyze(analyzer.Input{
		Query:      sqlText,
		Conditions: conds,
		HasOr:      extractor.HasOrConnector(stmt),
	})

	session.Collect(conds)
	logrus.Debugf("extracted %d where conditions, %d join conditions", len(conds), len(qr.Joins))
	return qr
}

// gatherStatements merges SQL from positional arguments and --file.
func gatherStatements(cmd *cobra.Command, args []string) ([]string, error) {
	var statements []string
	for _, arg := range args {
		split, err := parser.SplitStatements(arg)
		if err != nil {
			// Keep the raw text; Parse will report the real error per query.
			statements = append(statements, strings.TrimSpace(arg))
			continue
		}
		statements = append(statements, split...)
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading SQL file: %w", err)
		}
		split, err := parser.SplitStatements(string(data))
		if err != nil {
			return nil, fmt.Errorf("splitting SQL file: %w", err)
		}
		statements = append(statements, split...)
	}
	return statements, nil
}

// loadSnapshot builds the schema snapshot from the changelog file and/or a
// live connection, merged when both are given.
func loadSnapshot(cmd *cobra.Command) (*schema.Snapshot, error) {
	snapshot := schema.NewSnapshot()

	if path, _ := cmd.Flags().GetString("changelog"); path != "" {
		fromFile, err := schema.LoadChangelog(path)
		if err != nil {
			return nil, err
		}
		snapshot.Merge(fromFile)
		logrus.Debugf("changelog %s: index metadata for %d tables", path, fromFile.Tables())
	}

	host := viper.GetString("host")
	socket := viper.GetString("socket")
	database := viper.GetString("database")
	if host == "" && socket == "" {
		return snapshot, nil
	}
	if database == "" {
		return nil, fmt.Errorf("live metadata requires a database: use -d")
	}

	connCfg := mysql.ConnectionConfig{
		Host:     host,
		Port:     viper.GetInt("port"),
		User:     viper.GetString("user"),
		Password: viper.GetString("password"),
		Database: database,
		Socket:   socket,
		TLSMode:  viper.GetString("tls"),
		TLSCA:    viper.GetString("tls-ca"),
	}
	if connCfg.Password == "" {
		connCfg.Password = mysql.PromptPassword()
	}

	db, err := mysql.Connect(connCfg)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	defer db.Close()

	live, err := mysql.LoadIndexes(db, database)
	if err != nil {
		return nil, fmt.Errorf("loading index metadata: %w", err)
	}
	snapshot.Merge(live)
	logrus.Debugf("live schema: index metadata for %d tables", live.Tables())
	return snapshot, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("file", "", "File with semicolon-separated SQL statements")
	analyzeCmd.Flags().String("changelog", "", "Liquibase XML changelog to read index metadata from")
	analyzeCmd.Flags().String("repository", "", "Repository type name used to derive a fallback table name (e.g. UserAccountRepository)")
	analyzeCmd.Flags().StringSlice("low-cardinality", nil, "Column names to pin to LOW cardinality")
	analyzeCmd.Flags().StringSlice("high-cardinality", nil, "Column names to pin to HIGH cardinality")
	analyzeCmd.Flags().String("out", "", "Write generated changesets to this file instead of stdout")
	analyzeCmd.Flags().String("author", "idxlint", "Author attribute for generated changesets")
}
