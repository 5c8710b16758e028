// Package extractor pulls structured filter predicates out of a parsed SQL
// statement. WHERE-clause filters and JOIN-ON predicates are extracted by
// separate entry points and never mixed: reordering analysis only applies to
// WHERE filters, while JOIN-ON pairs matter for composite-index grouping.
package extractor

import (
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"

	"idxlint/internal/cardinality"
)

// WhereCondition is one leaf filter predicate from a WHERE clause.
// TableName is always a resolved table name, never an alias; it is empty only
// when the statement references multiple tables and the column is unqualified,
// in which case the caller substitutes its own fallback.
type WhereCondition struct {
	TableName   string
	ColumnName  string
	Operator    string
	Cardinality cardinality.Level
	Position    int
	// Param is an opaque back-reference to whatever supplies the predicate's
	// value (a bind marker, a method parameter). Owned by the caller.
	Param any
}

// JoinCondition is one column-to-column predicate from a JOIN ... ON clause.
type JoinCondition struct {
	LeftTable   string
	LeftColumn  string
	RightTable  string
	RightColumn string
	Operator    string
}

// tableContext resolves column qualifiers for one statement branch.
type tableContext struct {
	aliases map[string]string // lowercased alias or table name -> display table name
	primary string            // first table in FROM order
	count   int
}

// ExtractWhereConditions walks every branch of the statement (including all
// UNION branches) and returns the leaf WHERE predicates in declaration order.
// Positions restart at 0 per branch. JOIN-ON predicates are never included.
// Unsupported statement shapes yield an empty slice, never an error.
func ExtractWhereConditions(stmt sqlparser.Statement) []WhereCondition {
	var conds []WhereCondition
	switch s := stmt.(type) {
	case *sqlparser.Select:
		ctx := buildTableContext(s.From)
		conds = appendWhereConditions(conds, s.Where, ctx)
	case *sqlparser.Union:
		conds = append(conds, ExtractWhereConditions(s.Left)...)
		conds = append(conds, ExtractWhereConditions(s.Right)...)
	case *sqlparser.Update:
		ctx := buildTableContext(s.TableExprs)
		conds = appendWhereConditions(conds, s.Where, ctx)
	case *sqlparser.Delete:
		ctx := buildTableContext(s.TableExprs)
		conds = appendWhereConditions(conds, s.Where, ctx)
	}
	return conds
}

// ExtractJoinConditions returns the column-to-column predicates of every
// JOIN ... ON clause in the statement, across all UNION branches.
func ExtractJoinConditions(stmt sqlparser.Statement) []JoinCondition {
	switch s := stmt.(type) {
	case *sqlparser.Select:
		return joinConditionsFromTableExprs(s.From)
	case *sqlparser.Union:
		joins := ExtractJoinConditions(s.Left)
		return append(joins, ExtractJoinConditions(s.Right)...)
	case *sqlparser.Update:
		return joinConditionsFromTableExprs(s.TableExprs)
	case *sqlparser.Delete:
		return joinConditionsFromTableExprs(s.TableExprs)
	}
	return nil
}

// ExtractWhereClauseText returns the textual WHERE clause of the left-most
// branch, for display. Analysis always goes through ExtractWhereConditions.
func ExtractWhereClauseText(stmt sqlparser.Statement) string {
	switch s := stmt.(type) {
	case *sqlparser.Select:
		if s.Where != nil {
			return sqlparser.String(s.Where.Expr)
		}
	case *sqlparser.Union:
		return ExtractWhereClauseText(s.Left)
	case *sqlparser.Update:
		if s.Where != nil {
			return sqlparser.String(s.Where.Expr)
		}
	case *sqlparser.Delete:
		if s.Where != nil {
			return sqlparser.String(s.Where.Expr)
		}
	}
	return ""
}

// HasOrConnector reports whether the statement's top-level WHERE conditions
// are OR-connected. OR binds looser than AND, so a top-level OR is always the
// root of the WHERE expression; an OR inside a parenthesized conjunct of an
// AND chain is one opaque condition, and subquery-internal predicates never
// count.
func HasOrConnector(stmt sqlparser.Statement) bool {
	switch s := stmt.(type) {
	case *sqlparser.Select:
		return whereIsOr(s.Where)
	case *sqlparser.Union:
		return HasOrConnector(s.Left) || HasOrConnector(s.Right)
	case *sqlparser.Update:
		return whereIsOr(s.Where)
	case *sqlparser.Delete:
		return whereIsOr(s.Where)
	}
	return false
}

func whereIsOr(where *sqlparser.Where) bool {
	if where == nil {
		return false
	}
	_, ok := where.Expr.(*sqlparser.OrExpr)
	return ok
}

func appendWhereConditions(conds []WhereCondition, where *sqlparser.Where, ctx tableContext) []WhereCondition {
	if where == nil {
		return conds
	}
	pos := 0 // positions restart per branch
	return walkWhereExpr(conds, where.Expr, ctx, &pos)
}

func walkWhereExpr(conds []WhereCondition, expr sqlparser.Expr, ctx tableContext, pos *int) []WhereCondition {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		conds = walkWhereExpr(conds, e.Left, ctx, pos)
		return walkWhereExpr(conds, e.Right, ctx, pos)

	case *sqlparser.OrExpr:
		conds = walkWhereExpr(conds, e.Left, ctx, pos)
		return walkWhereExpr(conds, e.Right, ctx, pos)

	case *sqlparser.ComparisonExpr:
		return appendComparison(conds, e, ctx, pos)

	case *sqlparser.BetweenExpr:
		if col, ok := e.Left.(*sqlparser.ColName); ok {
			table, column := resolveColumn(col, ctx)
			conds = append(conds, WhereCondition{
				TableName:  table,
				ColumnName: column,
				Operator:   "BETWEEN",
				Position:   *pos,
			})
			*pos++
		}
		return conds

	case *sqlparser.IsExpr:
		col, ok := e.Left.(*sqlparser.ColName)
		if !ok {
			return conds
		}
		var op string
		switch e.Right {
		case sqlparser.IsNullOp:
			op = "IS NULL"
		case sqlparser.IsNotNullOp:
			op = "IS NOT NULL"
		default:
			return conds
		}
		table, column := resolveColumn(col, ctx)
		conds = append(conds, WhereCondition{
			TableName:  table,
			ColumnName: column,
			Operator:   op,
			Position:   *pos,
		})
		*pos++
		return conds
	}

	// Unsupported leaf shape: skip it and keep processing siblings.
	return conds
}

// comparisonOperators maps vitess comparison operators to the canonical
// operator text carried on conditions.
var comparisonOperators = map[sqlparser.ComparisonExprOperator]string{
	sqlparser.EqualOp:         "=",
	sqlparser.NullSafeEqualOp: "=",
	sqlparser.LessThanOp:      "<",
	sqlparser.GreaterThanOp:   ">",
	sqlparser.LessEqualOp:     "<=",
	sqlparser.GreaterEqualOp:  ">=",
	sqlparser.NotEqualOp:      "<>",
	sqlparser.InOp:            "IN",
	sqlparser.NotInOp:         "NOT IN",
	sqlparser.LikeOp:          "LIKE",
	sqlparser.NotLikeOp:       "NOT LIKE",
}

func appendComparison(conds []WhereCondition, e *sqlparser.ComparisonExpr, ctx tableContext, pos *int) []WhereCondition {
	op, ok := comparisonOperators[e.Operator]
	if !ok {
		return conds
	}

	// IN (SELECT ...) yields one condition for the outer column; the
	// subquery's own WHERE is invisible to the outer extraction.
	col, colOK := e.Left.(*sqlparser.ColName)
	if !colOK {
		// Flipped comparison (? = col): take the right-hand column instead.
		if rcol, rok := e.Right.(*sqlparser.ColName); rok {
			col, colOK = rcol, true
		}
	}
	if !colOK {
		return conds
	}

	table, column := resolveColumn(col, ctx)
	conds = append(conds, WhereCondition{
		TableName:  table,
		ColumnName: column,
		Operator:   op,
		Position:   *pos,
	})
	*pos++
	return conds
}

// buildTableContext maps aliases and table names to resolved table names for
// one statement branch. Derived tables are unwrapped to their inner select's
// primary table when they wrap a single table.
func buildTableContext(exprs sqlparser.TableExprs) tableContext {
	ctx := tableContext{aliases: make(map[string]string)}
	for _, expr := range exprs {
		collectTableExpr(expr, &ctx)
	}
	return ctx
}

func collectTableExpr(expr sqlparser.TableExpr, ctx *tableContext) {
	switch t := expr.(type) {
	case *sqlparser.AliasedTableExpr:
		switch inner := t.Expr.(type) {
		case sqlparser.TableName:
			name := inner.Name.String()
			registerTable(ctx, name, t.As.String())
		case *sqlparser.DerivedTable:
			// Transparent unwrap: a derived table over a single base table
			// resolves its alias to that base table.
			if base := singleTableOf(inner.Select); base != "" {
				registerTable(ctx, base, t.As.String())
			}
		}
	case *sqlparser.JoinTableExpr:
		collectTableExpr(t.LeftExpr, ctx)
		collectTableExpr(t.RightExpr, ctx)
	case *sqlparser.ParenTableExpr:
		for _, inner := range t.Exprs {
			collectTableExpr(inner, ctx)
		}
	}
}

func registerTable(ctx *tableContext, table, alias string) {
	if table == "" {
		return
	}
	ctx.count++
	if ctx.primary == "" {
		ctx.primary = table
	}
	ctx.aliases[strings.ToLower(table)] = table
	if alias != "" {
		ctx.aliases[strings.ToLower(alias)] = table
	}
}

// singleTableOf returns the only base table of a select, or "" when the
// select references zero or several tables.
func singleTableOf(stmt sqlparser.SelectStatement) string {
	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return ""
	}
	ctx := buildTableContext(sel.From)
	if ctx.count != 1 {
		return ""
	}
	return ctx.primary
}

// resolveColumn maps a column reference to (table, column). A qualified
// column resolves through the alias map; an unqualified column resolves to
// the branch's primary table only when the branch is single-table.
func resolveColumn(col *sqlparser.ColName, ctx tableContext) (string, string) {
	column := col.Name.String()
	qualifier := col.Qualifier.Name.String()
	if qualifier != "" {
		if table, ok := ctx.aliases[strings.ToLower(qualifier)]; ok {
			return table, column
		}
		return qualifier, column
	}
	if ctx.count == 1 {
		return ctx.primary, column
	}
	// Ambiguous: multiple tables and no qualifier. Left for the caller's
	// fallback naming.
	return "", column
}

func joinConditionsFromTableExprs(exprs sqlparser.TableExprs) []JoinCondition {
	ctx := buildTableContext(exprs)
	var joins []JoinCondition
	for _, expr := range exprs {
		joins = collectJoinConditions(joins, expr, ctx)
	}
	return joins
}

func collectJoinConditions(joins []JoinCondition, expr sqlparser.TableExpr, ctx tableContext) []JoinCondition {
	join, ok := expr.(*sqlparser.JoinTableExpr)
	if !ok {
		return joins
	}
	joins = collectJoinConditions(joins, join.LeftExpr, ctx)
	joins = collectJoinConditions(joins, join.RightExpr, ctx)
	if join.Condition == nil || join.Condition.On == nil {
		return joins
	}
	return appendOnPredicates(joins, join.Condition.On, ctx)
}

func appendOnPredicates(joins []JoinCondition, expr sqlparser.Expr, ctx tableContext) []JoinCondition {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		joins = appendOnPredicates(joins, e.Left, ctx)
		return appendOnPredicates(joins, e.Right, ctx)
	case *sqlparser.OrExpr:
		joins = appendOnPredicates(joins, e.Left, ctx)
		return appendOnPredicates(joins, e.Right, ctx)
	case *sqlparser.ComparisonExpr:
		op, ok := comparisonOperators[e.Operator]
		if !ok {
			return joins
		}
		left, lok := e.Left.(*sqlparser.ColName)
		right, rok := e.Right.(*sqlparser.ColName)
		if !lok || !rok {
			// ON-clause filters against literals are neither join pairs nor
			// WHERE filters; they are not extracted at all.
			return joins
		}
		lt, lc := resolveColumn(left, ctx)
		rt, rc := resolveColumn(right, ctx)
		return append(joins, JoinCondition{
			LeftTable:   lt,
			LeftColumn:  lc,
			RightTable:  rt,
			RightColumn: rc,
			Operator:    op,
		})
	}
	return joins
}
