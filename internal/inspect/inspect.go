// Package inspect issues read-only queries against MySQL's system catalog
// to enumerate databases, tables, and columns, and to compute per-column
// summary statistics.
//
// All catalog lookups bind schema/table/column names as query parameters.
// Identifiers only ever reach query text after they have been confirmed to
// exist in information_schema, and even then backtick-quoted.
package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/koustreak/sqlgate/internal/errs"
	"github.com/koustreak/sqlgate/internal/jsonutil"
)

// Querier is the query-execution capability inspect needs. *mysql.Conn
// satisfies it; tests substitute a mock.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Schema returns database → table → column → comment, nested in catalog
// order. Columns follow ordinal position; columns without a comment map to
// the empty string; databases whose tables are not visible to the current
// credentials come back as empty objects.
//
// A nil dbNames enumerates every database visible to the connection.
func Schema(ctx context.Context, q Querier, dbNames []string) (*jsonutil.Object, error) {
	if dbNames == nil {
		var err error
		dbNames, err = listDatabases(ctx, q)
		if err != nil {
			return nil, err
		}
	}

	result := jsonutil.NewObject()
	for _, dbName := range dbNames {
		tables, err := listTables(ctx, q, dbName)
		if err != nil {
			return nil, err
		}

		dbObj := jsonutil.NewObject()
		for _, table := range tables {
			cols, err := listColumns(ctx, q, dbName, table)
			if err != nil {
				return nil, err
			}
			dbObj.Set(table, cols)
		}
		result.Set(dbName, dbObj)
	}
	return result, nil
}

func listDatabases(ctx context.Context, q Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, "SHOW DATABASES")
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to list databases", err)
	}
	return scanStrings(rows, "failed to scan database name")
}

func listTables(ctx context.Context, q Querier, dbName string) ([]string, error) {
	const query = `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME`

	rows, err := q.QueryContext(ctx, query, dbName)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to list tables", err)
	}
	return scanStrings(rows, "failed to scan table name")
}

// listColumns returns column → comment in ordinal position order.
func listColumns(ctx context.Context, q Querier, dbName, table string) (*jsonutil.Object, error) {
	const query = `
		SELECT COLUMN_NAME, COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`

	rows, err := q.QueryContext(ctx, query, dbName, table)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to list columns", err)
	}
	defer rows.Close()

	cols := jsonutil.NewObject()
	for rows.Next() {
		var name, comment string
		if err := rows.Scan(&name, &comment); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan column info", err)
		}
		cols.Set(name, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "error iterating columns", err)
	}
	return cols, nil
}

// scanStrings drains a single-column result set into a string slice and
// closes it.
func scanStrings(rows *sql.Rows, scanMsg string) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, scanMsg, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "error iterating rows", err)
	}
	return out, nil
}

// TableComment carries the table-level comment.
type TableComment struct {
	Comment string `json:"comment"`
}

// ColumnStats is the summary for one column. Min, max, and mean are NULL
// for non-numeric columns; the database decides, not the gateway.
type ColumnStats struct {
	Min     any    `json:"min"`
	Max     any    `json:"max"`
	Mean    any    `json:"mean"`
	Comment string `json:"comment"`
}

// TableReport is the result of TableInfo.
type TableReport struct {
	TableInfo TableComment     `json:"table_info"`
	ColNames  []string         `json:"col_names"`
	ColInfo   *jsonutil.Object `json:"col_info"`
}

// TableInfo fetches the table comment plus min/max/mean/comment for the
// requested columns (all columns when cols is nil). Requested columns that
// do not exist are silently dropped; when none remain, the report still
// carries the table comment alongside empty col_names and col_info.
//
// The connection must already be scoped to the target database: the catalog
// lookups filter on TABLE_SCHEMA = DATABASE().
func TableInfo(ctx context.Context, q Querier, table string, cols []string) (*TableReport, error) {
	report := &TableReport{
		ColNames: []string{},
		ColInfo:  jsonutil.NewObject(),
	}

	comment, err := tableComment(ctx, q, table)
	if err != nil {
		return nil, err
	}
	report.TableInfo.Comment = comment

	allCols, comments, err := columnComments(ctx, q, table)
	if err != nil {
		return nil, err
	}

	// Filter requested columns against the catalog, keeping request order.
	valid := allCols
	if cols != nil {
		valid = make([]string, 0, len(cols))
		for _, col := range cols {
			if _, ok := comments[col]; ok {
				valid = append(valid, col)
			}
		}
	}
	if len(valid) == 0 {
		return report, nil
	}
	report.ColNames = valid

	stats, err := columnStats(ctx, q, table, valid)
	if err != nil {
		return nil, err
	}
	for i, col := range valid {
		stats[i].Comment = comments[col]
		report.ColInfo.Set(col, stats[i])
	}
	return report, nil
}

func tableComment(ctx context.Context, q Querier, table string) (string, error) {
	const query = `
		SELECT TABLE_COMMENT
		FROM information_schema.TABLES
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = DATABASE()`

	rows, err := q.QueryContext(ctx, query, table)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindQueryFailed, "failed to fetch table comment", err)
	}
	defer rows.Close()

	var comment string
	if rows.Next() {
		if err := rows.Scan(&comment); err != nil {
			return "", errs.Wrap(errs.ErrKindQueryFailed, "failed to scan table comment", err)
		}
	}
	return comment, rows.Err()
}

// columnComments returns the table's column names in ordinal order plus a
// name → comment lookup. The name list doubles as the identifier allowlist
// for the statistics query.
func columnComments(ctx context.Context, q Querier, table string) ([]string, map[string]string, error) {
	const query = `
		SELECT COLUMN_NAME, COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = DATABASE()
		ORDER BY ORDINAL_POSITION`

	rows, err := q.QueryContext(ctx, query, table)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to fetch columns", err)
	}
	defer rows.Close()

	var names []string
	comments := make(map[string]string)
	for rows.Next() {
		var name, comment string
		if err := rows.Scan(&name, &comment); err != nil {
			return nil, nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan column comment", err)
		}
		names = append(names, name)
		comments[name] = comment
	}
	return names, comments, rows.Err()
}

// columnStats runs one aggregate SELECT computing min/max/mean for every
// column in cols, position-aligned with cols. All identifiers here came out
// of information_schema moments ago, and are backtick-quoted on top.
func columnStats(ctx context.Context, q Querier, table string, cols []string) ([]ColumnStats, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		ident := quoteIdent(col)
		fmt.Fprintf(&sb, "MIN(%s), MAX(%s), AVG(%s)", ident, ident, ident)
	}
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(table))

	rows, err := q.QueryContext(ctx, sb.String())
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to compute column statistics", err)
	}
	defer rows.Close()

	stats := make([]ColumnStats, len(cols))
	if !rows.Next() {
		return stats, rows.Err()
	}

	dest := make([]any, 3*len(cols))
	destPtrs := make([]any, len(dest))
	for i := range dest {
		destPtrs[i] = &dest[i]
	}
	if err := rows.Scan(destPtrs...); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan column statistics", err)
	}

	for i := range cols {
		stats[i] = ColumnStats{
			Min:  asValue(dest[3*i]),
			Max:  asValue(dest[3*i+1]),
			Mean: asValue(dest[3*i+2]),
		}
	}
	return stats, rows.Err()
}

// quoteIdent backtick-quotes a MySQL identifier, doubling embedded backticks.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// asValue converts driver byte slices (DECIMAL aggregates, text mins/maxes)
// to strings so they marshal as text.
func asValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
