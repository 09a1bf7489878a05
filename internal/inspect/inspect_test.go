package inspect

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listTablesQuery = `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME`

	listColumnsQuery = `
		SELECT COLUMN_NAME, COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`

	tableCommentQuery = `
		SELECT TABLE_COMMENT
		FROM information_schema.TABLES
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = DATABASE()`

	columnCommentsQuery = `
		SELECT COLUMN_NAME, COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = DATABASE()
		ORDER BY ORDINAL_POSITION`
)

func newMock(t *testing.T) (Querier, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestSchema_ExplicitDatabases(t *testing.T) {
	q, mock := newMock(t)

	mock.ExpectQuery(listTablesQuery).WithArgs("hr").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("employees"))
	mock.ExpectQuery(listColumnsQuery).WithArgs("hr", "employees").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_COMMENT"}).
			AddRow("employee_id", "Unique staff identifier").
			AddRow("name", ""))
	mock.ExpectQuery(listTablesQuery).WithArgs("empty_db").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}))

	schema, err := Schema(context.Background(), q, []string{"hr", "empty_db"})
	require.NoError(t, err)

	out, err := json.Marshal(schema)
	require.NoError(t, err)

	// Column order follows ordinal position, databases without accessible
	// tables appear as empty objects, missing comments map to "".
	assert.Equal(t,
		`{"hr":{"employees":{"employee_id":"Unique staff identifier","name":""}},"empty_db":{}}`,
		string(out))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchema_EnumeratesAllDatabases(t *testing.T) {
	q, mock := newMock(t)

	mock.ExpectQuery("SHOW DATABASES").
		WillReturnRows(sqlmock.NewRows([]string{"Database"}).AddRow("finance"))
	mock.ExpectQuery(listTablesQuery).WithArgs("finance").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("ledger"))
	mock.ExpectQuery(listColumnsQuery).WithArgs("finance", "ledger").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_COMMENT"}).
			AddRow("amount", "Amount in cents"))

	schema, err := Schema(context.Background(), q, nil)
	require.NoError(t, err)

	finance, ok := schema.Get("finance")
	require.True(t, ok)
	assert.NotNil(t, finance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableInfo_AllColumns(t *testing.T) {
	q, mock := newMock(t)

	mock.ExpectQuery(tableCommentQuery).WithArgs("employees").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_COMMENT"}).AddRow("Staff records"))
	mock.ExpectQuery(columnCommentsQuery).WithArgs("employees").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_COMMENT"}).
			AddRow("salary", "Monthly salary in USD").
			AddRow("name", "Full name"))
	mock.ExpectQuery("SELECT MIN(`salary`), MAX(`salary`), AVG(`salary`), MIN(`name`), MAX(`name`), AVG(`name`) FROM `employees`").
		WillReturnRows(sqlmock.NewRows([]string{"m1", "m2", "m3", "m4", "m5", "m6"}).
			AddRow(int64(30000), int64(120000), []byte("75000.0000"), nil, nil, nil))

	report, err := TableInfo(context.Background(), q, "employees", nil)
	require.NoError(t, err)

	assert.Equal(t, "Staff records", report.TableInfo.Comment)
	assert.Equal(t, []string{"salary", "name"}, report.ColNames)

	salary, ok := report.ColInfo.Get("salary")
	require.True(t, ok)
	stats := salary.(ColumnStats)
	assert.Equal(t, int64(30000), stats.Min)
	assert.Equal(t, int64(120000), stats.Max)
	assert.Equal(t, "75000.0000", stats.Mean)
	assert.Equal(t, "Monthly salary in USD", stats.Comment)

	// Non-numeric columns get null aggregates.
	name, ok := report.ColInfo.Get("name")
	require.True(t, ok)
	assert.Nil(t, name.(ColumnStats).Min)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableInfo_FiltersRequestedColumns(t *testing.T) {
	q, mock := newMock(t)

	mock.ExpectQuery(tableCommentQuery).WithArgs("employees").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_COMMENT"}).AddRow("Staff records"))
	mock.ExpectQuery(columnCommentsQuery).WithArgs("employees").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_COMMENT"}).
			AddRow("salary", "").
			AddRow("age", "Employee age"))
	mock.ExpectQuery("SELECT MIN(`age`), MAX(`age`), AVG(`age`) FROM `employees`").
		WillReturnRows(sqlmock.NewRows([]string{"m1", "m2", "m3"}).
			AddRow(int64(22), int64(65), []byte("42.0000")))

	report, err := TableInfo(context.Background(), q, "employees", []string{"age", "bogus"})
	require.NoError(t, err)

	// Unknown requested columns are silently dropped.
	assert.Equal(t, []string{"age"}, report.ColNames)
	assert.Equal(t, 1, report.ColInfo.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableInfo_NoValidColumns(t *testing.T) {
	q, mock := newMock(t)

	mock.ExpectQuery(tableCommentQuery).WithArgs("employees").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_COMMENT"}).AddRow("Staff records"))
	mock.ExpectQuery(columnCommentsQuery).WithArgs("employees").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_COMMENT"}).
			AddRow("salary", ""))

	report, err := TableInfo(context.Background(), q, "employees", []string{"nonexistent_col"})
	require.NoError(t, err)

	// The comment is still reported alongside the empty column results,
	// and no statistics query ever runs.
	assert.Equal(t, "Staff records", report.TableInfo.Comment)
	assert.Empty(t, report.ColNames)
	assert.Equal(t, 0, report.ColInfo.Len())

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"table_info":{"comment":"Staff records"},"col_names":[],"col_info":{}}`,
		string(out))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableInfo_UnknownTable(t *testing.T) {
	q, mock := newMock(t)

	mock.ExpectQuery(tableCommentQuery).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_COMMENT"}))
	mock.ExpectQuery(columnCommentsQuery).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_COMMENT"}))

	report, err := TableInfo(context.Background(), q, "ghost", nil)
	require.NoError(t, err)

	assert.Equal(t, "", report.TableInfo.Comment)
	assert.Empty(t, report.ColNames)
	assert.Equal(t, 0, report.ColInfo.Len())
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`salary`", quoteIdent("salary"))
	assert.Equal(t, "`odd``name`", quoteIdent("odd`name"))
}
