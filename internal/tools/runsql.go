package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/koustreak/sqlgate/internal/mysql"
)

// RegisterRunSQLTool adds run_sql: execute an ordered batch of SQL
// statements on one connection under a single transaction, reporting a
// position-aligned outcome or error per statement.
func RegisterRunSQLTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"run_sql",
		mcp.WithDescription(
			"Execute a list of SQL statements, in order, on one connection under a "+
				"single transaction. Returns {results, errors, status}: results and "+
				"errors are position-aligned with sql_list. A fetched SELECT yields its "+
				"rows, other statements yield {\"affected_rows\": n}, and a failing "+
				"statement yields a null result plus an error message without stopping "+
				"the statements after it. Successful statements are committed together "+
				"even when some statements in the batch failed.",
		),
		mcp.WithArray(
			"sql_list",
			mcp.Required(),
			mcp.Description("Ordered list of SQL statement texts to execute."),
		),
		mcp.WithString(
			"database",
			mcp.Required(),
			mcp.Description("Database to run the batch against."),
		),
		mcp.WithBoolean(
			"fetch_results",
			mcp.Description("Fetch row results for SELECT statements (default true). When false, every statement reports its affected-row count."),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stmts, hasStmts, err := getStringSlice(req, "sql_list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !hasStmts {
			return mcp.NewToolResultError("parameter \"sql_list\" is required"), nil
		}
		database, err := req.RequireString("database")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fetch := getBoolDefault(req, "fetch_results", true)

		log := deps.Logger.With().Str("database", database).Int("statements", len(stmts)).Logger()

		var report mysql.Report
		conn, err := deps.openConn(ctx, &database)
		if err != nil {
			log.With().Err(err).Logger().Error("batch connection failed")
			report = mysql.FailedReport(len(stmts), err)
		} else {
			defer conn.Close()
			report = mysql.RunBatch(ctx, conn, stmts, fetch)
			log.Debugf("batch finished with status %s", report.Status)
		}

		out, err := json.Marshal(report)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(out)), nil
	})
}
