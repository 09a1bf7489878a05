package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/koustreak/sqlgate/internal/inspect"
)

// RegisterTableInfoTool adds get_sql_table_info: table comment plus
// per-column summary statistics, in the spirit of Stata's summarize.
func RegisterTableInfoTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_sql_table_info",
		mcp.WithDescription(
			"Get detailed information about a MySQL table: the table comment, the "+
				"ordered list of column names, and per-column summary statistics "+
				"(min, max, mean) with column comments. "+
				"Min/max/mean are null for non-numeric columns. "+
				"Requested columns that do not exist are silently dropped; when none of "+
				"them exist, col_names and col_info come back empty while the table "+
				"comment is still reported.",
		),
		mcp.WithString(
			"table_name",
			mcp.Required(),
			mcp.Description("Name of the table to inspect."),
		),
		mcp.WithString(
			"database",
			mcp.Required(),
			mcp.Description("Database the table lives in."),
		),
		mcp.WithArray(
			"cols",
			mcp.Description("Optional list of column names to summarize. Omit to include every column."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := req.RequireString("table_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		database, err := req.RequireString("database")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cols, hasCols, err := getStringSlice(req, "cols")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !hasCols {
			cols = nil
		}

		conn, err := deps.openConn(ctx, &database)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer conn.Close()

		report, err := inspect.TableInfo(ctx, conn, table, cols)
		if err != nil {
			deps.Logger.With().Err(err).Str("table", table).Logger().
				Error("table introspection failed")
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := json.Marshal(report)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(out)), nil
	})
}
