package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/koustreak/sqlgate/internal/inspect"
)

// RegisterSchemaTool adds get_mysql_schema: a hierarchical view of database
// structures, returning tables and their columns with associated comments.
func RegisterSchemaTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_mysql_schema",
		mcp.WithDescription(
			"Retrieve the complete schema structure of MySQL databases as a nested "+
				"database → table → column → comment mapping. "+
				"Columns appear in ordinal position with their comments (empty string when none). "+
				"Databases without accessible tables appear as empty objects. "+
				"Omit db_name_list to include every database visible to the configured credentials.",
		),
		mcp.WithArray(
			"db_name_list",
			mcp.Description("Optional list of database names to inspect (e.g. [\"inventory\", \"customers\"]). Omit to enumerate all accessible databases."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbNames, _, err := getStringSlice(req, "db_name_list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		conn, err := deps.openConn(ctx, nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer conn.Close()

		schema, err := inspect.Schema(ctx, conn, dbNames)
		if err != nil {
			deps.Logger.With().Err(err).Logger().Error("schema introspection failed")
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := json.Marshal(schema)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(out)), nil
	})
}
