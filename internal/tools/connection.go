package tools

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/koustreak/sqlgate/internal/config"
	"github.com/koustreak/sqlgate/internal/mysql"
)

// RegisterConnectionTool adds test_connection: verify that a MySQL
// connection can be established with the resolved configuration. It reduces
// every connection failure to false and never surfaces an error to the
// caller.
func RegisterConnectionTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"test_connection",
		mcp.WithDescription(
			"Test whether a MySQL connection can be established with the configured "+
				"parameters. Returns true on success and false on any connection failure "+
				"(bad credentials, unreachable server, unknown database). "+
				"Optionally name a database to test selecting it, and override the "+
				"configuration source for this call.",
		),
		mcp.WithString(
			"database",
			mcp.Description("Optional database name to connect to. Omit to test the server connection without selecting a database."),
		),
		mcp.WithString(
			"source",
			mcp.Description("Optional configuration source override for this call: \"yaml\" (config.yaml), \".env\", or \"sys_env\"."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := deps.Source
		if raw, ok := getOptionalString(req, "source"); ok {
			parsed, err := config.ParseSource(raw)
			if err != nil {
				// An unrecognized source tag is a startup-contract violation,
				// fatal just like at process start.
				deps.Logger.Fatalf("configuration error: %v", err)
			}
			source = parsed
		}

		partial, err := config.Resolve(source)
		if err != nil {
			deps.Logger.Fatalf("configuration error: %v", err)
		}

		// The caller's database choice replaces whatever the source had,
		// including replacing it with nothing.
		partial.Database = nil
		if db, ok := getOptionalString(req, "database"); ok {
			partial.Database = &db
		}

		params := config.MergeFillNull(partial, config.Defaults())

		ok := true
		conn, err := mysql.Open(ctx, params)
		if err != nil {
			ok = false
		} else {
			_ = conn.Close()
		}

		deps.Logger.With().Str("source", string(source)).Logger().
			Debugf("connection test: %t", ok)
		return mcp.NewToolResultText(strconv.FormatBool(ok)), nil
	})
}
