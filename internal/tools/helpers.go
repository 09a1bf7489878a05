// Package tools defines the MCP tool surface of the gateway: schema
// introspection, connection testing, table summaries, and batch SQL
// execution. One tool call means one request: each handler resolves
// configuration, opens its own connection, and closes it before returning.
package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/koustreak/sqlgate/internal/config"
	"github.com/koustreak/sqlgate/internal/logger"
	"github.com/koustreak/sqlgate/internal/mysql"
)

// Deps carries what every tool handler needs: the startup-selected
// configuration source and the process logger.
type Deps struct {
	Source config.Source
	Logger *logger.Logger
}

// resolveParams loads the partial parameter set for the process source and
// merges it over the defaults. A configuration error means the service
// cannot run at all, so it terminates the process with a diagnostic.
func (d *Deps) resolveParams() config.Params {
	partial, err := config.Resolve(d.Source)
	if err != nil {
		d.Logger.Fatalf("configuration error: %v", err)
	}
	return config.MergeOverride(config.Defaults(), partial)
}

// openConn opens a fresh single-use connection, scoped to database when one
// is given. The caller owns the connection and must close it.
func (d *Deps) openConn(ctx context.Context, database *string) (*mysql.Conn, error) {
	params := d.resolveParams()
	if database != nil {
		params.Database = database
	}
	return mysql.Open(ctx, params)
}

// getOptionalString extracts an optional string argument from the request.
// Absent, null, or non-string values all come back as ("", false).
func getOptionalString(req mcp.CallToolRequest, key string) (string, bool) {
	args, ok := req.GetArguments()[key]
	if !ok {
		return "", false
	}
	s, ok := args.(string)
	return s, ok
}

// getStringSlice extracts an optional array-of-strings argument. Absent or
// null yields (nil, false, nil); a present array with a non-string element
// is an argument error.
func getStringSlice(req mcp.CallToolRequest, key string) ([]string, bool, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, false, fmt.Errorf("parameter %q must be an array of strings", key)
	}
	out := make([]string, 0, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, false, fmt.Errorf("parameter %q must be an array of strings: element %d is %T", key, i, v)
		}
		out = append(out, s)
	}
	return out, true, nil
}

// getBoolDefault extracts an optional boolean argument, falling back to def.
func getBoolDefault(req mcp.CallToolRequest, key string, def bool) bool {
	if v, ok := req.GetArguments()[key].(bool); ok {
		return v
	}
	return def
}
