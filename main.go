// Command sqlgate runs a thin MySQL query gateway as an MCP server over
// stdio. It resolves connection parameters from a configurable source,
// opens a fresh connection per request, and exposes schema introspection,
// connection testing, and batch SQL execution as tools.
package main

import (
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/koustreak/sqlgate/internal/config"
	"github.com/koustreak/sqlgate/internal/logger"
	"github.com/koustreak/sqlgate/internal/tools"
)

const (
	serverName    = "sqlgate"
	serverVersion = "1.0.0"
)

func main() {
	log := logger.New(nil)

	// One positional argument selects the configuration source for the
	// process lifetime; only test_connection may override it per call.
	source := config.SourceYAML
	if len(os.Args) > 1 {
		parsed, err := config.ParseSource(os.Args[1])
		if err != nil {
			log.Fatalf("%v", err)
		}
		source = parsed
	}

	log.With().Str("source", string(source)).Logger().Info("starting mcp server on stdio")

	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	tools.Register(s, &tools.Deps{Source: source, Logger: log})

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
