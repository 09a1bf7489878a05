package tools

import (
	"github.com/mark3labs/mcp-go/server"
)

// Register adds every gateway tool to the MCP server.
func Register(s *server.MCPServer, deps *Deps) {
	RegisterSchemaTool(s, deps)
	RegisterConnectionTool(s, deps)
	RegisterTableInfoTool(s, deps)
	RegisterRunSQLTool(s, deps)
}
