// Package mcpserver exposes pane operations as MCP tools, so a
// disassembler script or agent can drive navigation over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sourcery/internal/model"
)

// New builds the MCP server and registers the tools. Protocol translation
// only; the work is done by handler.
func New(handler *Handler) *server.MCPServer {
	s := server.NewMCPServer(
		"sourcery",
		model.Version,
		server.WithToolCapabilities(false),
	)

	paneOpt := mcp.WithString("pane",
		mcp.Description("Pane name. Default: default"),
	)

	s.AddTool(mcp.NewTool("attach",
		mcp.WithDescription("Attach a pane to the module (executable or library) whose offsets will be navigated."),
		mcp.WithString("module",
			mcp.Required(),
			mcp.Description("Path of the module on this machine"),
		),
		paneOpt,
	), handler.Attach)

	s.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Report that the view moved to an offset. Resolves it with addr2line and returns the source text around the resolved line."),
		mcp.WithString("offset",
			mcp.Required(),
			mcp.Description("Offset in the module, hex (0x1000) or decimal"),
		),
		paneOpt,
	), handler.Navigate)

	s.AddTool(mcp.NewTool("add_substitution",
		mcp.WithDescription("Map a build-time path prefix to a local one. An empty local prefix removes the mapping."),
		mcp.WithString("original",
			mcp.Required(),
			mcp.Description("Path prefix as recorded in the debug info"),
		),
		mcp.WithString("local",
			mcp.Description("Replacement prefix on this machine"),
		),
		paneOpt,
	), handler.AddSubstitution)

	s.AddTool(mcp.NewTool("list_substitutions",
		mcp.WithDescription("List path substitutions in the order they are tried."),
		paneOpt,
	), handler.ListSubstitutions)

	s.AddTool(mcp.NewTool("set_sync",
		mcp.WithDescription("Enable or disable source sync. Omit enabled to toggle."),
		mcp.WithBoolean("enabled",
			mcp.Description("New sync state"),
		),
		paneOpt,
	), handler.SetSync)

	return s
}

// ServeStdio runs the server on stdin/stdout until the client goes away.
func ServeStdio(handler *Handler) error {
	return server.ServeStdio(New(handler))
}
