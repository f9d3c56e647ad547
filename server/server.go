package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/resourcewatch/tools"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

// Handlers bundles the tool handlers served over MCP.
type Handlers struct {
	Find      *tools.FindHandler
	Resources *tools.ResourcesHandler
	Changes   *tools.ChangesHandler
	Status    *tools.StatusHandler
	Rescan    *tools.RescanHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "resourcewatch",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server watches a project folder and searches its files.

- Use find_in_files to search file contents for literal text. Results are capped at 1000 matches.
- Use resources to list the project's file resources, optionally filtered by glob.
- Use changes to see which resources were created, changed, deleted or renamed since the last call.
- The resource list refreshes automatically when files are added or removed. Use rescan to force it.`,
		},
	)

	// Register find_in_files tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "find_in_files",
		Description: `Search the project's text files for a literal term.

Options:
  - matchCase: case sensitive search (default false)
  - wholeWord: only matches bounded by non-letter, non-digit characters
  - fileGlob: glob pattern to filter resources (e.g. "**/*.py")

Binary files, project metadata files and files over the size limit are skipped.
Each match shows its line number and a snippet of at most 100 characters.`,
	}, handlers.Find.Handle)

	// Register resources tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "resources",
		Description: `List file resources by glob pattern. Keys are '/'-separated paths relative to the project root.

Pattern examples:
  - "**/*.py" - all Python files
  - "src/**" - everything under src/
  - "*.md" - Markdown files in the root only`,
	}, handlers.Resources.Handle)

	// Register changes tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "changes",
		Description: "Show recent resource change notifications, oldest first. Pass clear=true to remove them after reading.",
	}, handlers.Changes.Handle)

	// Register status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "status",
		Description: "Show monitor status: project root, file count, watcher state, memory usage, and uptime.",
	}, handlers.Status.Handle)

	// Register rescan tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "rescan",
		Description: "Force a full rescan of the project's file resources and reload ignore rules.",
	}, handlers.Rescan.Handle)

	return mcpServer
}
