package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/resourcewatch/resource"
)

// RescanArgs defines the input parameters for the rescan tool.
type RescanArgs struct{}

// RescanFunc performs a full rescan of the project's resources.
// It is provided by main.go to avoid circular dependencies.
type RescanFunc func() (resource.ScanResult, error)

// RescanHandler holds the dependencies for the rescan tool.
type RescanHandler struct {
	DoRescan RescanFunc
	Logger   *slog.Logger
}

// Handle processes a rescan request.
func (h *RescanHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RescanArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	h.Logger.Info("rescan started")

	result, err := h.DoRescan()
	if err != nil {
		h.Logger.Error("rescan failed", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Rescan error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("rescan complete",
		"files", result.Total,
		"added", result.Added,
		"removed", result.Removed,
		"elapsed", elapsed,
	)

	output := fmt.Sprintf("rescanned: %d files (+%d, -%d) in %s",
		result.Total, result.Added, result.Removed, elapsed.Round(time.Millisecond))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
