package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/resourcewatch/resource"
)

const defaultMaxFiles = 200

// ResourcesArgs defines the input parameters for the resources tool.
type ResourcesArgs struct {
	Pattern    string `json:"pattern,omitempty" jsonschema:"Optional glob pattern to match resource keys (e.g. **/*.py). Lists every resource when empty"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of resources to return (default 200)"`
}

// ResourcesHandler holds the dependencies for the resources tool.
type ResourcesHandler struct {
	Registry *resource.Registry
	Logger   *slog.Logger
}

// Handle processes a resources request.
func (h *ResourcesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ResourcesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	pattern := strings.ReplaceAll(args.Pattern, "\\", "/")
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		h.Logger.Warn("resources called with invalid pattern", "pattern", args.Pattern)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: invalid glob pattern %q", args.Pattern)}},
			IsError: true,
		}, nil, nil
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxFiles
	}

	var keys []resource.Key
	total := 0
	for _, file := range h.Registry.Files() {
		if pattern != "" {
			if matched, _ := doublestar.Match(pattern, string(file.Key)); !matched {
				continue
			}
		}
		total++
		if len(keys) < maxResults {
			keys = append(keys, file.Key)
		}
	}

	h.Logger.Info("resources",
		"pattern", args.Pattern,
		"results", len(keys),
		"total", total,
		"elapsed", time.Since(start),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatResourceKeys(keys, total)}},
	}, nil, nil
}
