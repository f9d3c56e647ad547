package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/resourcewatch/monitor"
	"github.com/lexandro/resourcewatch/resource"
)

// StatusArgs defines the input parameters for the status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Registry  *resource.Registry
	Monitor   *monitor.Monitor
	Feed      *ChangeFeed
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	fileCount := h.Registry.FileCount()
	running := h.Monitor != nil && h.Monitor.IsRunning()
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("status",
		"files", fileCount,
		"watching", running,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	watchState := "stopped"
	if running {
		watchState = "running"
	}

	builder.WriteString("=== resourcewatch Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.Registry.ProjectRoot()))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("File resources: %d\n", fileCount))
	builder.WriteString(fmt.Sprintf("Change monitor: %s\n", watchState))
	if h.Feed != nil {
		builder.WriteString(fmt.Sprintf("Recorded notifications: %d\n", h.Feed.Len()))
	}
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
