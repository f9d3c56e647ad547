package tools

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/resourcewatch/monitor"
)

// DefaultFeedCapacity is the number of notifications a ChangeFeed retains.
const DefaultFeedCapacity = 500

// ChangeEntry is a notification recorded by a ChangeFeed.
type ChangeEntry struct {
	Time  time.Time
	Event monitor.Event
}

// ChangeFeed keeps the most recent monitor notifications in a ring buffer.
// Subscribe its Record method to the notification hub.
type ChangeFeed struct {
	mu      sync.Mutex
	entries []ChangeEntry
	next    int
	full    bool
	dropped int
	now     func() time.Time
}

// NewChangeFeed creates a feed holding up to capacity notifications.
func NewChangeFeed(capacity int) *ChangeFeed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	return &ChangeFeed{
		entries: make([]ChangeEntry, capacity),
		now:     time.Now,
	}
}

// Record appends event, overwriting the oldest entry when the feed is full.
func (f *ChangeFeed) Record(event monitor.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.full {
		f.dropped++
	}
	f.entries[f.next] = ChangeEntry{Time: f.now(), Event: event}
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
}

// Snapshot returns the retained entries oldest first and the number of
// entries lost to overflow. With clear set the feed is emptied.
func (f *ChangeFeed) Snapshot(clear bool) ([]ChangeEntry, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []ChangeEntry
	if f.full {
		result = append(result, f.entries[f.next:]...)
	}
	result = append(result, f.entries[:f.next]...)
	dropped := f.dropped

	if clear {
		clearEntries(f.entries)
		f.next = 0
		f.full = false
		f.dropped = 0
	}
	return result, dropped
}

// Len returns the number of retained entries.
func (f *ChangeFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return len(f.entries)
	}
	return f.next
}

func clearEntries(entries []ChangeEntry) {
	for i := range entries {
		entries[i] = ChangeEntry{}
	}
}

// ChangesArgs defines the input parameters for the changes tool.
type ChangesArgs struct {
	Clear bool `json:"clear,omitempty" jsonschema:"If true the returned notifications are removed from the feed"`
}

// ChangesHandler holds the dependencies for the changes tool.
type ChangesHandler struct {
	Feed   *ChangeFeed
	Logger *slog.Logger
}

// Handle processes a changes request.
func (h *ChangesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ChangesArgs) (*mcp.CallToolResult, any, error) {
	entries, dropped := h.Feed.Snapshot(args.Clear)

	h.Logger.Info("changes",
		"entries", len(entries),
		"dropped", dropped,
		"clear", args.Clear,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatChanges(entries, dropped)}},
	}, nil, nil
}
