package tools

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/resourcewatch/search"
)

// FindArgs defines the input parameters for the find_in_files tool.
type FindArgs struct {
	Term      string `json:"term" jsonschema:"Text to search for. Matched literally, not as a regular expression"`
	MatchCase bool   `json:"matchCase,omitempty" jsonschema:"If true the search is case sensitive"`
	WholeWord bool   `json:"wholeWord,omitempty" jsonschema:"If true only matches bounded by non-word characters are returned"`
	FileGlob  string `json:"fileGlob,omitempty" jsonschema:"Optional glob pattern to filter resources (e.g. **/*.py)"`
}

// FindHandler holds the dependencies for the find_in_files tool.
// Starting a search cancels the one still in flight.
type FindHandler struct {
	Engine *search.Engine
	Logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

// Handle processes a find_in_files request.
func (h *FindHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FindArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Term == "" {
		h.Logger.Warn("find_in_files called with empty term")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: term parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	searchCtx, done := h.begin(ctx)
	defer done()

	results := h.Engine.Search(searchCtx, search.Query{
		Term:      args.Term,
		MatchCase: args.MatchCase,
		WholeWord: args.WholeWord,
		FileGlob:  args.FileGlob,
	})

	h.Logger.Info("find_in_files",
		"term", args.Term,
		"matchCase", args.MatchCase,
		"wholeWord", args.WholeWord,
		"fileGlob", args.FileGlob,
		"files", results.TotalFiles,
		"matches", results.TotalMatches,
		"cancelled", results.WasCancelled,
		"elapsed", time.Since(start),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatSearchResults(results)}},
	}, nil, nil
}

// begin cancels the previous search and returns a context for the new one.
func (h *FindHandler) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.seq++
	seq := h.seq
	h.cancel = cancel
	h.mu.Unlock()

	return ctx, func() {
		h.mu.Lock()
		if h.seq == seq {
			h.cancel = nil
		}
		h.mu.Unlock()
		cancel()
	}
}
