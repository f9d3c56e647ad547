// Package search implements "find in files" over the project's file resources.
package search

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lexandro/resourcewatch/language"
	"github.com/lexandro/resourcewatch/metrics"
	"github.com/lexandro/resourcewatch/resource"
)

const (
	// DefaultMaxResults caps the total matches returned by one search.
	DefaultMaxResults = 1000
	// DefaultMaxFileSize is the largest file that is scanned.
	DefaultMaxFileSize int64 = 1024 * 1024
)

// Source supplies the project's file resources in a stable order.
// *resource.Registry satisfies it.
type Source interface {
	ProjectRoot() string
	Files() []resource.File
}

// Options configures an Engine.
type Options struct {
	MaxResults  int
	MaxFileSize int64
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// Query is one search request.
type Query struct {
	Term      string
	MatchCase bool
	WholeWord bool
	FileGlob  string // optional doublestar pattern matched against resource keys
}

// Engine scans file resources for text matches.
// Concurrent searches are safe; callers should cancel a superseded search.
type Engine struct {
	source      Source
	maxResults  int
	maxFileSize int64
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewEngine creates a search engine over source.
func NewEngine(source Source, options Options) *Engine {
	e := &Engine{
		source:      source,
		maxResults:  options.MaxResults,
		maxFileSize: options.MaxFileSize,
		metrics:     options.Metrics,
		logger:      options.Logger,
	}
	if e.maxResults <= 0 {
		e.maxResults = DefaultMaxResults
	}
	if e.maxFileSize <= 0 {
		e.maxFileSize = DefaultMaxFileSize
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Search scans every file resource in source order. It never fails: on
// cancellation the matches found so far are returned with WasCancelled set,
// and unreadable files are skipped.
func (e *Engine) Search(ctx context.Context, query Query) (results Results) {
	start := time.Now()
	results.Term = query.Term

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("search failed", "term", query.Term, "panic", r)
		}
		results.TotalFiles = len(results.Files)
		e.metrics.ObserveSearch(outcome(results), time.Since(start), results.TotalMatches)
		e.logger.Debug("search finished",
			"term", query.Term,
			"files", results.TotalFiles,
			"matches", results.TotalMatches,
			"cancelled", results.WasCancelled,
			"capped", results.ReachedMaxResults,
			"elapsed", time.Since(start),
		)
	}()

	if query.Term == "" || e.source == nil || e.source.ProjectRoot() == "" {
		return results
	}

	glob := strings.ReplaceAll(query.FileGlob, "\\", "/")
	if glob != "" && !doublestar.ValidatePattern(glob) {
		e.logger.Warn("invalid file glob", "glob", query.FileGlob)
		return results
	}

	m := newMatcher(query.Term, query.MatchCase, query.WholeWord)
	remaining := e.maxResults

	for _, file := range e.source.Files() {
		if ctx.Err() != nil {
			results.WasCancelled = true
			break
		}
		if glob != "" {
			if matched, err := doublestar.Match(glob, string(file.Key)); err != nil || !matched {
				continue
			}
		}

		fileResult, cancelled := e.scanFile(ctx, file, m, remaining)
		if fileResult != nil {
			results.Files = append(results.Files, *fileResult)
			results.TotalMatches += len(fileResult.Matches)
			remaining -= len(fileResult.Matches)
		}
		if cancelled {
			results.WasCancelled = true
			break
		}
		if remaining <= 0 {
			results.ReachedMaxResults = true
			break
		}
	}

	return results
}

// scanFile returns the matches in one file, at most limit of them, or nil if
// there are none or the file is not admissible. cancelled reports that ctx
// was cancelled while scanning.
func (e *Engine) scanFile(ctx context.Context, file resource.File, m *matcher, limit int) (result *FileResult, cancelled bool) {
	content, ok := e.readText(file)
	if !ok {
		return nil, false
	}

	var matches []MatchLine
	var lowerTerm string
	if !m.matchCase {
		lowerTerm = string(m.term)
	}

	for lineIdx, line := range strings.Split(content, "\n") {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		line = strings.TrimSuffix(line, "\r")

		// Cheap prefilter before converting the line to runes
		if m.matchCase {
			if !strings.Contains(line, string(m.term)) {
				continue
			}
		} else if !strings.Contains(strings.ToLower(line), lowerTerm) {
			continue
		}

		runes := []rune(line)
		for _, start := range m.find(runes) {
			s := formatSnippet(runes, start, len(m.term))
			matches = append(matches, MatchLine{
				LineNumber:     lineIdx + 1, // 1-based
				Display:        s.text,
				MatchStart:     s.start,
				MatchLength:    s.length,
				OriginalColumn: start,
			})
			if len(matches) >= limit {
				break
			}
		}
		if len(matches) >= limit {
			break
		}
	}

	if len(matches) == 0 {
		return nil, cancelled
	}
	return &FileResult{
		Key:          file.Key,
		FileName:     file.Key.Name(),
		RelativePath: string(file.Key),
		Matches:      matches,
	}, cancelled
}

// readText loads a file if it is admissible for text search.
func (e *Engine) readText(file resource.File) (string, bool) {
	if language.IsMetadataFile(file.Path) || language.IsBinaryExtension(file.Path) {
		e.metrics.FileSkipped("extension")
		return "", false
	}

	info, err := os.Stat(file.Path)
	if err != nil {
		e.logger.Debug("skipped file", "key", file.Key, "error", err)
		e.metrics.FileSkipped("error")
		return "", false
	}
	if info.IsDir() {
		return "", false
	}
	if info.Size() > e.maxFileSize {
		e.metrics.FileSkipped("size")
		return "", false
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		e.logger.Debug("skipped file", "key", file.Key, "error", err)
		e.metrics.FileSkipped("error")
		return "", false
	}
	if language.IsBinaryContent(data) {
		e.metrics.FileSkipped("binary")
		return "", false
	}
	return string(data), true
}

func outcome(results Results) string {
	switch {
	case results.WasCancelled:
		return "cancelled"
	case results.ReachedMaxResults:
		return "capped"
	case results.TotalMatches == 0:
		return "empty"
	default:
		return "completed"
	}
}
