package search

import "github.com/lexandro/resourcewatch/resource"

// MatchLine is one match occurrence. Offsets and lengths count characters (runes).
type MatchLine struct {
	LineNumber     int    // 1-based
	Display        string // trimmed, possibly ellipsized rendering of the line
	MatchStart     int    // offset of the match within Display
	MatchLength    int    // length of the match within Display
	OriginalColumn int    // offset of the match within the untruncated line
}

// FileResult holds the matches found in one file, by line then column.
type FileResult struct {
	Key          resource.Key
	FileName     string
	RelativePath string // project-relative, '/'-separated
	Matches      []MatchLine
}

// Results is the outcome of one search.
type Results struct {
	Term              string
	Files             []FileResult
	TotalMatches      int
	TotalFiles        int
	WasCancelled      bool
	ReachedMaxResults bool
}
