package search

import "unicode"

const (
	maxDisplayLength = 100
	// prefixThreshold is how far into the line a match may start before the
	// beginning of the line is cut away.
	prefixThreshold = 30
	// prefixContext is roughly how much text is kept before a match once the
	// prefix is cut.
	prefixContext = 20
	// suffixSlack is how far back from the length budget a word boundary is
	// accepted when truncating the tail.
	suffixSlack = 20
	ellipsis    = "..."
)

var ellipsisLength = len([]rune(ellipsis))

// snippet is a display-ready rendering of a matched line.
type snippet struct {
	text   string
	start  int
	length int
}

// formatSnippet reduces line to at most maxDisplayLength characters around
// the match at [start, start+length). The returned offsets index the display text.
func formatSnippet(line []rune, start, length int) snippet {
	lead := 0
	for lead < start && unicode.IsSpace(line[lead]) {
		lead++
	}
	text := line[lead:]
	matchStart := start - lead

	prefix := ""
	if matchStart > prefixThreshold {
		cut := matchStart - prefixContext
		for j := cut; j < matchStart; j++ {
			if isBreakRune(text[j]) {
				cut = j + 1
				break
			}
		}
		text = text[cut:]
		matchStart -= cut
		prefix = ellipsis
	}
	prefixLength := len([]rune(prefix))

	budget := maxDisplayLength - prefixLength
	suffix := ""
	if len(text) > budget {
		limit := budget - ellipsisLength
		if matchStart+length > limit {
			length = limit - matchStart
		}
		matchEnd := matchStart + length

		cutAt := limit
		for j := limit; j > matchEnd && j >= limit-suffixSlack; j-- {
			if isBreakRune(text[j]) {
				cutAt = j
				break
			}
		}
		text = text[:cutAt]
		suffix = ellipsis
	}

	// Trailing whitespace is dropped, never past the end of the match.
	end := len(text)
	for end > matchStart+length && unicode.IsSpace(text[end-1]) {
		end--
	}
	text = text[:end]

	return snippet{
		text:   prefix + string(text) + suffix,
		start:  matchStart + prefixLength,
		length: length,
	}
}

// isBreakRune reports whether r is a good place to cut a line.
func isBreakRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
