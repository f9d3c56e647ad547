package search

import "unicode"

// matcher finds non-overlapping occurrences of a term in a line.
type matcher struct {
	term      []rune
	matchCase bool
	wholeWord bool
}

func newMatcher(term string, matchCase, wholeWord bool) *matcher {
	runes := []rune(term)
	if !matchCase {
		runes = lowerRunes(runes)
	}
	return &matcher{term: runes, matchCase: matchCase, wholeWord: wholeWord}
}

// find returns the start offsets of all accepted matches, left to right.
func (m *matcher) find(line []rune) []int {
	if len(m.term) == 0 || len(line) < len(m.term) {
		return nil
	}
	haystack := line
	if !m.matchCase {
		haystack = lowerRunes(line)
	}

	var starts []int
	for i := 0; i+len(m.term) <= len(haystack); {
		if runesEqualAt(haystack, i, m.term) && (!m.wholeWord || isWordBoundary(line, i, len(m.term))) {
			starts = append(starts, i)
			i += len(m.term)
			continue
		}
		i++
	}
	return starts
}

func runesEqualAt(haystack []rune, offset int, needle []rune) bool {
	for j, r := range needle {
		if haystack[offset+j] != r {
			return false
		}
	}
	return true
}

// isWordBoundary checks that the characters around a candidate are not alphanumeric.
func isWordBoundary(line []rune, start, length int) bool {
	if start > 0 && isWordRune(line[start-1]) {
		return false
	}
	end := start + length
	if end < len(line) && isWordRune(line[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lowerRunes(runes []rune) []rune {
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}
	return lowered
}
